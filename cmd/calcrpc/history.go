package main

import (
	"fmt"

	"calcrpc/internal/config"
	"calcrpc/internal/history"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd prints the dispatch log
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently dispatched operations",
	Long: `Lists entries from the dispatch log, newest first. The log is
written by "calcrpc watch" when history.database_path is configured.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cfg.History.DatabasePath == "" {
		return fmt.Errorf("history is disabled: set history.database_path in %s", cfgPath)
	}

	store, err := history.Open(cfg.History.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no dispatches recorded")
		return nil
	}

	for _, e := range entries {
		ts := e.DispatchedAt.Local().Format("2006-01-02 15:04:05")
		if e.Failed {
			fmt.Printf("%s  %-9s line %-3d %-20q FAILED: %s\n", ts, e.Domain, e.Line, e.Raw, e.Error)
		} else {
			fmt.Printf("%s  %-9s line %-3d %-20q = %g\n", ts, e.Domain, e.Line, e.Raw, e.Value)
		}
	}
	return nil
}
