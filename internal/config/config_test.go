package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Algebraic.Addr != "127.0.0.1:7201" {
		t.Errorf("expected Algebraic.Addr=127.0.0.1:7201, got %s", cfg.Algebraic.Addr)
	}
	if cfg.Algebra.Overflow != "saturate" {
		t.Errorf("expected Overflow=saturate, got %s", cfg.Algebra.Overflow)
	}
	if cfg.Geometry.NegativeInputs != "reject" {
		t.Errorf("expected NegativeInputs=reject, got %s", cfg.Geometry.NegativeInputs)
	}
	if cfg.History.DatabasePath != "" {
		t.Errorf("expected history disabled by default, got %s", cfg.History.DatabasePath)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("CALCRPC_ALGEBRAIC_ADDR", "")
	t.Setenv("CALCRPC_GEOMETRIC_ADDR", "")
	t.Setenv("CALCRPC_HISTORY_DB", "")
	t.Setenv("CALCRPC_OVERFLOW_POLICY", "")
	t.Setenv("CALCRPC_NEGATIVE_INPUTS", "")

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Geometric.Addr = "10.0.0.5:9000"
	cfg.Algebra.Overflow = "fail"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Geometric.Addr != "10.0.0.5:9000" {
		t.Errorf("expected Geometric.Addr=10.0.0.5:9000, got %s", loaded.Geometric.Addr)
	}
	if loaded.Algebra.Overflow != "fail" {
		t.Errorf("expected Overflow=fail, got %s", loaded.Algebra.Overflow)
	}
}

func TestConfig_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv("CALCRPC_ALGEBRAIC_ADDR", "")
	t.Setenv("CALCRPC_GEOMETRIC_ADDR", "")
	t.Setenv("CALCRPC_HISTORY_DB", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Geometric.Addr != "127.0.0.1:7202" {
		t.Errorf("expected default Geometric.Addr, got %s", cfg.Geometric.Addr)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CALCRPC_ALGEBRAIC_ADDR", "192.168.1.9:7777")
	t.Setenv("CALCRPC_HISTORY_DB", "/tmp/h.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Algebraic.Addr != "192.168.1.9:7777" {
		t.Errorf("env override not applied, got %s", cfg.Algebraic.Addr)
	}
	if cfg.History.DatabasePath != "/tmp/h.db" {
		t.Errorf("env override not applied, got %s", cfg.History.DatabasePath)
	}
}

// Configs built without a file still go through validation, so a bad
// env-injected policy fails Load rather than slipping through.
func TestConfig_MissingFileStillValidated(t *testing.T) {
	t.Setenv("CALCRPC_OVERFLOW_POLICY", "wrap")

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for env overflow policy=wrap with no config file")
	}

	t.Setenv("CALCRPC_OVERFLOW_POLICY", "fail")
	t.Setenv("CALCRPC_NEGATIVE_INPUTS", "allow")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Algebra.Overflow != "fail" {
		t.Errorf("env override not applied, got %s", cfg.Algebra.Overflow)
	}
	if cfg.Geometry.NegativeInputs != "allow" {
		t.Errorf("env override not applied, got %s", cfg.Geometry.NegativeInputs)
	}
}

func TestConfig_ValidateRejectsUnknownPolicies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Algebra.Overflow = "wrap"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for overflow=wrap")
	}

	cfg = DefaultConfig()
	cfg.Geometry.NegativeInputs = "maybe"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative_inputs=maybe")
	}

	cfg = DefaultConfig()
	cfg.TLS.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for tls without cert/key")
	}
}

func TestDebounceDuration(t *testing.T) {
	w := WatchConfig{Debounce: "250ms"}
	if got := w.DebounceDuration(); got != 250*time.Millisecond {
		t.Errorf("DebounceDuration() = %v, want 250ms", got)
	}
	w = WatchConfig{}
	if got := w.DebounceDuration(); got != 100*time.Millisecond {
		t.Errorf("default DebounceDuration() = %v, want 100ms", got)
	}
	w = WatchConfig{Debounce: "garbage"}
	if got := w.DebounceDuration(); got != 100*time.Millisecond {
		t.Errorf("invalid DebounceDuration() = %v, want 100ms fallback", got)
	}
}
