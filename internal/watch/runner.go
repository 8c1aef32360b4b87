// Package watch implements the file-driven operation runner: it watches
// one input file, parses each new snapshot into operation records, and
// dispatches them through a client facade strictly in file order.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"calcrpc/internal/client"
	"calcrpc/internal/history"
	"calcrpc/internal/ops"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State of the runner's loop.
type State string

const (
	StateIdle        State = "idle"
	StateWatching    State = "watching"
	StateDispatching State = "dispatching"
	StateStopped     State = "stopped"
)

// Recorder receives one entry per dispatched record. *history.Store
// satisfies it; a nil Recorder disables recording.
type Recorder interface {
	Record(e history.Entry) error
}

// Stats tracks runner activity.
type Stats struct {
	FileEvents        int
	Batches           int
	RecordsDispatched int
	RecordsFailed     int
	LinesSkipped      int
	LastBatchID       string
	LastBatchTime     time.Time
}

// Runner watches an input file and drives one facade. Each Runner owns
// its watcher and its dispatcher exclusively; two runners never share
// either.
type Runner struct {
	domain     ops.Domain
	path       string
	parser     *ops.Parser
	dispatcher client.Dispatcher
	recorder   Recorder
	log        *zap.Logger
	debounce   time.Duration

	watcher *fsnotify.Watcher
	kick    chan struct{} // capacity 1: pending re-reads coalesce here
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu      sync.RWMutex
	running bool
	state   State
	stats   Stats
}

// Options configures a Runner.
type Options struct {
	Domain     ops.Domain
	Path       string // input file to watch
	Parser     *ops.Parser
	Dispatcher client.Dispatcher
	Recorder   Recorder      // optional
	Debounce   time.Duration // settle window before re-reading; 0 disables
	Log        *zap.Logger
}

// NewRunner creates a Runner in the Idle state.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("watch: input file path required")
	}
	if opts.Parser == nil || opts.Dispatcher == nil {
		return nil, fmt.Errorf("watch: parser and dispatcher required")
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Runner{
		domain:     opts.Domain,
		path:       opts.Path,
		parser:     opts.Parser,
		dispatcher: opts.Dispatcher,
		recorder:   opts.Recorder,
		log:        opts.Log,
		debounce:   opts.Debounce,
		watcher:    watcher,
		kick:       make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		state:      StateIdle,
	}, nil
}

// Start begins watching. The parent directory is watched rather than
// the file itself so editors that truncate or rename on save do not
// drop the watch. Non-blocking; the loop runs in its own goroutine.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := r.watcher.Add(dir); err != nil {
		// The loop goroutines never launched; undo the running flag so
		// a later Stop does not block waiting for them.
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		r.watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	r.setState(StateWatching)
	r.log.Info("watching input file",
		zap.String("file", r.path),
		zap.String("domain", string(r.domain)))

	go r.forward()
	go r.run(ctx)
	return nil
}

// Trigger queues one re-read as if the file had just been written.
// Useful at startup when the file already has content.
func (r *Runner) Trigger() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Stop shuts the runner down and waits for the loop to exit. A batch in
// flight stops at the next record boundary; the in-flight call is never
// interrupted. The facade is not closed here; its owner closes it.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh

	if err := r.watcher.Close(); err != nil {
		r.log.Error("error closing watcher", zap.Error(err))
	}
	r.setState(StateStopped)
	r.log.Info("runner stopped")
}

// forward narrows raw fsnotify events to writes on the watched file and
// collapses them into the capacity-1 kick channel. A burst of writes
// while a batch dispatches therefore yields exactly one follow-up read.
func (r *Runner) forward() {
	for {
		select {
		case <-r.stopCh:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(r.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			r.mu.Lock()
			r.stats.FileEvents++
			r.mu.Unlock()
			r.log.Debug("file event", zap.String("op", event.Op.String()))
			select {
			case r.kick <- struct{}{}:
			default:
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.log.Error("watcher error", zap.Error(err))
		}
	}
}

// run is the main loop: Watching until kicked, Dispatching a snapshot,
// back to Watching.
func (r *Runner) run(ctx context.Context) {
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-r.kick:
			if !r.settle(ctx) {
				return
			}
			r.dispatchBatch(ctx)
		}
	}
}

// settle waits out the debounce window so rapid saves collapse into one
// read, then drains any kick that arrived meanwhile. Returns false when
// shutdown was requested during the wait.
func (r *Runner) settle(ctx context.Context) bool {
	if r.debounce > 0 {
		timer := time.NewTimer(r.debounce)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-r.stopCh:
			return false
		case <-timer.C:
		}
	}
	select {
	case <-r.kick:
	default:
	}
	return true
}

// dispatchBatch reads the current file snapshot, parses it, and invokes
// the facade method for each record in file order. One outstanding call
// at a time; a shutdown signal is honored between records only.
func (r *Runner) dispatchBatch(ctx context.Context) {
	r.setState(StateDispatching)
	defer r.setState(StateWatching)

	content, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Debug("input file missing, nothing to dispatch")
			return
		}
		r.log.Error("failed to read input file", zap.Error(err))
		return
	}

	records, parseErrs := r.parser.ParseFile(content)
	for _, pe := range parseErrs {
		r.log.Warn("skipping unparseable line",
			zap.Int("line", pe.Line),
			zap.String("text", pe.Text),
			zap.String("reason", pe.Reason))
	}

	batchID := uuid.NewString()
	r.mu.Lock()
	r.stats.Batches++
	r.stats.LinesSkipped += len(parseErrs)
	r.stats.LastBatchID = batchID
	r.stats.LastBatchTime = time.Now()
	r.mu.Unlock()

	r.log.Info("dispatching batch",
		zap.String("batch", batchID),
		zap.Int("records", len(records)),
		zap.Int("skipped", len(parseErrs)))

	for _, rec := range records {
		select {
		case <-ctx.Done():
			r.log.Info("batch aborted by cancellation", zap.String("batch", batchID))
			return
		case <-r.stopCh:
			r.log.Info("batch aborted by shutdown", zap.String("batch", batchID))
			return
		default:
		}

		value, err := r.dispatcher.Dispatch(rec.Op)
		entry := history.Entry{
			BatchID: batchID,
			Domain:  string(r.domain),
			Line:    rec.Line,
			Verb:    rec.Op.Verb(),
			Raw:     rec.Raw,
		}
		if err != nil {
			// Remote failures skip the record; the batch continues.
			r.log.Warn("remote call failed",
				zap.Int("line", rec.Line),
				zap.String("verb", rec.Op.Verb()),
				zap.Error(err))
			entry.Failed = true
			entry.Error = err.Error()
			r.mu.Lock()
			r.stats.RecordsFailed++
			r.mu.Unlock()
		} else {
			r.log.Info("dispatched",
				zap.Int("line", rec.Line),
				zap.String("verb", rec.Op.Verb()),
				zap.Float32("value", value))
			entry.Value = float64(value)
			r.mu.Lock()
			r.stats.RecordsDispatched++
			r.mu.Unlock()
		}
		if r.recorder != nil {
			if rerr := r.recorder.Record(entry); rerr != nil {
				r.log.Error("failed to record dispatch", zap.Error(rerr))
			}
		}
	}
}

// State returns the runner's current state.
func (r *Runner) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// GetStats returns a snapshot of the runner statistics.
func (r *Runner) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}
