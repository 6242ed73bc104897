package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"payrollguard/preflight/pkg/config"
)

// queueSize bounds the number of files waiting to be processed. The cron
// sweep picks up anything dropped when the queue is full.
const queueSize = 64

// InboxWatcher watches the inbox directory for payroll CSVs and feeds them
// to the processor one at a time.
type InboxWatcher struct {
	cfg       *config.Config
	processor *Processor
	watcher   *fsnotify.Watcher
	cron      *cron.Cron
	logger    *slog.Logger

	queue chan string

	mu         sync.Mutex
	pending    map[string]bool
	debouncers map[string]*Debouncer
	closing    bool

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewInboxWatcher creates a watcher over the configured inbox directory.
func NewInboxWatcher(cfg *config.Config, processor *Processor, logger *slog.Logger) (*InboxWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &InboxWatcher{
		cfg:        cfg,
		processor:  processor,
		watcher:    fsw,
		cron:       cron.New(),
		logger:     logger.With("component", "watcher.inbox"),
		queue:      make(chan string, queueSize),
		pending:    make(map[string]bool),
		debouncers: make(map[string]*Debouncer),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}, nil
}

// Run watches until the context is cancelled or Stop is called. It creates
// the working directories, sweeps the inbox for files already present,
// starts the scheduled re-sweep, and then serves filesystem events.
func (w *InboxWatcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.ensureDirs(); err != nil {
		return err
	}
	if err := w.watcher.Add(w.cfg.Watch.InboxDir); err != nil {
		return fmt.Errorf("watching inbox %s: %w", w.cfg.Watch.InboxDir, err)
	}

	workerDone := make(chan struct{})
	go w.worker(ctx, workerDone)

	w.sweep()
	if err := w.startSweepSchedule(); err != nil {
		return err
	}

	w.logger.Info("inbox watcher started",
		"inbox", w.cfg.Watch.InboxDir,
		"debounce_ms", w.cfg.Watch.Debounce.Milliseconds(),
		"sweep_schedule", w.cfg.Watch.SweepSchedule,
	)

	defer func() {
		w.stopCron()

		// Quiesce enqueues before closing the queue: pending debouncer
		// timers must not fire into a closed channel.
		w.mu.Lock()
		w.closing = true
		for _, d := range w.debouncers {
			d.Stop()
		}
		w.debouncers = make(map[string]*Debouncer)
		w.mu.Unlock()

		close(w.queue)
		<-workerDone
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("inbox watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("inbox watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}
			w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			w.debounceEnqueue(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching despite errors.
			w.logger.Error("inbox watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *InboxWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	for _, d := range w.debouncers {
		d.Stop()
	}
	w.debouncers = make(map[string]*Debouncer)
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("closing fsnotify watcher: %w", err)
	}
	return nil
}

// worker drains the queue, processing one file at a time.
func (w *InboxWatcher) worker(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for path := range w.queue {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		// The file may already be gone: moved by a previous run or
		// removed by hand.
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := w.processor.ProcessFile(ctx, path); err != nil {
			w.logger.Error("file processing failed", "file", path, "error", err)
		}
	}
}

// sweep scans the inbox and enqueues every CSV present. It covers files
// that were already waiting at startup and events that were missed.
func (w *InboxWatcher) sweep() {
	entries, err := os.ReadDir(w.cfg.Watch.InboxDir)
	if err != nil {
		w.logger.Error("sweeping inbox", "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isCSV(entry.Name()) || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		w.enqueue(filepath.Join(w.cfg.Watch.InboxDir, entry.Name()))
	}
}

func (w *InboxWatcher) startSweepSchedule() error {
	schedule := w.cfg.Watch.SweepSchedule
	if schedule == "" {
		w.logger.Info("sweep schedule not configured, relying on filesystem events only")
		return nil
	}
	if _, err := w.cron.AddFunc(schedule, w.sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	w.cron.Start()
	return nil
}

func (w *InboxWatcher) stopCron() {
	stopCtx := w.cron.Stop()
	<-stopCtx.Done()
}

// debounceEnqueue enqueues the file after its quiet period. Each path gets
// its own debouncer so one file settling does not delay another.
func (w *InboxWatcher) debounceEnqueue(path string) {
	w.mu.Lock()
	d, ok := w.debouncers[path]
	if !ok {
		d = NewDebouncer(w.cfg.Watch.Debounce)
		w.debouncers[path] = d
	}
	w.mu.Unlock()

	d.Trigger(func() { w.enqueue(path) })
}

// enqueue adds a file to the processing queue unless it is already waiting.
func (w *InboxWatcher) enqueue(path string) {
	w.mu.Lock()
	if w.closing || w.pending[path] {
		w.mu.Unlock()
		return
	}
	w.pending[path] = true
	w.mu.Unlock()

	select {
	case w.queue <- path:
	default:
		// Queue full; the next sweep will pick the file up again.
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.logger.Warn("processing queue full, deferring file", "file", path)
	}
}

func (w *InboxWatcher) ensureDirs() error {
	dirs := []string{
		w.cfg.Watch.InboxDir,
		w.cfg.Watch.ProcessedDir,
		w.cfg.Watch.FailedDir,
		w.cfg.Watch.OutputDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// shouldProcessEvent filters events down to CSV writes in the inbox.
func (w *InboxWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod || event.Op&fsnotify.Remove == fsnotify.Remove {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return isCSV(name)
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
