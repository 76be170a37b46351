package store

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/techhorizon/blog/internal/storage"
)

// Watcher observes the snapshot key for writes made by OTHER processes
// sharing the same storage medium — the server-side analog of a browser
// tab's storage-change listener.
//
// OBSERVABILITY ONLY:
// The watcher logs external updates and forwards them on a channel; it does
// NOT merge them into the live store. Concurrent writers are last-write-wins
// at the adapter level, and that stays visible in the logs instead of being
// papered over by a reconciliation this data model doesn't define.
type Watcher struct {
	adapter  storage.Adapter
	store    *Store
	logger   *slog.Logger
	interval time.Duration

	updates chan string
}

// NewWatcher creates a watcher polling the snapshot key every interval.
// A non-positive interval defaults to one second.
func NewWatcher(adapter storage.Adapter, st *Store, logger *slog.Logger, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		adapter:  adapter,
		store:    st,
		logger:   logger,
		interval: interval,
		updates:  make(chan string, 1),
	}
}

// Updates delivers the raw snapshot value of each external change observed.
// The channel has capacity 1 and drops when nobody is listening — a missed
// notification only costs a log reader, never blocks the watcher.
func (w *Watcher) Updates() <-chan string {
	return w.updates
}

// Run polls until ctx is cancelled. Call it in its own goroutine.
//
// An observed value equal to the store's own current serialization is this
// process's write echoing back; anything else came from outside.
func (w *Watcher) Run(ctx context.Context) {
	last, _ := w.adapter.Get(SnapshotKey)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current, ok := w.adapter.Get(SnapshotKey)
			if !ok || current == last {
				continue
			}
			last = current

			if current == w.store.Snapshot() {
				w.logger.Debug("storage updated by this process")
				continue
			}

			w.logger.Warn("storage updated externally, last write wins",
				slog.Int("bytes", len(current)),
			)
			select {
			case w.updates <- current:
			default:
			}
		}
	}
}
