// Package storage provides the key-value adapters that stand between the
// persisted store and whatever medium actually holds its bytes.
//
// THE NEVER-FAIL CONTRACT:
// An Adapter absorbs every underlying failure. Get returns ("", false) for
// both "absent" and "broken"; Set and Remove log and carry on. This is the
// sole boundary to the volatile medium — callers above it never see a storage
// error, only the absence of data. The worst case for the application is
// silent loss of persistence, never a crash.
//
// Which adapter to use is decided ONCE at startup (see internal/server):
// File when a data directory is writable, SQL when a database is configured,
// Memory as the explicit non-persisting fallback. There is no hidden
// exception-driven switch between them.
package storage

import (
	"io"
	"log/slog"
	"sync"
)

// Adapter is the storage boundary: three operations, none of which fail
// outward. Implementations must be safe for concurrent use — the store
// serializes its own writes, but the change watcher reads concurrently.
type Adapter interface {
	// Get returns the value stored under key and true, or ("", false) if the
	// key is absent or the medium failed.
	Get(key string) (string, bool)

	// Set stores value under key. Failures are logged, never returned.
	// Implementations verify the write by reading it back and log a warning
	// (without failing) on mismatch.
	Set(key, value string)

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
}

// Memory is the pure in-memory adapter: same operation surface, nothing
// survives the process. Used as the startup fallback when no persistent
// medium is available, and as the default test double.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *Memory) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// compile-time interface checks
var (
	_ Adapter = (*Memory)(nil)
	_ Adapter = (*File)(nil)
	_ Adapter = (*SQL)(nil)
)

// discardLogger returns lgr, or a no-op logger when lgr is nil, so adapters
// never have to nil-check before logging.
func discardLogger(lgr *slog.Logger) *slog.Logger {
	if lgr != nil {
		return lgr
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
