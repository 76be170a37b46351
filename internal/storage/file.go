package storage

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// File persists each key as one file under a directory — the closest server-
// side analog of a browser's per-origin key-value storage. Values are written
// whole and read whole; the adapter has no opinion about their contents.
//
// WRITE VERIFICATION:
// After every Set, the file is read back and compared to what was written.
// A mismatch (torn write, full disk that WriteFile didn't surface, another
// process racing us) is logged as a warning but NOT returned — the never-fail
// contract means the caller keeps its in-memory copy and moves on.
type File struct {
	dir    string
	logger *slog.Logger
}

// NewFile creates a file-backed adapter rooted at dir, creating the directory
// if needed. This is the one place a storage error escapes: if the directory
// cannot be created, the caller should fall back to the Memory adapter — that
// decision belongs to startup code, not to a hidden recovery path here.
func NewFile(dir string, logger *slog.Logger) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &File{dir: dir, logger: discardLogger(logger)}, nil
}

func (f *File) Get(key string) (string, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Error("storage read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return "", false
	}
	return string(data), true
}

func (f *File) Set(key, value string) {
	path := f.path(key)
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		f.logger.Error("storage write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	// Read-back verification. Logged, never fatal.
	stored, err := os.ReadFile(path)
	if err != nil || string(stored) != value {
		f.logger.Warn("storage verification failed - data mismatch",
			slog.String("key", key),
		)
	}
}

func (f *File) Remove(key string) {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		f.logger.Error("storage remove failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// path maps a storage key to a filename. Keys are fixed strings chosen by
// this application ("blog-storage", "blog-session"), but we sanitize anyway
// so a surprising key can't escape the data directory.
func (f *File) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
	return filepath.Join(f.dir, safe+".json")
}
