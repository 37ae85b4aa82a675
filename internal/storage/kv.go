package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"

	DatabaseFile = "history.db"
	StateFile    = "state.json"
)

var (
	ErrNotFound = errors.New("key not found")
	// ErrCorrupt means the backend's document could not be decoded.
	ErrCorrupt = errors.New("stored data is corrupt")
)

// KV is a local key-value store holding serialized snapshots. A single
// process is expected to write a key at a time.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Stat(ctx context.Context, key string) (*Meta, error)
	Backend() string
	Close() error
}

// Meta describes the last write of a key.
type Meta struct {
	Key       string
	Size      int
	Writer    string
	UpdatedAt time.Time
}

type Options struct {
	Backend string
	DataDir string
	// Writer identifies the session writing through this store.
	Writer string
	Logger MigrationLogger
}

func ValidBackend(name string) bool {
	switch name {
	case BackendSQLite, BackendFile, BackendMemory:
		return true
	default:
		return false
	}
}

// Open returns the backend named in opts, creating its files under
// opts.DataDir when needed.
func Open(opts Options) (KV, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		return New(filepath.Join(opts.DataDir, DatabaseFile), opts.Writer, opts.Logger)
	case BackendFile:
		return NewFileStore(filepath.Join(opts.DataDir, StateFile), opts.Writer)
	case BackendMemory:
		return NewMemoryStore(opts.Writer), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
