// Package history keeps the bounded, most-recent-first log of conversions
// and mirrors it to a key-value snapshot.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"listfmt/internal/logger"
	"listfmt/internal/storage"
)

const (
	// MaxHistory bounds the log both in memory and in the snapshot.
	MaxHistory = 10

	// DefaultKey is the snapshot key used when none is configured.
	DefaultKey = "conversionHistory"
)

var (
	ErrNotLoaded  = errors.New("history not loaded")
	ErrOutOfRange = errors.New("history index out of range")
)

// Conversion is one completed formatting run. Timestamp is in epoch
// milliseconds.
type Conversion struct {
	Input     string `json:"input"`
	Output    string `json:"output"`
	Timestamp int64  `json:"timestamp"`
}

func NewConversion(input, output string, at time.Time) Conversion {
	return Conversion{
		Input:     input,
		Output:    output,
		Timestamp: at.UnixMilli(),
	}
}

func (c Conversion) Time() time.Time {
	return time.UnixMilli(c.Timestamp)
}

type Store struct {
	kv     storage.KV
	key    string
	logger *logger.Logger

	mu      sync.RWMutex
	entries []Conversion
	loaded  bool
}

func NewStore(kv storage.KV, key string, log *logger.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logger.Default()
	}
	return &Store{
		kv:     kv,
		key:    key,
		logger: log,
	}
}

// Load reads the persisted snapshot once. A missing, malformed or corrupt
// snapshot leaves the history empty; only backend read failures are
// returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	data, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.entries = nil
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.Warn("discarding unreadable history snapshot",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		s.entries = nil
	case err != nil:
		return fmt.Errorf("load history: %w", err)
	default:
		s.entries = s.decode(data)
	}

	s.loaded = true
	s.logger.Debug("history loaded",
		slog.String("key", s.key),
		slog.String("backend", s.kv.Backend()),
		slog.Int("entries", len(s.entries)))
	return nil
}

func (s *Store) decode(data []byte) []Conversion {
	var entries []Conversion
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("discarding malformed history snapshot",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		return nil
	}
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}
	return entries
}

// Record prepends c, drops anything past MaxHistory and overwrites the
// snapshot. The in-memory log only changes once the snapshot is written.
func (s *Store) Record(ctx context.Context, c Conversion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	keep := len(s.entries)
	if keep > MaxHistory-1 {
		keep = MaxHistory - 1
	}

	next := make([]Conversion, 0, keep+1)
	next = append(next, c)
	next = append(next, s.entries[:keep]...)

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}

	evicted := len(s.entries) - keep
	s.entries = next

	s.logger.Debug("conversion recorded",
		slog.Int("entries", len(next)),
		slog.Int("evicted", evicted))
	return nil
}

// Clear removes the snapshot and empties the log.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.entries = nil
	return nil
}

// Entries returns a copy of the log, newest first.
func (s *Store) Entries() []Conversion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Conversion, len(s.entries))
	copy(result, s.entries)
	return result
}

// Get returns the entry at index i, where 0 is the newest.
func (s *Store) Get(i int) (Conversion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.entries) {
		return Conversion{}, fmt.Errorf("%w: %d (have %d)", ErrOutOfRange, i, len(s.entries))
	}
	return s.entries[i], nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) Key() string {
	return s.key
}
