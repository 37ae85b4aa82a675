package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"listfmt/internal/history"
	"listfmt/internal/logger"
	"listfmt/internal/storage"
)

func NewTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.New(dbPath, "test-session", nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func NewTestLogger() *logger.Logger {
	return logger.Discard()
}

// NewTestHistory returns a loaded history store backed by kv.
func NewTestHistory(t *testing.T, kv storage.KV) *history.Store {
	t.Helper()
	store := history.NewStore(kv, "", NewTestLogger())
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load history: %v", err)
	}
	return store
}

// FakeClipboard records every write. Set Err to make writes fail.
type FakeClipboard struct {
	mu      sync.Mutex
	Err     error
	texts   []string
	current string
	changed chan struct{}
}

func NewFakeClipboard() *FakeClipboard {
	return &FakeClipboard{changed: make(chan struct{})}
}

func (f *FakeClipboard) WriteText(ctx context.Context, text string) (<-chan struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	f.texts = append(f.texts, text)
	f.current = text
	return f.changed, nil
}

func (f *FakeClipboard) ReadText(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return "", f.Err
	}
	return f.current, nil
}

// SetText primes the clipboard content without counting as a write.
func (f *FakeClipboard) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = text
}

// Texts returns every text written so far, oldest first.
func (f *FakeClipboard) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]string, len(f.texts))
	copy(result, f.texts)
	return result
}

// Replace simulates another program taking over the clipboard.
func (f *FakeClipboard) Replace() {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.changed)
	f.changed = make(chan struct{})
}

func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

func AssertEqual(t *testing.T, got, want interface{}, msg string) {
	t.Helper()
	if got != want {
		t.Fatalf("%s: got %v, want %v", msg, got, want)
	}
}

func AssertContains(t *testing.T, haystack, needle string, msg string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("%s: %q does not contain %q", msg, haystack, needle)
	}
}
