package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "listfmt/internal/errors"
)

type fileEntry struct {
	Value     string `json:"value"`
	Writer    string `json:"writer,omitempty"`
	UpdatedAt int64  `json:"updated_at"`
}

// FileStore keeps every key in one JSON document. Writes replace the
// document through a temp file and rename. A document that no longer
// decodes is reported as ErrCorrupt on reads and replaced on the next write.
type FileStore struct {
	filePath string
	writer   string
	mu       sync.RWMutex
}

func NewFileStore(filePath, writer string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	return &FileStore{
		filePath: filePath,
		writer:   writer,
	}, nil
}

func (f *FileStore) Backend() string {
	return BackendFile
}

func (f *FileStore) readState() (map[string]fileEntry, error) {
	data := make(map[string]fileEntry)

	fileData, err := os.ReadFile(f.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, err
	}

	if len(fileData) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(fileData, &data); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCorrupt, f.filePath, err)
	}

	return data, nil
}

func (f *FileStore) writeState(data map[string]fileEntry) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(f.filePath)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.filePath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(jsonData); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, f.filePath)
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := f.readState()
	if err != nil {
		return nil, apperrors.WrapBackend(BackendFile, "get", err)
	}

	entry, exists := data[key]
	if !exists {
		return nil, ErrNotFound
	}
	return []byte(entry.Value), nil
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.readState()
	if errors.Is(err, ErrCorrupt) {
		data = make(map[string]fileEntry)
	} else if err != nil {
		return apperrors.WrapBackend(BackendFile, "set", err)
	}

	data[key] = fileEntry{
		Value:     string(value),
		Writer:    f.writer,
		UpdatedAt: time.Now().UnixMilli(),
	}

	return apperrors.WrapBackend(BackendFile, "set", f.writeState(data))
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.readState()
	if errors.Is(err, ErrCorrupt) {
		data = make(map[string]fileEntry)
	} else if err != nil {
		return apperrors.WrapBackend(BackendFile, "delete", err)
	}

	if _, exists := data[key]; !exists {
		return nil
	}
	delete(data, key)

	return apperrors.WrapBackend(BackendFile, "delete", f.writeState(data))
}

func (f *FileStore) Stat(ctx context.Context, key string) (*Meta, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := f.readState()
	if err != nil {
		return nil, apperrors.WrapBackend(BackendFile, "stat", err)
	}

	entry, exists := data[key]
	if !exists {
		return nil, ErrNotFound
	}

	return &Meta{
		Key:       key,
		Size:      len(entry.Value),
		Writer:    entry.Writer,
		UpdatedAt: time.UnixMilli(entry.UpdatedAt),
	}, nil
}

func (f *FileStore) Close() error {
	return nil
}
