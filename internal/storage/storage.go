package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	apperrors "listfmt/internal/errors"
)

// Storage handles SQLite database operations
type Storage struct {
	db     *sql.DB
	writer string
}

// New opens the database at dbPath, creating it and its directory if
// missing, and brings the schema up to date.
func New(dbPath, writer string, logger MigrationLogger) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperrors.WrapStorage("open database", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, apperrors.WrapStorage("enable WAL mode", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, apperrors.WrapStorage("set busy timeout", err)
	}

	if err := RunMigrations(db, logger); err != nil {
		db.Close()
		return nil, apperrors.WrapStorage("run migrations", err)
	}

	return &Storage{db: db, writer: writer}, nil
}

func (s *Storage) Backend() string {
	return BackendSQLite
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.WrapBackend(BackendSQLite, "get", err)
	}
	return []byte(value), nil
}

// Set overwrites the value stored under key in a single statement.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, writer, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			writer = excluded.writer,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, key, string(value), s.writer, time.Now().UnixMilli())
	if err != nil {
		return apperrors.WrapBackend(BackendSQLite, "set", err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return apperrors.WrapBackend(BackendSQLite, "delete", err)
	}
	return nil
}

func (s *Storage) Stat(ctx context.Context, key string) (*Meta, error) {
	query := `
		SELECT length(value), writer, updated_at
		FROM kv
		WHERE key = ?
	`

	var size int
	var writer sql.NullString
	var updatedAt int64

	err := s.db.QueryRowContext(ctx, query, key).Scan(&size, &writer, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.WrapBackend(BackendSQLite, "stat", err)
	}

	meta := &Meta{
		Key:       key,
		Size:      size,
		UpdatedAt: time.UnixMilli(updatedAt),
	}
	if writer.Valid {
		meta.Writer = writer.String
	}
	return meta, nil
}
