package storage

import (
	"database/sql"
	"fmt"
	"time"
)

type Migration struct {
	Version     int
	Description string
	Up          string
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Key-value table for history snapshots",
		Up: `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			writer TEXT,
			updated_at INTEGER NOT NULL
		);
		`,
	},
}

func getCurrentVersion(db *sql.DB) (int, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("create schema_version table: %w", err)
	}

	var version sql.NullInt64
	err = db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("query version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}

	return int(version.Int64), nil
}

func setVersion(db *sql.DB, version int) error {
	_, err := db.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
		version, time.Now().Unix())
	return err
}

type MigrationLogger interface {
	Printf(format string, v ...interface{})
}

func RunMigrations(db *sql.DB, logger MigrationLogger) error {
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		if logger != nil {
			logger.Printf("Applying migration %d: %s", migration.Version, migration.Description)
		}

		if _, err := db.Exec(migration.Up); err != nil {
			return fmt.Errorf("apply migration %d: %w", migration.Version, err)
		}

		if err := setVersion(db, migration.Version); err != nil {
			return fmt.Errorf("record version %d: %w", migration.Version, err)
		}
	}

	return nil
}

// SchemaVersion reports the highest applied migration.
func (s *Storage) SchemaVersion() (int, error) {
	return getCurrentVersion(s.db)
}
