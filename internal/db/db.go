// Package db owns database bootstrap: opening the SQLite file, creating the
// schema, and seeding reference data.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (creating if necessary) the SQLite database at path.
// Foreign-key enforcement is set through the DSN so the driver applies it
// to every connection the pool creates, not just the first one.
// ":memory:" is accepted for tests.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return database, nil
}

// InitOptions controls Init.
type InitOptions struct {
	// DropExisting drops every table before recreating the schema.
	// Only set from test mode.
	DropExisting bool
	// LoadInitialData seeds the global lookup tables after schema creation.
	LoadInitialData bool
	// ModifiedBy is the actor stamped on seeded rows.
	ModifiedBy string
}

// Init creates the schema and optionally seeds reference data. The
// application context calls it during Initialize.
func Init(database *sql.DB, opts InitOptions, logger zerolog.Logger) error {
	if opts.DropExisting {
		logger.Warn().Msg("dropping existing tables (test mode)")
		if _, err := database.Exec(DropSQL); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if opts.LoadInitialData {
		if err := SeedReferenceData(database, opts.ModifiedBy); err != nil {
			return fmt.Errorf("failed to seed reference data: %w", err)
		}
		logger.Info().Msg("reference data seeded")
	}

	return nil
}

// DefaultPath returns the default database location, ~/.uat/uat.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".uat", "uat.db"), nil
}
