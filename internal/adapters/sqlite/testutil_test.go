package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/uat/internal/db"
)

// setupTestDB creates an in-memory database with the real schema. The pool
// is pinned to one connection so every query sees the same memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	database.SetMaxOpenConns(1)

	if _, err := database.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return database
}

// setupFileDB creates a file-backed database so tests can open independent
// connections against the same data.
func setupFileDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "uat-test.db")
	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if _, err := database.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return database, path
}

func seedEnvironment(t *testing.T, database *sql.DB, name string) int64 {
	t.Helper()
	res, err := database.Exec(
		"INSERT INTO environments (name, modified_by) VALUES (?, 'test')", name)
	if err != nil {
		t.Fatalf("failed to seed environment: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func seedSystem(t *testing.T, database *sql.DB, name string) int64 {
	t.Helper()
	res, err := database.Exec(
		"INSERT INTO systems (name, modified_by) VALUES (?, 'test')", name)
	if err != nil {
		t.Fatalf("failed to seed system: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func seedSection(t *testing.T, database *sql.DB, name string) int64 {
	t.Helper()
	res, err := database.Exec(
		"INSERT INTO sections (name, modified_by) VALUES (?, 'test')", name)
	if err != nil {
		t.Fatalf("failed to seed section: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func seedEmail(t *testing.T, database *sql.DB, environmentID int64, address string) int64 {
	t.Helper()
	res, err := database.Exec(
		"INSERT INTO emails (environment_id, address, modified_by) VALUES (?, ?, 'test')",
		environmentID, address)
	if err != nil {
		t.Fatalf("failed to seed email: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func seedOperator(t *testing.T, database *sql.DB, environmentID, emailID int64, name string) int64 {
	t.Helper()
	res, err := database.Exec(
		"INSERT INTO operators (environment_id, email_id, name, modified_by) VALUES (?, ?, ?, 'test')",
		environmentID, emailID, name)
	if err != nil {
		t.Fatalf("failed to seed operator: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func seedRequirement(t *testing.T, database *sql.DB, environmentID int64, code string, systemID, sectionID int64) int64 {
	t.Helper()
	res, err := database.Exec(
		"INSERT INTO requirements (environment_id, code, definition, modified_by) VALUES (?, ?, 'definition', 'test')",
		environmentID, code)
	if err != nil {
		t.Fatalf("failed to seed requirement: %v", err)
	}
	id, _ := res.LastInsertId()
	if _, err := database.Exec(
		"INSERT INTO requirement_systems (requirement_id, system_id) VALUES (?, ?)", id, systemID); err != nil {
		t.Fatalf("failed to seed requirement system: %v", err)
	}
	if _, err := database.Exec(
		"INSERT INTO requirement_sections (requirement_id, section_id) VALUES (?, ?)", id, sectionID); err != nil {
		t.Fatalf("failed to seed requirement section: %v", err)
	}
	return id
}

func seedCase(t *testing.T, database *sql.DB, environmentID int64, code string) int64 {
	t.Helper()
	res, err := database.Exec(
		"INSERT INTO cases (environment_id, code, title, modified_by) VALUES (?, ?, 'title', 'test')",
		environmentID, code)
	if err != nil {
		t.Fatalf("failed to seed case: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func seedCampaign(t *testing.T, database *sql.DB, environmentID, systemID int64, code string) int64 {
	t.Helper()
	res, err := database.Exec(
		"INSERT INTO campaigns (environment_id, system_id, code, title, modified_by) VALUES (?, ?, ?, 'title', 'test')",
		environmentID, systemID, code)
	if err != nil {
		t.Fatalf("failed to seed campaign: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func int64Ptr(i int64) *int64     { return &i }
func floatPtr(f float64) *float64 { return &f }
