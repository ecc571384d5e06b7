package db_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/example/uat/internal/db"
)

func TestOpenEnforcesForeignKeysOnEveryConnection(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "uat.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	if err := db.Init(database, db.InitOptions{ModifiedBy: "tester"}, zerolog.Nop()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	ctx := context.Background()

	// Hold one connection so the second statement runs on a fresh
	// connection from the pool rather than reusing the first.
	first, err := database.Conn(ctx)
	if err != nil {
		t.Fatalf("first Conn failed: %v", err)
	}
	defer first.Close()

	second, err := database.Conn(ctx)
	if err != nil {
		t.Fatalf("second Conn failed: %v", err)
	}
	defer second.Close()

	_, err = second.ExecContext(ctx,
		`INSERT INTO operators (environment_id, email_id, name, modified_by)
		 VALUES (999, 999, 'dangling', 'tester')`)
	if err == nil {
		t.Fatal("expected a foreign key error for the dangling operator")
	}
	if !strings.Contains(err.Error(), "FOREIGN KEY") {
		t.Fatalf("expected a foreign key error, got: %v", err)
	}
}
