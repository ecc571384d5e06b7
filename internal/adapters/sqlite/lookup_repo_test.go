package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/uat/internal/adapters/sqlite"
)

func TestSystemGetOrCreateInserts(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewSystemRepository(database)

	system, created, err := repo.GetOrCreate(context.Background(), "USSP", "alice")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !created {
		t.Error("expected a fresh row to report created")
	}
	if system.Name != "USSP" {
		t.Errorf("expected name USSP, got %q", system.Name)
	}
}

func TestSystemGetOrCreateReturnsExisting(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewSystemRepository(database)
	ctx := context.Background()

	first, _, err := repo.GetOrCreate(ctx, "CISP", "alice")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	second, created, err := repo.GetOrCreate(ctx, "CISP", "bob")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if created {
		t.Error("expected the existing row to report created=false")
	}
	if second.ID != first.ID {
		t.Errorf("expected the same row, got ids %d and %d", first.ID, second.ID)
	}
}

func TestSectionGetOrCreateReturnsExisting(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewSectionRepository(database)
	ctx := context.Background()

	first, _, err := repo.GetOrCreate(ctx, "Operational", "alice")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	second, created, err := repo.GetOrCreate(ctx, "Operational", "alice")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if created || second.ID != first.ID {
		t.Errorf("expected the existing section back, got created=%v id=%d", created, second.ID)
	}
}

func TestSystemDeleteRestrictedWhileReferenced(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	sectionID := seedSection(t, database, "Operational")
	seedRequirement(t, database, envID, "REQ001", systemID, sectionID)

	_, err := sqlite.NewSystemRepository(database).Delete(ctx, systemID)
	if !sqlite.IsForeignKeyError(err) {
		t.Fatalf("expected foreign key error, got %v", err)
	}
}
