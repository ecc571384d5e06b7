package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/uat/internal/adapters/sqlite"
	"github.com/example/uat/internal/ports/secondary"
)

func TestEnvironmentCreateStampsAudit(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewEnvironmentRepository(database)
	ctx := context.Background()

	env, err := repo.Create(ctx, secondary.EnvironmentInput{
		Name:        strPtr("staging"),
		Description: strPtr("pre-production"),
	}, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if env.ID == 0 {
		t.Error("expected a generated id")
	}
	if env.Name != "staging" {
		t.Errorf("expected name staging, got %q", env.Name)
	}
	if env.CreatedAt.IsZero() || env.UpdatedAt.IsZero() {
		t.Error("expected created_at and updated_at to be stamped")
	}
	if env.ModifiedBy != "alice" {
		t.Errorf("expected modified_by alice, got %q", env.ModifiedBy)
	}
}

func TestEnvironmentCreateRequiresName(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewEnvironmentRepository(database)

	_, err := repo.Create(context.Background(), secondary.EnvironmentInput{}, "alice")
	if !sqlite.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEnvironmentGetMissingReturnsNil(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewEnvironmentRepository(database)

	env, err := repo.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if env != nil {
		t.Errorf("expected nil for a missing id, got %+v", env)
	}
}

func TestEnvironmentUpdateMissingReturnsNotFound(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewEnvironmentRepository(database)

	_, err := repo.Update(context.Background(), 999, secondary.EnvironmentInput{Name: strPtr("x")}, "alice")
	if !sqlite.IsNotFoundError(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestEnvironmentPartialUpdateKeepsOmittedFields(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewEnvironmentRepository(database)
	ctx := context.Background()

	env, err := repo.Create(ctx, secondary.EnvironmentInput{
		Name:        strPtr("staging"),
		Description: strPtr("pre-production"),
	}, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := repo.Update(ctx, env.ID, secondary.EnvironmentInput{
		Description: strPtr("integration"),
	}, "bob")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "staging" {
		t.Errorf("expected name unchanged, got %q", updated.Name)
	}
	if updated.Description != "integration" {
		t.Errorf("expected description updated, got %q", updated.Description)
	}
	if updated.ModifiedBy != "bob" {
		t.Errorf("expected modified_by bob, got %q", updated.ModifiedBy)
	}
}

func TestEnvironmentDeleteMissingReturnsFalse(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewEnvironmentRepository(database)

	deleted, err := repo.Delete(context.Background(), 999)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted {
		t.Error("expected false for a missing id")
	}
}

func TestEnvironmentNameUnique(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewEnvironmentRepository(database)
	ctx := context.Background()

	if _, err := repo.Create(ctx, secondary.EnvironmentInput{Name: strPtr("prod")}, "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := repo.Create(ctx, secondary.EnvironmentInput{Name: strPtr("prod")}, "alice")
	if !sqlite.IsUniqueConstraintError(err) {
		t.Fatalf("expected unique constraint error, got %v", err)
	}
}
