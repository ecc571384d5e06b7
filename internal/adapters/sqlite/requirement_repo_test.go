package sqlite_test

import (
	"context"
	"strings"
	"testing"

	"github.com/example/uat/internal/adapters/sqlite"
	"github.com/example/uat/internal/ports/secondary"
)

func TestRequirementCreateRequiresSystems(t *testing.T) {
	database := setupTestDB(t)
	envID := seedEnvironment(t, database, "staging")
	sectionID := seedSection(t, database, "Operational")

	_, err := sqlite.NewRequirementRepository(database).Create(context.Background(), secondary.RequirementInput{
		Code:       strPtr("REQ001"),
		Definition: strPtr("The USSP shall accept flight authorisation requests."),
		SectionIDs: []int64{sectionID},
	}, envID, "alice")
	if !sqlite.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "system") {
		t.Errorf("expected the error to name the missing systems, got %q", err)
	}
}

func TestRequirementCreateRequiresSections(t *testing.T) {
	database := setupTestDB(t)
	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")

	_, err := sqlite.NewRequirementRepository(database).Create(context.Background(), secondary.RequirementInput{
		Code:       strPtr("REQ001"),
		Definition: strPtr("The USSP shall accept flight authorisation requests."),
		SystemIDs:  []int64{systemID},
	}, envID, "alice")
	if !sqlite.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "section") {
		t.Errorf("expected the error to name the missing sections, got %q", err)
	}
}

func TestRequirementCreateWithRelations(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	sectionID := seedSection(t, database, "Operational")

	req, err := sqlite.NewRequirementRepository(database).Create(ctx, secondary.RequirementInput{
		Code:       strPtr("REQ001"),
		Definition: strPtr("The USSP shall accept flight authorisation requests."),
		SystemIDs:  []int64{systemID},
		SectionIDs: []int64{sectionID},
	}, envID, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if req.Code != "REQ001" {
		t.Errorf("expected code REQ001, got %q", req.Code)
	}
	if len(req.Systems) != 1 || req.Systems[0].Name != "USSP" {
		t.Errorf("expected the USSP system loaded, got %+v", req.Systems)
	}
	if len(req.Sections) != 1 || req.Sections[0].Name != "Operational" {
		t.Errorf("expected the Operational section loaded, got %+v", req.Sections)
	}
}

func TestRequirementCodeUniquePerEnvironment(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewRequirementRepository(database)
	ctx := context.Background()

	stagingID := seedEnvironment(t, database, "staging")
	prodID := seedEnvironment(t, database, "prod")
	systemID := seedSystem(t, database, "USSP")
	sectionID := seedSection(t, database, "Operational")

	in := secondary.RequirementInput{
		Code:       strPtr("REQ001"),
		Definition: strPtr("definition"),
		SystemIDs:  []int64{systemID},
		SectionIDs: []int64{sectionID},
	}
	if _, err := repo.Create(ctx, in, stagingID, "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// The same code in another environment is a different requirement.
	if _, err := repo.Create(ctx, in, prodID, "alice"); err != nil {
		t.Fatalf("Create in second environment failed: %v", err)
	}
	_, err := repo.Create(ctx, in, stagingID, "alice")
	if !sqlite.IsUniqueConstraintError(err) {
		t.Fatalf("expected unique constraint error, got %v", err)
	}
}

func TestRequirementUpdateCannotClearSystems(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewRequirementRepository(database)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	sectionID := seedSection(t, database, "Operational")
	reqID := seedRequirement(t, database, envID, "REQ001", systemID, sectionID)

	_, err := repo.Update(ctx, reqID, secondary.RequirementInput{SystemIDs: []int64{}}, "alice")
	if !sqlite.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = repo.Update(ctx, reqID, secondary.RequirementInput{SectionIDs: []int64{}}, "alice")
	if !sqlite.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRequirementPartialUpdate(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewRequirementRepository(database)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	sectionID := seedSection(t, database, "Operational")
	reqID := seedRequirement(t, database, envID, "REQ001", systemID, sectionID)

	updated, err := repo.Update(ctx, reqID, secondary.RequirementInput{
		Definition: strPtr("Amended definition."),
	}, "bob")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Code != "REQ001" {
		t.Errorf("expected code kept, got %q", updated.Code)
	}
	if updated.Definition != "Amended definition." {
		t.Errorf("expected definition updated, got %q", updated.Definition)
	}
	if len(updated.Systems) != 1 || len(updated.Sections) != 1 {
		t.Errorf("expected association sets kept, got %d systems %d sections",
			len(updated.Systems), len(updated.Sections))
	}
}

func TestRequirementDeleteCascadesJoinRows(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewRequirementRepository(database)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	sectionID := seedSection(t, database, "Operational")
	reqID := seedRequirement(t, database, envID, "REQ001", systemID, sectionID)

	deleted, err := repo.Delete(ctx, reqID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected the requirement to be deleted")
	}

	var count int
	if err := database.QueryRow(
		"SELECT COUNT(*) FROM requirement_systems WHERE requirement_id = ?", reqID,
	).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected join rows gone, found %d", count)
	}
}
