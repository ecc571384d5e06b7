package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/uat/internal/adapters/sqlite"
	"github.com/example/uat/internal/ports/secondary"
)

func TestCaseCreateWithAssociations(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	emailID := seedEmail(t, database, envID, "ops@aerotest.example")
	operatorID := seedOperator(t, database, envID, emailID, "AeroTest Ltd")
	systemID := seedSystem(t, database, "USSP")

	c, err := sqlite.NewCaseRepository(database).Create(ctx, secondary.CaseInput{
		Code:        strPtr("TC001"),
		Title:       strPtr("Submit flight authorisation"),
		OperatorIDs: []int64{operatorID},
		SystemIDs:   []int64{systemID},
	}, envID, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(c.Operators) != 1 || c.Operators[0].ID != operatorID {
		t.Errorf("expected the operator association, got %+v", c.Operators)
	}
	if len(c.Systems) != 1 || c.Systems[0].ID != systemID {
		t.Errorf("expected the system association, got %+v", c.Systems)
	}
}

func TestCaseStepsOrderedByPosition(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewCaseRepository(database)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	caseID := seedCase(t, database, envID, "TC001")

	// Appended without explicit positions, steps land at 1, 2, 3.
	for _, action := range []string{"log in", "plan flight", "submit request"} {
		if _, err := repo.AddStep(ctx, caseID, secondary.StepInput{
			Action:         strPtr(action),
			ExpectedResult: strPtr("ok"),
		}, "alice"); err != nil {
			t.Fatalf("AddStep failed: %v", err)
		}
	}

	steps, err := repo.GetSteps(ctx, caseID)
	if err != nil {
		t.Fatalf("GetSteps failed: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	for i, want := range []string{"log in", "plan flight", "submit request"} {
		if steps[i].Action != want {
			t.Errorf("step %d: expected %q, got %q", i, want, steps[i].Action)
		}
		if steps[i].Position != i+1 {
			t.Errorf("step %d: expected position %d, got %d", i, i+1, steps[i].Position)
		}
	}
}

func TestCaseStepPositionUniqueWithinCase(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewCaseRepository(database)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	caseID := seedCase(t, database, envID, "TC001")

	if _, err := repo.AddStep(ctx, caseID, secondary.StepInput{
		Position:       intPtr(1),
		Action:         strPtr("log in"),
		ExpectedResult: strPtr("ok"),
	}, "alice"); err != nil {
		t.Fatalf("AddStep failed: %v", err)
	}
	_, err := repo.AddStep(ctx, caseID, secondary.StepInput{
		Position:       intPtr(1),
		Action:         strPtr("log in again"),
		ExpectedResult: strPtr("ok"),
	}, "alice")
	if !sqlite.IsUniqueConstraintError(err) {
		t.Fatalf("expected unique constraint error, got %v", err)
	}
}

func TestCaseStepCoversRequirements(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewCaseRepository(database)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	sectionID := seedSection(t, database, "Operational")
	reqID := seedRequirement(t, database, envID, "REQ001", systemID, sectionID)
	caseID := seedCase(t, database, envID, "TC001")

	step, err := repo.AddStep(ctx, caseID, secondary.StepInput{
		Action:         strPtr("submit request"),
		ExpectedResult: strPtr("authorisation granted"),
		RequirementIDs: []int64{reqID},
	}, "alice")
	if err != nil {
		t.Fatalf("AddStep failed: %v", err)
	}

	steps, err := repo.GetSteps(ctx, caseID)
	if err != nil {
		t.Fatalf("GetSteps failed: %v", err)
	}
	if len(steps) != 1 || steps[0].ID != step.ID {
		t.Fatalf("expected the one step back, got %d", len(steps))
	}
	if len(steps[0].Requirements) != 1 || steps[0].Requirements[0].Code != "REQ001" {
		t.Errorf("expected REQ001 covered, got %+v", steps[0].Requirements)
	}
}

func TestCaseDeleteCascadesSteps(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewCaseRepository(database)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	caseID := seedCase(t, database, envID, "TC001")
	if _, err := repo.AddStep(ctx, caseID, secondary.StepInput{
		Action:         strPtr("log in"),
		ExpectedResult: strPtr("ok"),
	}, "alice"); err != nil {
		t.Fatalf("AddStep failed: %v", err)
	}

	deleted, err := repo.Delete(ctx, caseID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected the case to be deleted")
	}

	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM steps WHERE case_id = ?", caseID).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected steps gone with the case, found %d", count)
	}
}

func TestCaseUpdateStepMissingReturnsNotFound(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewCaseRepository(database)

	_, err := repo.UpdateStep(context.Background(), 999, secondary.StepInput{
		Action: strPtr("noop"),
	}, "alice")
	if !sqlite.IsNotFoundError(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCaseDeleteRestrictedWhileInBlock(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	caseID := seedCase(t, database, envID, "TC001")

	if _, err := sqlite.NewBlockRepository(database).Create(ctx, secondary.BlockInput{
		SystemID: int64Ptr(systemID),
		Name:     strPtr("Authorisation basics"),
		CaseIDs:  []int64{caseID},
	}, envID, "alice"); err != nil {
		t.Fatalf("block Create failed: %v", err)
	}

	_, err := sqlite.NewCaseRepository(database).Delete(ctx, caseID)
	if !sqlite.IsForeignKeyError(err) {
		t.Fatalf("expected foreign key error, got %v", err)
	}
}
