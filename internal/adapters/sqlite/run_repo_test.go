package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/uat/internal/adapters/sqlite"
	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

func TestCampaignRunCreateStampsStart(t *testing.T) {
	database := setupTestDB(t)
	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	campaignID := seedCampaign(t, database, envID, systemID, "CAMP001")

	run, err := sqlite.NewCampaignRunRepository(database).Create(context.Background(), secondary.CampaignRunInput{
		CampaignID: int64Ptr(campaignID),
	}, envID, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if run.Status != "RUNNING" {
		t.Errorf("expected RUNNING status, got %q", run.Status)
	}
	if !run.StartedAt.Valid {
		t.Error("expected started_at stamped")
	}
	if run.FinishedAt.Valid {
		t.Error("expected finished_at empty on a fresh run")
	}
}

func TestCampaignRunSnapshotTree(t *testing.T) {
	database := setupTestDB(t)
	runs := sqlite.NewCampaignRunRepository(database)
	cases := sqlite.NewCaseRepository(database)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	campaignID := seedCampaign(t, database, envID, systemID, "CAMP001")
	caseID := seedCase(t, database, envID, "TC001")
	step, err := cases.AddStep(ctx, caseID, secondary.StepInput{
		Action:         strPtr("submit request"),
		ExpectedResult: strPtr("authorisation granted"),
	}, "alice")
	if err != nil {
		t.Fatalf("AddStep failed: %v", err)
	}

	run, err := runs.Create(ctx, secondary.CampaignRunInput{CampaignID: int64Ptr(campaignID)}, envID, "alice")
	if err != nil {
		t.Fatalf("run Create failed: %v", err)
	}
	caseRun, err := runs.AddCaseRun(ctx, run.ID, caseID, "alice")
	if err != nil {
		t.Fatalf("AddCaseRun failed: %v", err)
	}
	stepRun, err := runs.AddStepRun(ctx, caseRun.ID, step.ID, "alice")
	if err != nil {
		t.Fatalf("AddStepRun failed: %v", err)
	}

	stepRun, err = runs.RecordStepResult(ctx, stepRun.ID, secondary.StepRunInput{
		Result:  strPtr(models.RunPass),
		Comment: strPtr("granted in 2s"),
	}, "bob")
	if err != nil {
		t.Fatalf("RecordStepResult failed: %v", err)
	}
	if stepRun.Result.String != models.RunPass {
		t.Errorf("expected PASS, got %q", stepRun.Result.String)
	}

	caseRun, err = runs.RecordCaseResult(ctx, caseRun.ID, models.RunPass, "bob")
	if err != nil {
		t.Fatalf("RecordCaseResult failed: %v", err)
	}
	if caseRun.ExecutedBy.String != "bob" || !caseRun.ExecutedAt.Valid {
		t.Errorf("expected executed_by/executed_at stamped, got %+v", caseRun)
	}

	finished, err := runs.Finish(ctx, run.ID, "FINISHED", "bob")
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if !finished.FinishedAt.Valid {
		t.Error("expected finished_at stamped")
	}

	loaded, err := runs.GetWithRelations(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetWithRelations failed: %v", err)
	}
	if loaded.Campaign == nil || loaded.Campaign.Code != "CAMP001" {
		t.Errorf("expected the campaign loaded, got %+v", loaded.Campaign)
	}
	if len(loaded.CaseRuns) != 1 || len(loaded.CaseRuns[0].StepRuns) != 1 {
		t.Fatalf("expected the full snapshot tree, got %+v", loaded.CaseRuns)
	}
}

func TestRecordStepResultRejectsUnknownResult(t *testing.T) {
	database := setupTestDB(t)
	runs := sqlite.NewCampaignRunRepository(database)
	cases := sqlite.NewCaseRepository(database)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	campaignID := seedCampaign(t, database, envID, systemID, "CAMP001")
	caseID := seedCase(t, database, envID, "TC001")
	step, err := cases.AddStep(ctx, caseID, secondary.StepInput{
		Action:         strPtr("submit request"),
		ExpectedResult: strPtr("ok"),
	}, "alice")
	if err != nil {
		t.Fatalf("AddStep failed: %v", err)
	}
	run, err := runs.Create(ctx, secondary.CampaignRunInput{CampaignID: int64Ptr(campaignID)}, envID, "alice")
	if err != nil {
		t.Fatalf("run Create failed: %v", err)
	}
	caseRun, err := runs.AddCaseRun(ctx, run.ID, caseID, "alice")
	if err != nil {
		t.Fatalf("AddCaseRun failed: %v", err)
	}
	stepRun, err := runs.AddStepRun(ctx, caseRun.ID, step.ID, "alice")
	if err != nil {
		t.Fatalf("AddStepRun failed: %v", err)
	}

	_, err = runs.RecordStepResult(ctx, stepRun.ID, secondary.StepRunInput{
		Result: strPtr("MAYBE"),
	}, "bob")
	if !sqlite.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStepDeleteRestrictedWhileStepRunExists(t *testing.T) {
	database := setupTestDB(t)
	runs := sqlite.NewCampaignRunRepository(database)
	cases := sqlite.NewCaseRepository(database)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	campaignID := seedCampaign(t, database, envID, systemID, "CAMP001")
	caseID := seedCase(t, database, envID, "TC001")
	step, err := cases.AddStep(ctx, caseID, secondary.StepInput{
		Action:         strPtr("submit request"),
		ExpectedResult: strPtr("ok"),
	}, "alice")
	if err != nil {
		t.Fatalf("AddStep failed: %v", err)
	}
	run, err := runs.Create(ctx, secondary.CampaignRunInput{CampaignID: int64Ptr(campaignID)}, envID, "alice")
	if err != nil {
		t.Fatalf("run Create failed: %v", err)
	}
	caseRun, err := runs.AddCaseRun(ctx, run.ID, caseID, "alice")
	if err != nil {
		t.Fatalf("AddCaseRun failed: %v", err)
	}
	if _, err := runs.AddStepRun(ctx, caseRun.ID, step.ID, "alice"); err != nil {
		t.Fatalf("AddStepRun failed: %v", err)
	}

	_, err = cases.DeleteStep(ctx, step.ID)
	if !sqlite.IsForeignKeyError(err) {
		t.Fatalf("expected foreign key error, got %v", err)
	}
}
