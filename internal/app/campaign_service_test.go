package app

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/example/uat/internal/models"
)

func newCampaignService(uow *mockUnitOfWork) *CampaignServiceImpl {
	return NewCampaignService(&mockFactory{uow: uow}, zerolog.Nop())
}

func TestTransitionStatusLegalMove(t *testing.T) {
	uow := newMockUnitOfWork()
	campaign := uow.campaigns.add(&models.Campaign{Code: "CAMP-1", Status: models.CampaignDraft})
	svc := newCampaignService(uow)

	updated, err := svc.TransitionStatus(context.Background(), campaign.ID, models.CampaignRunning, "alice")
	if err != nil {
		t.Fatalf("TransitionStatus failed: %v", err)
	}
	if updated.Status != models.CampaignRunning {
		t.Errorf("status = %s, want RUNNING", updated.Status)
	}
	if uow.commits != 1 {
		t.Errorf("commits = %d, want 1", uow.commits)
	}
}

func TestTransitionStatusIllegalMove(t *testing.T) {
	uow := newMockUnitOfWork()
	campaign := uow.campaigns.add(&models.Campaign{Code: "CAMP-1", Status: models.CampaignDraft})
	svc := newCampaignService(uow)

	_, err := svc.TransitionStatus(context.Background(), campaign.ID, models.CampaignFinished, "alice")
	if err == nil {
		t.Fatal("expected error for DRAFT to FINISHED")
	}
	if !strings.Contains(err.Error(), "cannot transition") {
		t.Errorf("unexpected error: %v", err)
	}
	if uow.commits != 0 {
		t.Errorf("commits = %d, want 0", uow.commits)
	}
	if !uow.closed {
		t.Error("unit of work not closed")
	}
}

func TestTransitionStatusUnknownCampaign(t *testing.T) {
	uow := newMockUnitOfWork()
	svc := newCampaignService(uow)

	_, err := svc.TransitionStatus(context.Background(), 99, models.CampaignRunning, "alice")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestTransitionStatusTerminalStates(t *testing.T) {
	for _, from := range []string{models.CampaignFinished, models.CampaignCancelled} {
		uow := newMockUnitOfWork()
		campaign := uow.campaigns.add(&models.Campaign{Code: "CAMP-1", Status: from})
		svc := newCampaignService(uow)

		if _, err := svc.TransitionStatus(context.Background(), campaign.ID, models.CampaignRunning, "alice"); err == nil {
			t.Errorf("expected %s to be terminal", from)
		}
	}
}

func TestStartRunSnapshotsEveryCaseOnce(t *testing.T) {
	uow := newMockUnitOfWork()

	caseA := &models.Case{Code: "CASE-A"}
	caseA.ID = 10
	caseB := &models.Case{Code: "CASE-B"}
	caseB.ID = 11
	campaign := uow.campaigns.add(&models.Campaign{
		Code:   "CAMP-1",
		Status: models.CampaignRunning,
		Blocks: []*models.Block{
			{Cases: []*models.Case{caseA, caseB}},
			// caseB sits in both blocks but must be snapshotted once.
			{Cases: []*models.Case{caseB}},
		},
	})

	stepOne := &models.Step{CaseID: caseA.ID, Position: 1}
	stepOne.ID = 20
	stepTwo := &models.Step{CaseID: caseA.ID, Position: 2}
	stepTwo.ID = 21
	uow.cases.steps[caseA.ID] = []*models.Step{stepOne, stepTwo}

	svc := newCampaignService(uow)
	run, err := svc.StartRun(context.Background(), campaign.ID, "nightly", "alice")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	if len(run.CaseRuns) != 2 {
		t.Fatalf("case runs = %d, want 2", len(run.CaseRuns))
	}
	if !run.Notes.Valid || run.Notes.String != "nightly" {
		t.Errorf("notes = %v, want nightly", run.Notes)
	}

	var stepRuns int
	for _, cr := range run.CaseRuns {
		stepRuns += len(cr.StepRuns)
	}
	if stepRuns != 2 {
		t.Errorf("step runs = %d, want 2", stepRuns)
	}
}

func TestStartRunRequiresRunningCampaign(t *testing.T) {
	uow := newMockUnitOfWork()
	campaign := uow.campaigns.add(&models.Campaign{Code: "CAMP-1", Status: models.CampaignDraft})
	svc := newCampaignService(uow)

	_, err := svc.StartRun(context.Background(), campaign.ID, "", "alice")
	if err == nil || !strings.Contains(err.Error(), "RUNNING") {
		t.Fatalf("expected running-only error, got %v", err)
	}
	if len(uow.campaignRuns.runs) != 0 {
		t.Error("no run should be created")
	}
}
