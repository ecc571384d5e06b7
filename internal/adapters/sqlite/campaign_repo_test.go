package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/uat/internal/adapters/sqlite"
	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

func TestCampaignCreateDefaultsToDraft(t *testing.T) {
	database := setupTestDB(t)
	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")

	campaign, err := sqlite.NewCampaignRepository(database).Create(context.Background(), secondary.CampaignInput{
		SystemID: int64Ptr(systemID),
		Code:     strPtr("CAMP001"),
		Title:    strPtr("USSP acceptance"),
	}, envID, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if campaign.Status != models.CampaignDraft {
		t.Errorf("expected DRAFT status, got %q", campaign.Status)
	}
}

func TestCampaignRejectsUnknownStatus(t *testing.T) {
	database := setupTestDB(t)
	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")

	_, err := sqlite.NewCampaignRepository(database).Create(context.Background(), secondary.CampaignInput{
		SystemID: int64Ptr(systemID),
		Code:     strPtr("CAMP001"),
		Title:    strPtr("USSP acceptance"),
		Status:   strPtr("PAUSED"),
	}, envID, "alice")
	if !sqlite.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCampaignWithRelationsLoadsBlocksAndCases(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	caseID := seedCase(t, database, envID, "TC001")

	block, err := sqlite.NewBlockRepository(database).Create(ctx, secondary.BlockInput{
		SystemID: int64Ptr(systemID),
		Name:     strPtr("Authorisation basics"),
		CaseIDs:  []int64{caseID},
	}, envID, "alice")
	if err != nil {
		t.Fatalf("block Create failed: %v", err)
	}

	campaign, err := sqlite.NewCampaignRepository(database).Create(ctx, secondary.CampaignInput{
		SystemID: int64Ptr(systemID),
		Code:     strPtr("CAMP001"),
		Title:    strPtr("USSP acceptance"),
		BlockIDs: []int64{block.ID},
	}, envID, "alice")
	if err != nil {
		t.Fatalf("campaign Create failed: %v", err)
	}
	if campaign.System == nil || campaign.System.Name != "USSP" {
		t.Errorf("expected the system loaded, got %+v", campaign.System)
	}
	if len(campaign.Blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(campaign.Blocks))
	}
	if len(campaign.Blocks[0].Cases) != 1 || campaign.Blocks[0].Cases[0].Code != "TC001" {
		t.Errorf("expected the block's case loaded, got %+v", campaign.Blocks[0].Cases)
	}
}

func TestCampaignTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.CampaignDraft, models.CampaignRunning, true},
		{models.CampaignDraft, models.CampaignCancelled, true},
		{models.CampaignDraft, models.CampaignFinished, false},
		{models.CampaignRunning, models.CampaignFinished, true},
		{models.CampaignRunning, models.CampaignCancelled, true},
		{models.CampaignRunning, models.CampaignDraft, false},
		{models.CampaignFinished, models.CampaignRunning, false},
		{models.CampaignCancelled, models.CampaignRunning, false},
	}
	for _, tc := range cases {
		if got := models.CanTransitionCampaign(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionCampaign(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCampaignDeleteRestrictedWhileRunsExist(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	envID := seedEnvironment(t, database, "staging")
	systemID := seedSystem(t, database, "USSP")
	campaignID := seedCampaign(t, database, envID, systemID, "CAMP001")

	if _, err := sqlite.NewCampaignRunRepository(database).Create(ctx, secondary.CampaignRunInput{
		CampaignID: int64Ptr(campaignID),
	}, envID, "alice"); err != nil {
		t.Fatalf("run Create failed: %v", err)
	}

	_, err := sqlite.NewCampaignRepository(database).Delete(ctx, campaignID)
	if !sqlite.IsForeignKeyError(err) {
		t.Fatalf("expected foreign key error, got %v", err)
	}
}
