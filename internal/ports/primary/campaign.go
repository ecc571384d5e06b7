package primary

import (
	"context"

	"github.com/example/uat/internal/models"
)

// CampaignService manages blocks, campaigns, their block assignments and
// their execution runs.
type CampaignService interface {
	// CreateBlock groups cases under a system for campaign assembly.
	CreateBlock(ctx context.Context, req CreateBlockRequest) (*models.Block, error)

	ListBlocks(ctx context.Context, environmentID int64) ([]*models.Block, error)
	UpdateBlock(ctx context.Context, req UpdateBlockRequest) (*models.Block, error)
	DeleteBlock(ctx context.Context, id int64) (bool, error)

	CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*models.Campaign, error)

	// GetCampaign retrieves a campaign by code within an environment, with
	// blocks and cases. Nil when absent.
	GetCampaign(ctx context.Context, environmentID int64, code string) (*models.Campaign, error)

	ListCampaigns(ctx context.Context, environmentID int64) ([]*models.Campaign, error)
	UpdateCampaign(ctx context.Context, req UpdateCampaignRequest) (*models.Campaign, error)
	DeleteCampaign(ctx context.Context, id int64) (bool, error)

	// TransitionStatus moves a campaign along the lifecycle. Illegal moves
	// (e.g. DRAFT straight to FINISHED) are rejected.
	TransitionStatus(ctx context.Context, campaignID int64, to string, actor string) (*models.Campaign, error)

	// StartRun snapshots a RUNNING campaign into a new campaign run: one
	// case run for every case in the campaign's blocks, one step run per
	// step. Results are recorded against the snapshot afterwards.
	StartRun(ctx context.Context, campaignID int64, notes string, actor string) (*models.CampaignRun, error)

	GetRun(ctx context.Context, runID int64) (*models.CampaignRun, error)
	ListRuns(ctx context.Context, environmentID int64) ([]*models.CampaignRun, error)

	RecordStepResult(ctx context.Context, req RecordStepResultRequest) (*models.StepRun, error)
	RecordCaseResult(ctx context.Context, caseRunID int64, result string, actor string) (*models.CaseRun, error)

	// FinishRun closes a run with the given status.
	FinishRun(ctx context.Context, runID int64, status string, actor string) (*models.CampaignRun, error)
}

// CreateBlockRequest contains parameters for creating a block of cases.
type CreateBlockRequest struct {
	EnvironmentID int64
	SystemID      int64
	Name          string
	CaseIDs       []int64
	Actor         string
}

// UpdateBlockRequest contains parameters for a partial block update.
type UpdateBlockRequest struct {
	BlockID  int64
	SystemID *int64
	Name     *string
	CaseIDs  []int64
	Actor    string
}

// CreateCampaignRequest contains parameters for creating a campaign. New
// campaigns start in DRAFT.
type CreateCampaignRequest struct {
	EnvironmentID int64
	SystemID      int64
	Code          string
	Title         string
	BlockIDs      []int64
	Actor         string
}

// UpdateCampaignRequest contains parameters for a partial campaign update.
// Status changes go through TransitionStatus, not here.
type UpdateCampaignRequest struct {
	CampaignID int64
	SystemID   *int64
	Code       *string
	Title      *string
	BlockIDs   []int64
	Actor      string
}

// RecordStepResultRequest contains parameters for recording one step run's
// outcome, optionally with an evidence attachment already registered as a
// file.
type RecordStepResultRequest struct {
	StepRunID int64
	Result    string
	Comment   string
	FileID    *int64
	Actor     string
}
