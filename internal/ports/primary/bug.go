package primary

import (
	"context"

	"github.com/example/uat/internal/models"
)

// BugService manages bugs. Every mutation appends a change-log entry naming
// the actor; the log is never rewritten.
type BugService interface {
	ReportBug(ctx context.Context, req ReportBugRequest) (*models.Bug, error)
	GetBug(ctx context.Context, id int64) (*models.Bug, error)
	ListBugs(ctx context.Context, environmentID int64) ([]*models.Bug, error)
	UpdateBug(ctx context.Context, req UpdateBugRequest) (*models.Bug, error)
	DeleteBug(ctx context.Context, id int64) (bool, error)

	// LinkRequirement marks a requirement as affected by the bug.
	LinkRequirement(ctx context.Context, bugID, requirementID int64, actor string) (*models.Bug, error)
	UnlinkRequirement(ctx context.Context, bugID, requirementID int64, actor string) (*models.Bug, error)

	// AttachFile registers an attachment record and links it to the bug.
	AttachFile(ctx context.Context, req AttachFileRequest) (*models.Bug, error)

	GetHistory(ctx context.Context, bugID int64) ([]*models.BugHistory, error)
}

// ReportBugRequest contains parameters for reporting a bug. Severity
// defaults to MEDIUM; new bugs open in OPEN.
type ReportBugRequest struct {
	EnvironmentID  int64
	SystemID       int64
	CampaignRunID  *int64
	Title          string
	Description    string
	Severity       string
	RequirementIDs []int64
	Actor          string
}

// UpdateBugRequest contains parameters for a partial bug update.
type UpdateBugRequest struct {
	BugID       int64
	Title       *string
	Description *string
	Severity    *string
	Status      *string
	Actor       string
}

// AttachFileRequest contains parameters for attaching an evidence file to a
// bug.
type AttachFileRequest struct {
	BugID     int64
	Filename  string
	Path      string
	MimeType  string
	SizeBytes int64
	Actor     string
}
