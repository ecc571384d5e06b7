package models

import "database/sql"

// Campaign statuses.
const (
	CampaignDraft     = "DRAFT"
	CampaignRunning   = "RUNNING"
	CampaignFinished  = "FINISHED"
	CampaignCancelled = "CANCELLED"
)

// CampaignStatuses lists every valid campaign status.
var CampaignStatuses = []string{CampaignDraft, CampaignRunning, CampaignFinished, CampaignCancelled}

// CanTransitionCampaign reports whether a campaign status change is legal.
// DRAFT may start running; a running campaign may finish or be cancelled;
// FINISHED and CANCELLED are terminal.
func CanTransitionCampaign(from, to string) bool {
	switch from {
	case CampaignDraft:
		return to == CampaignRunning || to == CampaignCancelled
	case CampaignRunning:
		return to == CampaignFinished || to == CampaignCancelled
	default:
		return false
	}
}

// Campaign is a planned execution of blocks against one System. Its code is
// unique within its environment.
type Campaign struct {
	Audited
	EnvironmentID int64
	SystemID      int64
	Code          string
	Title         string
	Status        string

	System *System
	Blocks []*Block
}

// Step run results.
const (
	RunPass    = "PASS"
	RunFail    = "FAIL"
	RunBlocked = "BLOCKED"
	RunSkipped = "SKIPPED"
)

// CampaignRun is an execution-time snapshot of a campaign. It owns its case
// runs; the campaign itself is delete-restricted while runs exist.
type CampaignRun struct {
	Audited
	EnvironmentID int64
	CampaignID    int64
	Status        string
	StartedAt     sql.NullTime
	FinishedAt    sql.NullTime
	Notes         sql.NullString

	Campaign *Campaign
	CaseRuns []*CaseRun
}

// CaseRun records the execution of one case within a campaign run.
type CaseRun struct {
	Audited
	CampaignRunID int64
	CaseID        int64
	Result        sql.NullString
	ExecutedBy    sql.NullString
	ExecutedAt    sql.NullTime

	Case     *Case
	StepRuns []*StepRun
}

// StepRun records pass/fail for one step of a case run, optionally with an
// attached evidence file.
type StepRun struct {
	Audited
	CaseRunID int64
	StepID    int64
	Result    sql.NullString
	Comment   sql.NullString
	FileID    sql.NullInt64

	Step *Step
	File *File
}
