package models

import (
	"database/sql"
	"time"
)

// Bug severities and statuses.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"

	BugOpen     = "OPEN"
	BugFixed    = "FIXED"
	BugRejected = "REJECTED"
	BugClosed   = "CLOSED"
)

// Bug is a defect found during testing. It references the System it was
// found in and optionally the CampaignRun that surfaced it. Every mutation
// appends a BugHistory entry; history is never rewritten.
type Bug struct {
	Audited
	EnvironmentID int64
	SystemID      int64
	CampaignRunID sql.NullInt64
	Title         string
	Description   sql.NullString
	Severity      string
	Status        string

	System       *System
	CampaignRun  *CampaignRun
	Requirements []*Requirement
	Files        []*File
	History      []*BugHistory
}

// BugHistory is one append-only change-log entry for a bug.
type BugHistory struct {
	ID        int64
	BugID     int64
	Actor     string
	CreatedAt time.Time
	Summary   string
}
