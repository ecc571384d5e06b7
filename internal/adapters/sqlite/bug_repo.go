package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// BugRepository implements secondary.BugRepository. History rows are append
// only: the repository exposes no way to rewrite or remove them short of
// deleting the bug itself.
type BugRepository struct {
	q DBTX
}

// NewBugRepository creates a new bug repository bound to q.
func NewBugRepository(q DBTX) *BugRepository {
	return &BugRepository{q: q}
}

const bugColumns = "id, environment_id, system_id, campaign_run_id, title, description, severity, status, created_at, updated_at, modified_by"

func scanBug(row interface{ Scan(...any) error }) (*models.Bug, error) {
	var b models.Bug
	err := row.Scan(&b.ID, &b.EnvironmentID, &b.SystemID, &b.CampaignRunID,
		&b.Title, &b.Description, &b.Severity, &b.Status,
		&b.CreatedAt, &b.UpdatedAt, &b.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func validSeverity(severity string) bool {
	switch severity {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
		return true
	}
	return false
}

func validBugStatus(status string) bool {
	switch status {
	case models.BugOpen, models.BugFixed, models.BugRejected, models.BugClosed:
		return true
	}
	return false
}

// GetByID retrieves a bug, nil if absent.
func (r *BugRepository) GetByID(ctx context.Context, id int64) (*models.Bug, error) {
	b, err := scanBug(r.q.QueryRowContext(ctx,
		"SELECT "+bugColumns+" FROM bugs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bug: %w", err)
	}
	return b, nil
}

// GetAll lists the bugs of one environment, newest first.
func (r *BugRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.Bug, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+bugColumns+" FROM bugs WHERE environment_id = ? ORDER BY id DESC", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bugs: %w", err)
	}
	defer rows.Close()

	var bugs []*models.Bug
	for rows.Next() {
		b, err := scanBug(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bug: %w", err)
		}
		bugs = append(bugs, b)
	}
	return bugs, rows.Err()
}

// GetWithRelations retrieves a bug with its system, linked requirements,
// attached files and history.
func (r *BugRepository) GetWithRelations(ctx context.Context, id int64) (*models.Bug, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil || b == nil {
		return b, err
	}
	return b, r.loadRelations(ctx, b)
}

// GetAllWithRelations lists the bugs of one environment with associations.
func (r *BugRepository) GetAllWithRelations(ctx context.Context, environmentID int64) ([]*models.Bug, error) {
	bugs, err := r.GetAll(ctx, environmentID)
	if err != nil {
		return nil, err
	}
	for _, b := range bugs {
		if err := r.loadRelations(ctx, b); err != nil {
			return nil, err
		}
	}
	return bugs, nil
}

func (r *BugRepository) loadRelations(ctx context.Context, b *models.Bug) error {
	system, err := NewSystemRepository(r.q).GetByID(ctx, b.SystemID)
	if err != nil {
		return err
	}
	b.System = system

	reqIDs, err := memberIDs(ctx, r.q, "bug_requirements", "bug_id", "requirement_id", b.ID)
	if err != nil {
		return err
	}
	reqRepo := NewRequirementRepository(r.q)
	b.Requirements = nil
	for _, reqID := range reqIDs {
		req, err := reqRepo.GetByID(ctx, reqID)
		if err != nil {
			return err
		}
		b.Requirements = append(b.Requirements, req)
	}

	fileIDs, err := memberIDs(ctx, r.q, "bug_files", "bug_id", "file_id", b.ID)
	if err != nil {
		return err
	}
	fileRepo := NewFileRepository(r.q)
	b.Files = nil
	for _, fileID := range fileIDs {
		f, err := fileRepo.GetByID(ctx, fileID)
		if err != nil {
			return err
		}
		b.Files = append(b.Files, f)
	}

	history, err := r.GetHistory(ctx, b.ID)
	if err != nil {
		return err
	}
	b.History = history
	return nil
}

// Create inserts a new bug. Severity defaults to MEDIUM and status to OPEN.
func (r *BugRepository) Create(ctx context.Context, in secondary.BugInput, environmentID int64, modifiedBy string) (*models.Bug, error) {
	if in.Title == nil || *in.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "title is required"}
	}
	if in.SystemID == nil {
		return nil, &ValidationError{Field: "system_id", Reason: "bug must reference the system it was found in"}
	}
	severity := models.SeverityMedium
	if in.Severity != nil {
		if !validSeverity(*in.Severity) {
			return nil, &ValidationError{Field: "severity", Reason: fmt.Sprintf("unknown severity %q", *in.Severity)}
		}
		severity = *in.Severity
	}
	status := models.BugOpen
	if in.Status != nil {
		if !validBugStatus(*in.Status) {
			return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", *in.Status)}
		}
		status = *in.Status
	}
	var description string
	if in.Description != nil {
		description = *in.Description
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO bugs (environment_id, system_id, campaign_run_id, title, description, severity, status, modified_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		environmentID, *in.SystemID, nullInt(in.CampaignRunID), *in.Title, nullString(description), severity, status, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bug: %w", err)
	}
	id, _ := res.LastInsertId()

	if in.RequirementIDs != nil {
		if err := replaceSet(ctx, r.q, "bug_requirements", "bug_id", "requirement_id", id, in.RequirementIDs); err != nil {
			return nil, err
		}
	}
	if in.FileIDs != nil {
		if err := replaceSet(ctx, r.q, "bug_files", "bug_id", "file_id", id, in.FileIDs); err != nil {
			return nil, err
		}
	}
	return r.GetWithRelations(ctx, id)
}

// Update applies a partial update; present association slices replace the
// prior sets wholesale.
func (r *BugRepository) Update(ctx context.Context, id int64, in secondary.BugInput, modifiedBy string) (*models.Bug, error) {
	ok, err := exists(ctx, r.q, "bugs", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "bug", ID: id}
	}
	if in.Severity != nil && !validSeverity(*in.Severity) {
		return nil, &ValidationError{Field: "severity", Reason: fmt.Sprintf("unknown severity %q", *in.Severity)}
	}
	if in.Status != nil && !validBugStatus(*in.Status) {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", *in.Status)}
	}

	query := "UPDATE bugs SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.SystemID != nil {
		query += ", system_id = ?"
		args = append(args, *in.SystemID)
	}
	if in.CampaignRunID != nil {
		query += ", campaign_run_id = ?"
		args = append(args, *in.CampaignRunID)
	}
	if in.Title != nil {
		query += ", title = ?"
		args = append(args, *in.Title)
	}
	if in.Description != nil {
		query += ", description = ?"
		args = append(args, nullString(*in.Description))
	}
	if in.Severity != nil {
		query += ", severity = ?"
		args = append(args, *in.Severity)
	}
	if in.Status != nil {
		query += ", status = ?"
		args = append(args, *in.Status)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update bug: %w", err)
	}

	if in.RequirementIDs != nil {
		if err := replaceSet(ctx, r.q, "bug_requirements", "bug_id", "requirement_id", id, in.RequirementIDs); err != nil {
			return nil, err
		}
	}
	if in.FileIDs != nil {
		if err := replaceSet(ctx, r.q, "bug_files", "bug_id", "file_id", id, in.FileIDs); err != nil {
			return nil, err
		}
	}
	return r.GetWithRelations(ctx, id)
}

// Delete removes a bug, its join rows and its history. False when the id
// does not exist.
func (r *BugRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM bugs WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// AppendHistory adds one change-log entry for a bug.
func (r *BugRepository) AppendHistory(ctx context.Context, bugID int64, actor, summary string) (*models.BugHistory, error) {
	ok, err := exists(ctx, r.q, "bugs", bugID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "bug", ID: bugID}
	}
	if summary == "" {
		return nil, &ValidationError{Field: "summary", Reason: "summary is required"}
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO bug_history (bug_id, actor, summary) VALUES (?, ?, ?)",
		bugID, actor, summary,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append bug history: %w", err)
	}
	id, _ := res.LastInsertId()

	var entry models.BugHistory
	err = r.q.QueryRowContext(ctx,
		"SELECT id, bug_id, actor, created_at, summary FROM bug_history WHERE id = ?", id,
	).Scan(&entry.ID, &entry.BugID, &entry.Actor, &entry.CreatedAt, &entry.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to get bug history entry: %w", err)
	}
	return &entry, nil
}

// GetHistory lists a bug's change log in append order.
func (r *BugRepository) GetHistory(ctx context.Context, bugID int64) ([]*models.BugHistory, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, bug_id, actor, created_at, summary FROM bug_history WHERE bug_id = ? ORDER BY id", bugID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bug history: %w", err)
	}
	defer rows.Close()

	var history []*models.BugHistory
	for rows.Next() {
		var entry models.BugHistory
		if err := rows.Scan(&entry.ID, &entry.BugID, &entry.Actor, &entry.CreatedAt, &entry.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan bug history: %w", err)
		}
		history = append(history, &entry)
	}
	return history, rows.Err()
}

var _ secondary.BugRepository = (*BugRepository)(nil)
