package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// CampaignRunRepository implements secondary.CampaignRunRepository. A
// campaign run owns its case runs and each case run its step runs; the
// referenced campaign, cases and steps are delete-restricted while the
// snapshot exists.
type CampaignRunRepository struct {
	q DBTX
}

// NewCampaignRunRepository creates a new campaign run repository bound to q.
func NewCampaignRunRepository(q DBTX) *CampaignRunRepository {
	return &CampaignRunRepository{q: q}
}

const campaignRunColumns = "id, environment_id, campaign_id, status, started_at, finished_at, notes, created_at, updated_at, modified_by"

const caseRunColumns = "id, campaign_run_id, case_id, result, executed_by, executed_at, created_at, updated_at, modified_by"

const stepRunColumns = "id, case_run_id, step_id, result, comment, file_id, created_at, updated_at, modified_by"

func scanCampaignRun(row interface{ Scan(...any) error }) (*models.CampaignRun, error) {
	var run models.CampaignRun
	err := row.Scan(&run.ID, &run.EnvironmentID, &run.CampaignID, &run.Status,
		&run.StartedAt, &run.FinishedAt, &run.Notes,
		&run.CreatedAt, &run.UpdatedAt, &run.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func scanCaseRun(row interface{ Scan(...any) error }) (*models.CaseRun, error) {
	var cr models.CaseRun
	err := row.Scan(&cr.ID, &cr.CampaignRunID, &cr.CaseID, &cr.Result,
		&cr.ExecutedBy, &cr.ExecutedAt,
		&cr.CreatedAt, &cr.UpdatedAt, &cr.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

func scanStepRun(row interface{ Scan(...any) error }) (*models.StepRun, error) {
	var sr models.StepRun
	err := row.Scan(&sr.ID, &sr.CaseRunID, &sr.StepID, &sr.Result,
		&sr.Comment, &sr.FileID,
		&sr.CreatedAt, &sr.UpdatedAt, &sr.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func validRunResult(result string) bool {
	switch result {
	case models.RunPass, models.RunFail, models.RunBlocked, models.RunSkipped:
		return true
	}
	return false
}

// GetByID retrieves a campaign run, nil if absent.
func (r *CampaignRunRepository) GetByID(ctx context.Context, id int64) (*models.CampaignRun, error) {
	run, err := scanCampaignRun(r.q.QueryRowContext(ctx,
		"SELECT "+campaignRunColumns+" FROM campaign_runs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign run: %w", err)
	}
	return run, nil
}

// GetAll lists the campaign runs of one environment, newest first.
func (r *CampaignRunRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.CampaignRun, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+campaignRunColumns+" FROM campaign_runs WHERE environment_id = ? ORDER BY id DESC", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.CampaignRun
	for rows.Next() {
		run, err := scanCampaignRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetWithRelations retrieves a campaign run with its campaign and the full
// case-run / step-run tree.
func (r *CampaignRunRepository) GetWithRelations(ctx context.Context, id int64) (*models.CampaignRun, error) {
	run, err := r.GetByID(ctx, id)
	if err != nil || run == nil {
		return run, err
	}

	campaign, err := NewCampaignRepository(r.q).GetByID(ctx, run.CampaignID)
	if err != nil {
		return nil, err
	}
	run.Campaign = campaign

	caseRuns, err := r.GetCaseRuns(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, cr := range caseRuns {
		stepRuns, err := r.GetStepRuns(ctx, cr.ID)
		if err != nil {
			return nil, err
		}
		cr.StepRuns = stepRuns
	}
	run.CaseRuns = caseRuns
	return run, nil
}

// Create starts a new campaign run in RUNNING status with the start time
// stamped.
func (r *CampaignRunRepository) Create(ctx context.Context, in secondary.CampaignRunInput, environmentID int64, modifiedBy string) (*models.CampaignRun, error) {
	if in.CampaignID == nil {
		return nil, &ValidationError{Field: "campaign_id", Reason: "campaign is required"}
	}
	status := "RUNNING"
	if in.Status != nil {
		status = *in.Status
	}
	var notes string
	if in.Notes != nil {
		notes = *in.Notes
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO campaign_runs (environment_id, campaign_id, status, started_at, notes, modified_by) VALUES (?, ?, ?, CURRENT_TIMESTAMP, ?, ?)",
		environmentID, *in.CampaignID, status, nullString(notes), modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign run: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

// Finish closes a campaign run: status is set and the finish time stamped.
func (r *CampaignRunRepository) Finish(ctx context.Context, id int64, status string, modifiedBy string) (*models.CampaignRun, error) {
	ok, err := exists(ctx, r.q, "campaign_runs", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "campaign run", ID: id}
	}

	_, err = r.q.ExecContext(ctx,
		"UPDATE campaign_runs SET status = ?, finished_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP, modified_by = ? WHERE id = ?",
		status, modifiedBy, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to finish campaign run: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a campaign run. False when the id does not exist; fails
// with the store's integrity error while case runs reference it.
func (r *CampaignRunRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM campaign_runs WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// AddCaseRun snapshots one case into a campaign run with no result yet.
func (r *CampaignRunRepository) AddCaseRun(ctx context.Context, campaignRunID, caseID int64, modifiedBy string) (*models.CaseRun, error) {
	ok, err := exists(ctx, r.q, "campaign_runs", campaignRunID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "campaign run", ID: campaignRunID}
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO case_runs (campaign_run_id, case_id, modified_by) VALUES (?, ?, ?)",
		campaignRunID, caseID, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add case run: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.getCaseRun(ctx, id)
}

// AddStepRun snapshots one step into a case run with no result yet.
func (r *CampaignRunRepository) AddStepRun(ctx context.Context, caseRunID, stepID int64, modifiedBy string) (*models.StepRun, error) {
	ok, err := exists(ctx, r.q, "case_runs", caseRunID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "case run", ID: caseRunID}
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO step_runs (case_run_id, step_id, modified_by) VALUES (?, ?, ?)",
		caseRunID, stepID, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add step run: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.getStepRun(ctx, id)
}

// RecordStepResult records the outcome of one step run, optionally with a
// comment and an evidence file.
func (r *CampaignRunRepository) RecordStepResult(ctx context.Context, stepRunID int64, in secondary.StepRunInput, modifiedBy string) (*models.StepRun, error) {
	ok, err := exists(ctx, r.q, "step_runs", stepRunID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "step run", ID: stepRunID}
	}
	if in.Result == nil {
		return nil, &ValidationError{Field: "result", Reason: "result is required"}
	}
	if !validRunResult(*in.Result) {
		return nil, &ValidationError{Field: "result", Reason: fmt.Sprintf("unknown result %q", *in.Result)}
	}

	query := "UPDATE step_runs SET result = ?, updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{*in.Result, modifiedBy}
	if in.Comment != nil {
		query += ", comment = ?"
		args = append(args, nullString(*in.Comment))
	}
	if in.FileID != nil {
		query += ", file_id = ?"
		args = append(args, *in.FileID)
	}
	query += " WHERE id = ?"
	args = append(args, stepRunID)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to record step result: %w", err)
	}
	return r.getStepRun(ctx, stepRunID)
}

// RecordCaseResult records the aggregate outcome of one case run and who
// executed it.
func (r *CampaignRunRepository) RecordCaseResult(ctx context.Context, caseRunID int64, result, executedBy string) (*models.CaseRun, error) {
	ok, err := exists(ctx, r.q, "case_runs", caseRunID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "case run", ID: caseRunID}
	}
	if !validRunResult(result) {
		return nil, &ValidationError{Field: "result", Reason: fmt.Sprintf("unknown result %q", result)}
	}

	_, err = r.q.ExecContext(ctx,
		"UPDATE case_runs SET result = ?, executed_by = ?, executed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP, modified_by = ? WHERE id = ?",
		result, executedBy, executedBy, caseRunID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record case result: %w", err)
	}
	return r.getCaseRun(ctx, caseRunID)
}

// GetCaseRuns lists the case runs of one campaign run in creation order.
func (r *CampaignRunRepository) GetCaseRuns(ctx context.Context, campaignRunID int64) ([]*models.CaseRun, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+caseRunColumns+" FROM case_runs WHERE campaign_run_id = ? ORDER BY id", campaignRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to list case runs: %w", err)
	}
	defer rows.Close()

	var caseRuns []*models.CaseRun
	for rows.Next() {
		cr, err := scanCaseRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case run: %w", err)
		}
		caseRuns = append(caseRuns, cr)
	}
	return caseRuns, rows.Err()
}

// GetStepRuns lists the step runs of one case run in creation order.
func (r *CampaignRunRepository) GetStepRuns(ctx context.Context, caseRunID int64) ([]*models.StepRun, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+stepRunColumns+" FROM step_runs WHERE case_run_id = ? ORDER BY id", caseRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to list step runs: %w", err)
	}
	defer rows.Close()

	var stepRuns []*models.StepRun
	for rows.Next() {
		sr, err := scanStepRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step run: %w", err)
		}
		stepRuns = append(stepRuns, sr)
	}
	return stepRuns, rows.Err()
}

func (r *CampaignRunRepository) getCaseRun(ctx context.Context, id int64) (*models.CaseRun, error) {
	cr, err := scanCaseRun(r.q.QueryRowContext(ctx,
		"SELECT "+caseRunColumns+" FROM case_runs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case run: %w", err)
	}
	return cr, nil
}

func (r *CampaignRunRepository) getStepRun(ctx context.Context, id int64) (*models.StepRun, error) {
	sr, err := scanStepRun(r.q.QueryRowContext(ctx,
		"SELECT "+stepRunColumns+" FROM step_runs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get step run: %w", err)
	}
	return sr, nil
}

var _ secondary.CampaignRunRepository = (*CampaignRunRepository)(nil)
