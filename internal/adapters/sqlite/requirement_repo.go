package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// RequirementRepository implements secondary.RequirementRepository.
type RequirementRepository struct {
	q DBTX
}

// NewRequirementRepository creates a new requirement repository bound to q.
func NewRequirementRepository(q DBTX) *RequirementRepository {
	return &RequirementRepository{q: q}
}

const requirementColumns = "id, environment_id, code, definition, created_at, updated_at, modified_by"

func scanRequirement(row interface{ Scan(...any) error }) (*models.Requirement, error) {
	var req models.Requirement
	err := row.Scan(&req.ID, &req.EnvironmentID, &req.Code, &req.Definition,
		&req.CreatedAt, &req.UpdatedAt, &req.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByID retrieves a requirement, nil if absent.
func (r *RequirementRepository) GetByID(ctx context.Context, id int64) (*models.Requirement, error) {
	req, err := scanRequirement(r.q.QueryRowContext(ctx,
		"SELECT "+requirementColumns+" FROM requirements WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get requirement: %w", err)
	}
	return req, nil
}

// GetByCode retrieves a requirement by code within an environment, nil if
// absent.
func (r *RequirementRepository) GetByCode(ctx context.Context, code string, environmentID int64) (*models.Requirement, error) {
	req, err := scanRequirement(r.q.QueryRowContext(ctx,
		"SELECT "+requirementColumns+" FROM requirements WHERE code = ? AND environment_id = ?", code, environmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get requirement by code: %w", err)
	}
	return req, nil
}

// GetAll lists the requirements of one environment ordered by code.
func (r *RequirementRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.Requirement, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+requirementColumns+" FROM requirements WHERE environment_id = ? ORDER BY code", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer rows.Close()

	var reqs []*models.Requirement
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// GetWithRelations retrieves a requirement with its systems, sections,
// covering steps and linked bugs.
func (r *RequirementRepository) GetWithRelations(ctx context.Context, id int64) (*models.Requirement, error) {
	req, err := r.GetByID(ctx, id)
	if err != nil || req == nil {
		return req, err
	}
	return req, r.loadRelations(ctx, req)
}

// GetAllWithRelations lists the requirements of one environment with
// associations.
func (r *RequirementRepository) GetAllWithRelations(ctx context.Context, environmentID int64) ([]*models.Requirement, error) {
	reqs, err := r.GetAll(ctx, environmentID)
	if err != nil {
		return nil, err
	}
	for _, req := range reqs {
		if err := r.loadRelations(ctx, req); err != nil {
			return nil, err
		}
	}
	return reqs, nil
}

func (r *RequirementRepository) loadRelations(ctx context.Context, req *models.Requirement) error {
	systemIDs, err := memberIDs(ctx, r.q, "requirement_systems", "requirement_id", "system_id", req.ID)
	if err != nil {
		return err
	}
	sysRepo := NewSystemRepository(r.q)
	req.Systems = nil
	for _, systemID := range systemIDs {
		system, err := sysRepo.GetByID(ctx, systemID)
		if err != nil {
			return err
		}
		req.Systems = append(req.Systems, system)
	}

	sectionIDs, err := memberIDs(ctx, r.q, "requirement_sections", "requirement_id", "section_id", req.ID)
	if err != nil {
		return err
	}
	secRepo := NewSectionRepository(r.q)
	req.Sections = nil
	for _, sectionID := range sectionIDs {
		section, err := secRepo.GetByID(ctx, sectionID)
		if err != nil {
			return err
		}
		req.Sections = append(req.Sections, section)
	}

	req.Steps = nil
	stepRows, err := r.q.QueryContext(ctx,
		"SELECT "+stepColumns+" FROM steps WHERE id IN (SELECT step_id FROM step_requirements WHERE requirement_id = ?) ORDER BY case_id, position", req.ID)
	if err != nil {
		return fmt.Errorf("failed to list covering steps: %w", err)
	}
	defer stepRows.Close()
	for stepRows.Next() {
		step, err := scanStep(stepRows)
		if err != nil {
			return fmt.Errorf("failed to scan step: %w", err)
		}
		req.Steps = append(req.Steps, step)
	}
	if err := stepRows.Err(); err != nil {
		return err
	}

	req.Bugs = nil
	bugRows, err := r.q.QueryContext(ctx,
		"SELECT "+bugColumns+" FROM bugs WHERE id IN (SELECT bug_id FROM bug_requirements WHERE requirement_id = ?) ORDER BY id", req.ID)
	if err != nil {
		return fmt.Errorf("failed to list linked bugs: %w", err)
	}
	defer bugRows.Close()
	for bugRows.Next() {
		bug, err := scanBug(bugRows)
		if err != nil {
			return fmt.Errorf("failed to scan bug: %w", err)
		}
		req.Bugs = append(req.Bugs, bug)
	}
	return bugRows.Err()
}

// Create inserts a new requirement. A requirement must cover at least one
// system and at least one section.
func (r *RequirementRepository) Create(ctx context.Context, in secondary.RequirementInput, environmentID int64, modifiedBy string) (*models.Requirement, error) {
	if in.Code == nil || *in.Code == "" {
		return nil, &ValidationError{Field: "code", Reason: "code is required"}
	}
	if in.Definition == nil || *in.Definition == "" {
		return nil, &ValidationError{Field: "definition", Reason: "definition is required"}
	}
	if len(in.SystemIDs) == 0 {
		return nil, &ValidationError{Field: "systems", Reason: "at least one system is required"}
	}
	if len(in.SectionIDs) == 0 {
		return nil, &ValidationError{Field: "sections", Reason: "at least one section is required"}
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO requirements (environment_id, code, definition, modified_by) VALUES (?, ?, ?, ?)",
		environmentID, *in.Code, *in.Definition, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create requirement: %w", err)
	}
	id, _ := res.LastInsertId()

	if err := replaceSet(ctx, r.q, "requirement_systems", "requirement_id", "system_id", id, in.SystemIDs); err != nil {
		return nil, err
	}
	if err := replaceSet(ctx, r.q, "requirement_sections", "requirement_id", "section_id", id, in.SectionIDs); err != nil {
		return nil, err
	}
	if in.BugIDs != nil {
		if err := replaceSet(ctx, r.q, "bug_requirements", "requirement_id", "bug_id", id, in.BugIDs); err != nil {
			return nil, err
		}
	}

	return r.GetWithRelations(ctx, id)
}

// Update applies a partial update. Present association slices replace the
// prior sets; SystemIDs and SectionIDs may not be cleared to empty.
func (r *RequirementRepository) Update(ctx context.Context, id int64, in secondary.RequirementInput, modifiedBy string) (*models.Requirement, error) {
	ok, err := exists(ctx, r.q, "requirements", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "requirement", ID: id}
	}
	if in.SystemIDs != nil && len(in.SystemIDs) == 0 {
		return nil, &ValidationError{Field: "systems", Reason: "at least one system is required"}
	}
	if in.SectionIDs != nil && len(in.SectionIDs) == 0 {
		return nil, &ValidationError{Field: "sections", Reason: "at least one section is required"}
	}

	query := "UPDATE requirements SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.Code != nil {
		query += ", code = ?"
		args = append(args, *in.Code)
	}
	if in.Definition != nil {
		query += ", definition = ?"
		args = append(args, *in.Definition)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update requirement: %w", err)
	}

	if in.SystemIDs != nil {
		if err := replaceSet(ctx, r.q, "requirement_systems", "requirement_id", "system_id", id, in.SystemIDs); err != nil {
			return nil, err
		}
	}
	if in.SectionIDs != nil {
		if err := replaceSet(ctx, r.q, "requirement_sections", "requirement_id", "section_id", id, in.SectionIDs); err != nil {
			return nil, err
		}
	}
	if in.BugIDs != nil {
		if err := replaceSet(ctx, r.q, "bug_requirements", "requirement_id", "bug_id", id, in.BugIDs); err != nil {
			return nil, err
		}
	}

	return r.GetWithRelations(ctx, id)
}

// Delete removes a requirement and its join rows. False when the id does
// not exist.
func (r *RequirementRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM requirements WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.RequirementRepository = (*RequirementRepository)(nil)
