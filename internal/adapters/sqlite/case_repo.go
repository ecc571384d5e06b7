package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// CaseRepository implements secondary.CaseRepository. Steps are owned
// children: they are created, reordered and deleted through their case and
// disappear with it.
type CaseRepository struct {
	q DBTX
}

// NewCaseRepository creates a new case repository bound to q.
func NewCaseRepository(q DBTX) *CaseRepository {
	return &CaseRepository{q: q}
}

const caseColumns = "id, environment_id, code, title, description, created_at, updated_at, modified_by"

const stepColumns = "id, case_id, position, action, expected_result, created_at, updated_at, modified_by"

func scanCase(row interface{ Scan(...any) error }) (*models.Case, error) {
	var c models.Case
	err := row.Scan(&c.ID, &c.EnvironmentID, &c.Code, &c.Title, &c.Description,
		&c.CreatedAt, &c.UpdatedAt, &c.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanStep(row interface{ Scan(...any) error }) (*models.Step, error) {
	var s models.Step
	err := row.Scan(&s.ID, &s.CaseID, &s.Position, &s.Action, &s.ExpectedResult,
		&s.CreatedAt, &s.UpdatedAt, &s.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves a case, nil if absent.
func (r *CaseRepository) GetByID(ctx context.Context, id int64) (*models.Case, error) {
	c, err := scanCase(r.q.QueryRowContext(ctx,
		"SELECT "+caseColumns+" FROM cases WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return c, nil
}

// GetByCode retrieves a case by code within an environment, nil if absent.
func (r *CaseRepository) GetByCode(ctx context.Context, code string, environmentID int64) (*models.Case, error) {
	c, err := scanCase(r.q.QueryRowContext(ctx,
		"SELECT "+caseColumns+" FROM cases WHERE code = ? AND environment_id = ?", code, environmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case by code: %w", err)
	}
	return c, nil
}

// GetAll lists the cases of one environment ordered by code.
func (r *CaseRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.Case, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+caseColumns+" FROM cases WHERE environment_id = ? ORDER BY code", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// GetWithRelations retrieves a case with its ordered steps and all
// reference-data associations.
func (r *CaseRepository) GetWithRelations(ctx context.Context, id int64) (*models.Case, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil || c == nil {
		return c, err
	}
	return c, r.loadRelations(ctx, c)
}

// GetAllWithRelations lists the cases of one environment with associations.
func (r *CaseRepository) GetAllWithRelations(ctx context.Context, environmentID int64) ([]*models.Case, error) {
	cases, err := r.GetAll(ctx, environmentID)
	if err != nil {
		return nil, err
	}
	for _, c := range cases {
		if err := r.loadRelations(ctx, c); err != nil {
			return nil, err
		}
	}
	return cases, nil
}

func (r *CaseRepository) loadRelations(ctx context.Context, c *models.Case) error {
	steps, err := r.GetSteps(ctx, c.ID)
	if err != nil {
		return err
	}
	c.Steps = steps

	operatorIDs, err := memberIDs(ctx, r.q, "case_operators", "case_id", "operator_id", c.ID)
	if err != nil {
		return err
	}
	opRepo := NewOperatorRepository(r.q)
	c.Operators = nil
	for _, operatorID := range operatorIDs {
		op, err := opRepo.GetByID(ctx, operatorID)
		if err != nil {
			return err
		}
		c.Operators = append(c.Operators, op)
	}

	droneIDs, err := memberIDs(ctx, r.q, "case_drones", "case_id", "drone_id", c.ID)
	if err != nil {
		return err
	}
	droneRepo := NewDroneRepository(r.q)
	c.Drones = nil
	for _, droneID := range droneIDs {
		d, err := droneRepo.GetByID(ctx, droneID)
		if err != nil {
			return err
		}
		c.Drones = append(c.Drones, d)
	}

	userIDs, err := memberIDs(ctx, r.q, "case_uhub_users", "case_id", "uhub_user_id", c.ID)
	if err != nil {
		return err
	}
	userRepo := NewUhubUserRepository(r.q)
	c.UhubUsers = nil
	for _, userID := range userIDs {
		u, err := userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		c.UhubUsers = append(c.UhubUsers, u)
	}

	zoneIDs, err := memberIDs(ctx, r.q, "case_uas_zones", "case_id", "uas_zone_id", c.ID)
	if err != nil {
		return err
	}
	zoneRepo := NewUasZoneRepository(r.q)
	c.UasZones = nil
	for _, zoneID := range zoneIDs {
		z, err := zoneRepo.GetByID(ctx, zoneID)
		if err != nil {
			return err
		}
		c.UasZones = append(c.UasZones, z)
	}

	systemIDs, err := memberIDs(ctx, r.q, "case_systems", "case_id", "system_id", c.ID)
	if err != nil {
		return err
	}
	sysRepo := NewSystemRepository(r.q)
	c.Systems = nil
	for _, systemID := range systemIDs {
		s, err := sysRepo.GetByID(ctx, systemID)
		if err != nil {
			return err
		}
		c.Systems = append(c.Systems, s)
	}

	sectionIDs, err := memberIDs(ctx, r.q, "case_sections", "case_id", "section_id", c.ID)
	if err != nil {
		return err
	}
	secRepo := NewSectionRepository(r.q)
	c.Sections = nil
	for _, sectionID := range sectionIDs {
		s, err := secRepo.GetByID(ctx, sectionID)
		if err != nil {
			return err
		}
		c.Sections = append(c.Sections, s)
	}
	return nil
}

func (r *CaseRepository) syncAssociations(ctx context.Context, id int64, in secondary.CaseInput) error {
	if in.OperatorIDs != nil {
		if err := replaceSet(ctx, r.q, "case_operators", "case_id", "operator_id", id, in.OperatorIDs); err != nil {
			return err
		}
	}
	if in.DroneIDs != nil {
		if err := replaceSet(ctx, r.q, "case_drones", "case_id", "drone_id", id, in.DroneIDs); err != nil {
			return err
		}
	}
	if in.UhubUserIDs != nil {
		if err := replaceSet(ctx, r.q, "case_uhub_users", "case_id", "uhub_user_id", id, in.UhubUserIDs); err != nil {
			return err
		}
	}
	if in.UasZoneIDs != nil {
		if err := replaceSet(ctx, r.q, "case_uas_zones", "case_id", "uas_zone_id", id, in.UasZoneIDs); err != nil {
			return err
		}
	}
	if in.SystemIDs != nil {
		if err := replaceSet(ctx, r.q, "case_systems", "case_id", "system_id", id, in.SystemIDs); err != nil {
			return err
		}
	}
	if in.SectionIDs != nil {
		if err := replaceSet(ctx, r.q, "case_sections", "case_id", "section_id", id, in.SectionIDs); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a new case and its association sets.
func (r *CaseRepository) Create(ctx context.Context, in secondary.CaseInput, environmentID int64, modifiedBy string) (*models.Case, error) {
	if in.Code == nil || *in.Code == "" {
		return nil, &ValidationError{Field: "code", Reason: "code is required"}
	}
	if in.Title == nil || *in.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "title is required"}
	}

	var description string
	if in.Description != nil {
		description = *in.Description
	}
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO cases (environment_id, code, title, description, modified_by) VALUES (?, ?, ?, ?, ?)",
		environmentID, *in.Code, *in.Title, nullString(description), modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	id, _ := res.LastInsertId()

	if err := r.syncAssociations(ctx, id, in); err != nil {
		return nil, err
	}
	return r.GetWithRelations(ctx, id)
}

// Update applies a partial update; present association slices replace the
// prior sets wholesale.
func (r *CaseRepository) Update(ctx context.Context, id int64, in secondary.CaseInput, modifiedBy string) (*models.Case, error) {
	ok, err := exists(ctx, r.q, "cases", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "case", ID: id}
	}

	query := "UPDATE cases SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.Code != nil {
		query += ", code = ?"
		args = append(args, *in.Code)
	}
	if in.Title != nil {
		query += ", title = ?"
		args = append(args, *in.Title)
	}
	if in.Description != nil {
		query += ", description = ?"
		args = append(args, nullString(*in.Description))
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update case: %w", err)
	}

	if err := r.syncAssociations(ctx, id, in); err != nil {
		return nil, err
	}
	return r.GetWithRelations(ctx, id)
}

// Delete removes a case, its steps and its join rows. False when the id
// does not exist.
func (r *CaseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM cases WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// GetSteps lists a case's steps in position order, each with its covered
// requirements.
func (r *CaseRepository) GetSteps(ctx context.Context, caseID int64) ([]*models.Step, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+stepColumns+" FROM steps WHERE case_id = ? ORDER BY position", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	var steps []*models.Step
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reqRepo := NewRequirementRepository(r.q)
	for _, s := range steps {
		reqIDs, err := memberIDs(ctx, r.q, "step_requirements", "step_id", "requirement_id", s.ID)
		if err != nil {
			return nil, err
		}
		s.Requirements = nil
		for _, reqID := range reqIDs {
			req, err := reqRepo.GetByID(ctx, reqID)
			if err != nil {
				return nil, err
			}
			s.Requirements = append(s.Requirements, req)
		}
	}
	return steps, nil
}

func (r *CaseRepository) getStep(ctx context.Context, stepID int64) (*models.Step, error) {
	s, err := scanStep(r.q.QueryRowContext(ctx,
		"SELECT "+stepColumns+" FROM steps WHERE id = ?", stepID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	return s, nil
}

// AddStep appends a step to a case. When no position is given the step goes
// to the end of the list.
func (r *CaseRepository) AddStep(ctx context.Context, caseID int64, in secondary.StepInput, modifiedBy string) (*models.Step, error) {
	ok, err := exists(ctx, r.q, "cases", caseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "case", ID: caseID}
	}
	if in.Action == nil || *in.Action == "" {
		return nil, &ValidationError{Field: "action", Reason: "action is required"}
	}
	if in.ExpectedResult == nil || *in.ExpectedResult == "" {
		return nil, &ValidationError{Field: "expected_result", Reason: "expected result is required"}
	}

	position := 0
	if in.Position != nil {
		position = *in.Position
	} else {
		err := r.q.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position), 0) + 1 FROM steps WHERE case_id = ?", caseID,
		).Scan(&position)
		if err != nil {
			return nil, fmt.Errorf("failed to pick step position: %w", err)
		}
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO steps (case_id, position, action, expected_result, modified_by) VALUES (?, ?, ?, ?, ?)",
		caseID, position, *in.Action, *in.ExpectedResult, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add step: %w", err)
	}
	stepID, _ := res.LastInsertId()

	if in.RequirementIDs != nil {
		if err := replaceSet(ctx, r.q, "step_requirements", "step_id", "requirement_id", stepID, in.RequirementIDs); err != nil {
			return nil, err
		}
	}
	if err := touch(ctx, r.q, "cases", caseID, modifiedBy); err != nil {
		return nil, err
	}
	return r.getStep(ctx, stepID)
}

// UpdateStep applies a partial update to one step; a present RequirementIDs
// slice replaces the covered set wholesale.
func (r *CaseRepository) UpdateStep(ctx context.Context, stepID int64, in secondary.StepInput, modifiedBy string) (*models.Step, error) {
	current, err := r.getStep(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &NotFoundError{Entity: "step", ID: stepID}
	}

	query := "UPDATE steps SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.Position != nil {
		query += ", position = ?"
		args = append(args, *in.Position)
	}
	if in.Action != nil {
		query += ", action = ?"
		args = append(args, *in.Action)
	}
	if in.ExpectedResult != nil {
		query += ", expected_result = ?"
		args = append(args, *in.ExpectedResult)
	}
	query += " WHERE id = ?"
	args = append(args, stepID)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update step: %w", err)
	}

	if in.RequirementIDs != nil {
		if err := replaceSet(ctx, r.q, "step_requirements", "step_id", "requirement_id", stepID, in.RequirementIDs); err != nil {
			return nil, err
		}
	}
	if err := touch(ctx, r.q, "cases", current.CaseID, modifiedBy); err != nil {
		return nil, err
	}
	return r.getStep(ctx, stepID)
}

// DeleteStep removes one step. False when the id does not exist.
func (r *CaseRepository) DeleteStep(ctx context.Context, stepID int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM steps WHERE id = ?", stepID)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.CaseRepository = (*CaseRepository)(nil)
