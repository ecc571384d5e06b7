package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// SystemRepository implements secondary.SystemRepository.
type SystemRepository struct {
	q DBTX
}

// NewSystemRepository creates a new system repository bound to q.
func NewSystemRepository(q DBTX) *SystemRepository {
	return &SystemRepository{q: q}
}

func scanSystem(row interface{ Scan(...any) error }) (*models.System, error) {
	var (
		s    models.System
		desc sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Name, &desc, &s.CreatedAt, &s.UpdatedAt, &s.ModifiedBy); err != nil {
		return nil, err
	}
	s.Description = desc.String
	return &s, nil
}

// GetByID retrieves a system, nil if absent.
func (r *SystemRepository) GetByID(ctx context.Context, id int64) (*models.System, error) {
	s, err := scanSystem(r.q.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at, modified_by FROM systems WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get system: %w", err)
	}
	return s, nil
}

// GetByName retrieves a system by its globally-unique name, nil if absent.
func (r *SystemRepository) GetByName(ctx context.Context, name string) (*models.System, error) {
	s, err := scanSystem(r.q.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at, modified_by FROM systems WHERE name = ?", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get system by name: %w", err)
	}
	return s, nil
}

// GetAll lists every system.
func (r *SystemRepository) GetAll(ctx context.Context) ([]*models.System, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, name, description, created_at, updated_at, modified_by FROM systems ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list systems: %w", err)
	}
	defer rows.Close()

	var systems []*models.System
	for rows.Next() {
		s, err := scanSystem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan system: %w", err)
		}
		systems = append(systems, s)
	}
	return systems, rows.Err()
}

// Create inserts a new system.
func (r *SystemRepository) Create(ctx context.Context, in secondary.LookupInput, modifiedBy string) (*models.System, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}

	var desc sql.NullString
	if in.Description != nil {
		desc = nullString(*in.Description)
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO systems (name, description, modified_by) VALUES (?, ?, ?)",
		*in.Name, desc, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create system: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

// Update applies a partial update.
func (r *SystemRepository) Update(ctx context.Context, id int64, in secondary.LookupInput, modifiedBy string) (*models.System, error) {
	ok, err := exists(ctx, r.q, "systems", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "system", ID: id}
	}

	query := "UPDATE systems SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.Name != nil {
		query += ", name = ?"
		args = append(args, *in.Name)
	}
	if in.Description != nil {
		query += ", description = ?"
		args = append(args, nullString(*in.Description))
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update system: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a system. False when the id does not exist; a restrict FK
// from requirements, cases, blocks, campaigns or bugs surfaces untranslated.
func (r *SystemRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM systems WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// GetOrCreate inserts the named system, recovering from a concurrent insert
// by re-reading the now-existing row. Insert-first so a racing writer cannot
// slip between a lookup and the insert.
func (r *SystemRepository) GetOrCreate(ctx context.Context, name, modifiedBy string) (*models.System, bool, error) {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO systems (name, modified_by) VALUES (?, ?)", name, modifiedBy)
	if err != nil {
		if IsUniqueConstraintError(err) {
			existing, gerr := r.GetByName(ctx, name)
			if gerr != nil {
				return nil, false, gerr
			}
			if existing == nil {
				return nil, false, fmt.Errorf("system %q vanished after conflict: %w", name, err)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create system: %w", err)
	}
	id, _ := res.LastInsertId()
	s, err := r.GetByID(ctx, id)
	return s, true, err
}

var _ secondary.SystemRepository = (*SystemRepository)(nil)

// SectionRepository implements secondary.SectionRepository.
type SectionRepository struct {
	q DBTX
}

// NewSectionRepository creates a new section repository bound to q.
func NewSectionRepository(q DBTX) *SectionRepository {
	return &SectionRepository{q: q}
}

func scanSection(row interface{ Scan(...any) error }) (*models.Section, error) {
	var s models.Section
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt, &s.ModifiedBy); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves a section, nil if absent.
func (r *SectionRepository) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	s, err := scanSection(r.q.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at, modified_by FROM sections WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return s, nil
}

// GetByName retrieves a section by its globally-unique name, nil if absent.
func (r *SectionRepository) GetByName(ctx context.Context, name string) (*models.Section, error) {
	s, err := scanSection(r.q.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at, modified_by FROM sections WHERE name = ?", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get section by name: %w", err)
	}
	return s, nil
}

// GetAll lists every section.
func (r *SectionRepository) GetAll(ctx context.Context) ([]*models.Section, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at, modified_by FROM sections ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// Create inserts a new section.
func (r *SectionRepository) Create(ctx context.Context, in secondary.LookupInput, modifiedBy string) (*models.Section, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO sections (name, modified_by) VALUES (?, ?)", *in.Name, modifiedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

// Update applies a partial update.
func (r *SectionRepository) Update(ctx context.Context, id int64, in secondary.LookupInput, modifiedBy string) (*models.Section, error) {
	ok, err := exists(ctx, r.q, "sections", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "section", ID: id}
	}

	query := "UPDATE sections SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.Name != nil {
		query += ", name = ?"
		args = append(args, *in.Name)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a section. False when the id does not exist.
func (r *SectionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM sections WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// GetOrCreate inserts the named section, insert-first with conflict
// fallback, mirroring SystemRepository.GetOrCreate.
func (r *SectionRepository) GetOrCreate(ctx context.Context, name, modifiedBy string) (*models.Section, bool, error) {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO sections (name, modified_by) VALUES (?, ?)", name, modifiedBy)
	if err != nil {
		if IsUniqueConstraintError(err) {
			existing, gerr := r.GetByName(ctx, name)
			if gerr != nil {
				return nil, false, gerr
			}
			if existing == nil {
				return nil, false, fmt.Errorf("section %q vanished after conflict: %w", name, err)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create section: %w", err)
	}
	id, _ := res.LastInsertId()
	s, err := r.GetByID(ctx, id)
	return s, true, err
}

var _ secondary.SectionRepository = (*SectionRepository)(nil)

// ReasonRepository implements secondary.ReasonRepository.
type ReasonRepository struct {
	q DBTX
}

// NewReasonRepository creates a new reason repository bound to q.
func NewReasonRepository(q DBTX) *ReasonRepository {
	return &ReasonRepository{q: q}
}

func scanReason(row interface{ Scan(...any) error }) (*models.Reason, error) {
	var re models.Reason
	if err := row.Scan(&re.ID, &re.Name, &re.CreatedAt, &re.UpdatedAt, &re.ModifiedBy); err != nil {
		return nil, err
	}
	return &re, nil
}

// GetByID retrieves a reason, nil if absent.
func (r *ReasonRepository) GetByID(ctx context.Context, id int64) (*models.Reason, error) {
	re, err := scanReason(r.q.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at, modified_by FROM reasons WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reason: %w", err)
	}
	return re, nil
}

// GetByName retrieves the first reason with the given name, nil if absent.
func (r *ReasonRepository) GetByName(ctx context.Context, name string) (*models.Reason, error) {
	re, err := scanReason(r.q.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at, modified_by FROM reasons WHERE name = ? ORDER BY id LIMIT 1", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reason by name: %w", err)
	}
	return re, nil
}

// GetAll lists every reason.
func (r *ReasonRepository) GetAll(ctx context.Context) ([]*models.Reason, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at, modified_by FROM reasons ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list reasons: %w", err)
	}
	defer rows.Close()

	var reasons []*models.Reason
	for rows.Next() {
		re, err := scanReason(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reason: %w", err)
		}
		reasons = append(reasons, re)
	}
	return reasons, rows.Err()
}

// Create inserts a new reason.
func (r *ReasonRepository) Create(ctx context.Context, in secondary.LookupInput, modifiedBy string) (*models.Reason, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO reasons (name, modified_by) VALUES (?, ?)", *in.Name, modifiedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create reason: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

// Delete removes a reason. False when the id does not exist.
func (r *ReasonRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM reasons WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.ReasonRepository = (*ReasonRepository)(nil)
