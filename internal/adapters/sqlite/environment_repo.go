package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// EnvironmentRepository implements secondary.EnvironmentRepository.
type EnvironmentRepository struct {
	q DBTX
}

// NewEnvironmentRepository creates a new environment repository bound to q.
func NewEnvironmentRepository(q DBTX) *EnvironmentRepository {
	return &EnvironmentRepository{q: q}
}

const environmentColumns = "id, name, description, created_at, updated_at, modified_by"

func scanEnvironment(row interface{ Scan(...any) error }) (*models.Environment, error) {
	var (
		env  models.Environment
		desc sql.NullString
	)
	err := row.Scan(&env.ID, &env.Name, &desc, &env.CreatedAt, &env.UpdatedAt, &env.ModifiedBy)
	if err != nil {
		return nil, err
	}
	env.Description = desc.String
	return &env, nil
}

// GetByID retrieves an environment, nil if absent.
func (r *EnvironmentRepository) GetByID(ctx context.Context, id int64) (*models.Environment, error) {
	env, err := scanEnvironment(r.q.QueryRowContext(ctx,
		"SELECT "+environmentColumns+" FROM environments WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get environment: %w", err)
	}
	return env, nil
}

// GetByName retrieves an environment by its unique name, nil if absent.
func (r *EnvironmentRepository) GetByName(ctx context.Context, name string) (*models.Environment, error) {
	env, err := scanEnvironment(r.q.QueryRowContext(ctx,
		"SELECT "+environmentColumns+" FROM environments WHERE name = ?", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get environment by name: %w", err)
	}
	return env, nil
}

// GetAll lists every environment.
func (r *EnvironmentRepository) GetAll(ctx context.Context) ([]*models.Environment, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+environmentColumns+" FROM environments ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list environments: %w", err)
	}
	defer rows.Close()

	var envs []*models.Environment
	for rows.Next() {
		env, err := scanEnvironment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan environment: %w", err)
		}
		envs = append(envs, env)
	}
	return envs, rows.Err()
}

// Create inserts a new environment.
func (r *EnvironmentRepository) Create(ctx context.Context, in secondary.EnvironmentInput, modifiedBy string) (*models.Environment, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}

	var desc sql.NullString
	if in.Description != nil {
		desc = nullString(*in.Description)
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO environments (name, description, modified_by) VALUES (?, ?, ?)",
		*in.Name, desc, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create environment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read environment id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Update applies a partial update.
func (r *EnvironmentRepository) Update(ctx context.Context, id int64, in secondary.EnvironmentInput, modifiedBy string) (*models.Environment, error) {
	ok, err := exists(ctx, r.q, "environments", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "environment", ID: id}
	}

	query := "UPDATE environments SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
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
		return nil, fmt.Errorf("failed to update environment: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes an environment. False when the id does not exist.
func (r *EnvironmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM environments WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.EnvironmentRepository = (*EnvironmentRepository)(nil)
