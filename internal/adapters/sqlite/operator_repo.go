package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// OperatorRepository implements secondary.OperatorRepository.
type OperatorRepository struct {
	q DBTX
}

// NewOperatorRepository creates a new operator repository bound to q.
func NewOperatorRepository(q DBTX) *OperatorRepository {
	return &OperatorRepository{q: q}
}

const operatorColumns = "id, environment_id, email_id, name, easa_id, phone, created_at, updated_at, modified_by"

func scanOperator(row interface{ Scan(...any) error }) (*models.Operator, error) {
	var o models.Operator
	err := row.Scan(&o.ID, &o.EnvironmentID, &o.EmailID, &o.Name, &o.EasaID, &o.Phone,
		&o.CreatedAt, &o.UpdatedAt, &o.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID retrieves an operator, nil if absent.
func (r *OperatorRepository) GetByID(ctx context.Context, id int64) (*models.Operator, error) {
	o, err := scanOperator(r.q.QueryRowContext(ctx,
		"SELECT "+operatorColumns+" FROM operators WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	return o, nil
}

// GetWithRelations retrieves an operator with its email attached.
func (r *OperatorRepository) GetWithRelations(ctx context.Context, id int64) (*models.Operator, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil || o == nil {
		return o, err
	}
	o.Email, err = NewEmailRepository(r.q).GetByID(ctx, o.EmailID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetByName retrieves an operator by name within an environment, nil if
// absent.
func (r *OperatorRepository) GetByName(ctx context.Context, name string, environmentID int64) (*models.Operator, error) {
	o, err := scanOperator(r.q.QueryRowContext(ctx,
		"SELECT "+operatorColumns+" FROM operators WHERE name = ? AND environment_id = ?", name, environmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operator by name: %w", err)
	}
	return o, nil
}

// GetAll lists the operators of one environment.
func (r *OperatorRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.Operator, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+operatorColumns+" FROM operators WHERE environment_id = ? ORDER BY name", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	defer rows.Close()

	var operators []*models.Operator
	for rows.Next() {
		o, err := scanOperator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operator: %w", err)
		}
		operators = append(operators, o)
	}
	return operators, rows.Err()
}

// Create inserts a new operator. The referenced email must already exist.
func (r *OperatorRepository) Create(ctx context.Context, in secondary.OperatorInput, environmentID int64, modifiedBy string) (*models.Operator, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}
	if in.EmailID == nil {
		return nil, &ValidationError{Field: "email", Reason: "operator must reference exactly one email"}
	}

	var easa, phone sql.NullString
	if in.EasaID != nil {
		easa = nullString(*in.EasaID)
	}
	if in.Phone != nil {
		phone = nullString(*in.Phone)
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO operators (environment_id, email_id, name, easa_id, phone, modified_by) VALUES (?, ?, ?, ?, ?, ?)",
		environmentID, *in.EmailID, *in.Name, easa, phone, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.GetWithRelations(ctx, id)
}

// Update applies a partial update.
func (r *OperatorRepository) Update(ctx context.Context, id int64, in secondary.OperatorInput, modifiedBy string) (*models.Operator, error) {
	ok, err := exists(ctx, r.q, "operators", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "operator", ID: id}
	}

	query := "UPDATE operators SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.EmailID != nil {
		query += ", email_id = ?"
		args = append(args, *in.EmailID)
	}
	if in.Name != nil {
		query += ", name = ?"
		args = append(args, *in.Name)
	}
	if in.EasaID != nil {
		query += ", easa_id = ?"
		args = append(args, nullString(*in.EasaID))
	}
	if in.Phone != nil {
		query += ", phone = ?"
		args = append(args, nullString(*in.Phone))
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update operator: %w", err)
	}
	return r.GetWithRelations(ctx, id)
}

// Delete removes an operator. False when the id does not exist; the
// restrict FK from drones surfaces untranslated while one references it.
func (r *OperatorRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM operators WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.OperatorRepository = (*OperatorRepository)(nil)
