package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// EmailRepository implements secondary.EmailRepository.
type EmailRepository struct {
	q DBTX
}

// NewEmailRepository creates a new email repository bound to q.
func NewEmailRepository(q DBTX) *EmailRepository {
	return &EmailRepository{q: q}
}

const emailColumns = "id, environment_id, address, created_at, updated_at, modified_by"

func scanEmail(row interface{ Scan(...any) error }) (*models.Email, error) {
	var e models.Email
	if err := row.Scan(&e.ID, &e.EnvironmentID, &e.Address, &e.CreatedAt, &e.UpdatedAt, &e.ModifiedBy); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID retrieves an email, nil if absent.
func (r *EmailRepository) GetByID(ctx context.Context, id int64) (*models.Email, error) {
	e, err := scanEmail(r.q.QueryRowContext(ctx,
		"SELECT "+emailColumns+" FROM emails WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email: %w", err)
	}
	return e, nil
}

// GetByAddress retrieves an email by address within an environment, nil if
// absent.
func (r *EmailRepository) GetByAddress(ctx context.Context, address string, environmentID int64) (*models.Email, error) {
	e, err := scanEmail(r.q.QueryRowContext(ctx,
		"SELECT "+emailColumns+" FROM emails WHERE address = ? AND environment_id = ?", address, environmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email by address: %w", err)
	}
	return e, nil
}

// GetAll lists the emails of one environment.
func (r *EmailRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.Email, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+emailColumns+" FROM emails WHERE environment_id = ? ORDER BY address", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	defer rows.Close()

	var emails []*models.Email
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// Create inserts a new email.
func (r *EmailRepository) Create(ctx context.Context, in secondary.EmailInput, environmentID int64, modifiedBy string) (*models.Email, error) {
	if in.Address == nil || *in.Address == "" {
		return nil, &ValidationError{Field: "address", Reason: "address is required"}
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO emails (environment_id, address, modified_by) VALUES (?, ?, ?)",
		environmentID, *in.Address, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create email: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

// Update applies a partial update.
func (r *EmailRepository) Update(ctx context.Context, id int64, in secondary.EmailInput, modifiedBy string) (*models.Email, error) {
	ok, err := exists(ctx, r.q, "emails", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "email", ID: id}
	}

	query := "UPDATE emails SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.Address != nil {
		query += ", address = ?"
		args = append(args, *in.Address)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update email: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes an email. False when the id does not exist; the restrict
// FK from operators surfaces untranslated while one still references it.
func (r *EmailRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM emails WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.EmailRepository = (*EmailRepository)(nil)
