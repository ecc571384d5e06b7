package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// UhubOrgRepository implements secondary.UhubOrgRepository.
type UhubOrgRepository struct {
	q DBTX
}

// NewUhubOrgRepository creates a new U-hub organisation repository bound to q.
func NewUhubOrgRepository(q DBTX) *UhubOrgRepository {
	return &UhubOrgRepository{q: q}
}

const uhubOrgColumns = "id, environment_id, name, external_id, created_at, updated_at, modified_by"

func scanUhubOrg(row interface{ Scan(...any) error }) (*models.UhubOrg, error) {
	var o models.UhubOrg
	err := row.Scan(&o.ID, &o.EnvironmentID, &o.Name, &o.ExternalID, &o.CreatedAt, &o.UpdatedAt, &o.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID retrieves an organisation, nil if absent.
func (r *UhubOrgRepository) GetByID(ctx context.Context, id int64) (*models.UhubOrg, error) {
	o, err := scanUhubOrg(r.q.QueryRowContext(ctx,
		"SELECT "+uhubOrgColumns+" FROM uhub_orgs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get uhub org: %w", err)
	}
	return o, nil
}

// GetWithRelations retrieves an organisation with its users attached.
func (r *UhubOrgRepository) GetWithRelations(ctx context.Context, id int64) (*models.UhubOrg, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil || o == nil {
		return o, err
	}

	rows, err := r.q.QueryContext(ctx,
		"SELECT "+uhubUserColumns+" FROM uhub_users WHERE uhub_org_id = ? ORDER BY username", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query org users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUhubUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan uhub user: %w", err)
		}
		o.Users = append(o.Users, u)
	}
	return o, rows.Err()
}

// GetByName retrieves an organisation by name within an environment, nil if
// absent.
func (r *UhubOrgRepository) GetByName(ctx context.Context, name string, environmentID int64) (*models.UhubOrg, error) {
	o, err := scanUhubOrg(r.q.QueryRowContext(ctx,
		"SELECT "+uhubOrgColumns+" FROM uhub_orgs WHERE name = ? AND environment_id = ?", name, environmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get uhub org by name: %w", err)
	}
	return o, nil
}

// GetAll lists the organisations of one environment.
func (r *UhubOrgRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.UhubOrg, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+uhubOrgColumns+" FROM uhub_orgs WHERE environment_id = ? ORDER BY name", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list uhub orgs: %w", err)
	}
	defer rows.Close()

	var orgs []*models.UhubOrg
	for rows.Next() {
		o, err := scanUhubOrg(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan uhub org: %w", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

// Create inserts a new organisation.
func (r *UhubOrgRepository) Create(ctx context.Context, in secondary.UhubOrgInput, environmentID int64, modifiedBy string) (*models.UhubOrg, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}

	var externalID sql.NullString
	if in.ExternalID != nil {
		externalID = nullString(*in.ExternalID)
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO uhub_orgs (environment_id, name, external_id, modified_by) VALUES (?, ?, ?, ?)",
		environmentID, *in.Name, externalID, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create uhub org: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

// Update applies a partial update.
func (r *UhubOrgRepository) Update(ctx context.Context, id int64, in secondary.UhubOrgInput, modifiedBy string) (*models.UhubOrg, error) {
	ok, err := exists(ctx, r.q, "uhub_orgs", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "uhub org", ID: id}
	}

	query := "UPDATE uhub_orgs SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.Name != nil {
		query += ", name = ?"
		args = append(args, *in.Name)
	}
	if in.ExternalID != nil {
		query += ", external_id = ?"
		args = append(args, nullString(*in.ExternalID))
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update uhub org: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes an organisation. False when the id does not exist; the
// restrict FK from uhub_users surfaces untranslated while users exist.
func (r *UhubOrgRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM uhub_orgs WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.UhubOrgRepository = (*UhubOrgRepository)(nil)

// UhubUserRepository implements secondary.UhubUserRepository.
type UhubUserRepository struct {
	q DBTX
}

// NewUhubUserRepository creates a new U-hub user repository bound to q.
func NewUhubUserRepository(q DBTX) *UhubUserRepository {
	return &UhubUserRepository{q: q}
}

const uhubUserColumns = "id, environment_id, uhub_org_id, username, email, role, created_at, updated_at, modified_by"

func scanUhubUser(row interface{ Scan(...any) error }) (*models.UhubUser, error) {
	var u models.UhubUser
	err := row.Scan(&u.ID, &u.EnvironmentID, &u.UhubOrgID, &u.Username, &u.Email, &u.Role,
		&u.CreatedAt, &u.UpdatedAt, &u.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user, nil if absent.
func (r *UhubUserRepository) GetByID(ctx context.Context, id int64) (*models.UhubUser, error) {
	u, err := scanUhubUser(r.q.QueryRowContext(ctx,
		"SELECT "+uhubUserColumns+" FROM uhub_users WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get uhub user: %w", err)
	}
	return u, nil
}

// GetByName retrieves a user by username within an environment, nil if
// absent.
func (r *UhubUserRepository) GetByName(ctx context.Context, username string, environmentID int64) (*models.UhubUser, error) {
	u, err := scanUhubUser(r.q.QueryRowContext(ctx,
		"SELECT "+uhubUserColumns+" FROM uhub_users WHERE username = ? AND environment_id = ?", username, environmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get uhub user by name: %w", err)
	}
	return u, nil
}

// GetAll lists the users of one environment.
func (r *UhubUserRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.UhubUser, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+uhubUserColumns+" FROM uhub_users WHERE environment_id = ? ORDER BY username", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list uhub users: %w", err)
	}
	defer rows.Close()

	var users []*models.UhubUser
	for rows.Next() {
		u, err := scanUhubUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan uhub user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create inserts a new user. The owning organisation must already exist.
func (r *UhubUserRepository) Create(ctx context.Context, in secondary.UhubUserInput, environmentID int64, modifiedBy string) (*models.UhubUser, error) {
	if in.Username == nil || *in.Username == "" {
		return nil, &ValidationError{Field: "username", Reason: "username is required"}
	}
	if in.UhubOrgID == nil {
		return nil, &ValidationError{Field: "uhub_org", Reason: "user must belong to an organisation"}
	}

	var email, role sql.NullString
	if in.Email != nil {
		email = nullString(*in.Email)
	}
	if in.Role != nil {
		role = nullString(*in.Role)
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO uhub_users (environment_id, uhub_org_id, username, email, role, modified_by) VALUES (?, ?, ?, ?, ?, ?)",
		environmentID, *in.UhubOrgID, *in.Username, email, role, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create uhub user: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

// Update applies a partial update.
func (r *UhubUserRepository) Update(ctx context.Context, id int64, in secondary.UhubUserInput, modifiedBy string) (*models.UhubUser, error) {
	ok, err := exists(ctx, r.q, "uhub_users", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "uhub user", ID: id}
	}

	query := "UPDATE uhub_users SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.UhubOrgID != nil {
		query += ", uhub_org_id = ?"
		args = append(args, *in.UhubOrgID)
	}
	if in.Username != nil {
		query += ", username = ?"
		args = append(args, *in.Username)
	}
	if in.Email != nil {
		query += ", email = ?"
		args = append(args, nullString(*in.Email))
	}
	if in.Role != nil {
		query += ", role = ?"
		args = append(args, nullString(*in.Role))
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update uhub user: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user. False when the id does not exist.
func (r *UhubUserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM uhub_users WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.UhubUserRepository = (*UhubUserRepository)(nil)
