package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// DroneRepository implements secondary.DroneRepository.
type DroneRepository struct {
	q DBTX
}

// NewDroneRepository creates a new drone repository bound to q.
func NewDroneRepository(q DBTX) *DroneRepository {
	return &DroneRepository{q: q}
}

const droneColumns = "id, environment_id, operator_id, name, serial_number, manufacturer, model, created_at, updated_at, modified_by"

func scanDrone(row interface{ Scan(...any) error }) (*models.Drone, error) {
	var d models.Drone
	err := row.Scan(&d.ID, &d.EnvironmentID, &d.OperatorID, &d.Name, &d.SerialNumber,
		&d.Manufacturer, &d.Model, &d.CreatedAt, &d.UpdatedAt, &d.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByID retrieves a drone, nil if absent.
func (r *DroneRepository) GetByID(ctx context.Context, id int64) (*models.Drone, error) {
	d, err := scanDrone(r.q.QueryRowContext(ctx,
		"SELECT "+droneColumns+" FROM drones WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drone: %w", err)
	}
	return d, nil
}

// GetWithRelations retrieves a drone with its owning operator (and the
// operator's email) attached.
func (r *DroneRepository) GetWithRelations(ctx context.Context, id int64) (*models.Drone, error) {
	d, err := r.GetByID(ctx, id)
	if err != nil || d == nil {
		return d, err
	}
	d.Operator, err = NewOperatorRepository(r.q).GetWithRelations(ctx, d.OperatorID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetByName retrieves a drone by name within an environment, nil if absent.
func (r *DroneRepository) GetByName(ctx context.Context, name string, environmentID int64) (*models.Drone, error) {
	d, err := scanDrone(r.q.QueryRowContext(ctx,
		"SELECT "+droneColumns+" FROM drones WHERE name = ? AND environment_id = ?", name, environmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drone by name: %w", err)
	}
	return d, nil
}

// GetAll lists the drones of one environment.
func (r *DroneRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.Drone, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+droneColumns+" FROM drones WHERE environment_id = ? ORDER BY name", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drones: %w", err)
	}
	defer rows.Close()

	var drones []*models.Drone
	for rows.Next() {
		d, err := scanDrone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan drone: %w", err)
		}
		drones = append(drones, d)
	}
	return drones, rows.Err()
}

// Create inserts a new drone. The owning operator must already exist.
func (r *DroneRepository) Create(ctx context.Context, in secondary.DroneInput, environmentID int64, modifiedBy string) (*models.Drone, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}
	if in.SerialNumber == nil || *in.SerialNumber == "" {
		return nil, &ValidationError{Field: "serial_number", Reason: "serial number is required"}
	}
	if in.OperatorID == nil {
		return nil, &ValidationError{Field: "operator", Reason: "drone must reference exactly one operator"}
	}

	var manufacturer, model sql.NullString
	if in.Manufacturer != nil {
		manufacturer = nullString(*in.Manufacturer)
	}
	if in.Model != nil {
		model = nullString(*in.Model)
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO drones (environment_id, operator_id, name, serial_number, manufacturer, model, modified_by) VALUES (?, ?, ?, ?, ?, ?, ?)",
		environmentID, *in.OperatorID, *in.Name, *in.SerialNumber, manufacturer, model, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drone: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.GetWithRelations(ctx, id)
}

// Update applies a partial update.
func (r *DroneRepository) Update(ctx context.Context, id int64, in secondary.DroneInput, modifiedBy string) (*models.Drone, error) {
	ok, err := exists(ctx, r.q, "drones", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "drone", ID: id}
	}

	query := "UPDATE drones SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.OperatorID != nil {
		query += ", operator_id = ?"
		args = append(args, *in.OperatorID)
	}
	if in.Name != nil {
		query += ", name = ?"
		args = append(args, *in.Name)
	}
	if in.SerialNumber != nil {
		query += ", serial_number = ?"
		args = append(args, *in.SerialNumber)
	}
	if in.Manufacturer != nil {
		query += ", manufacturer = ?"
		args = append(args, nullString(*in.Manufacturer))
	}
	if in.Model != nil {
		query += ", model = ?"
		args = append(args, nullString(*in.Model))
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update drone: %w", err)
	}
	return r.GetWithRelations(ctx, id)
}

// Delete removes a drone. False when the id does not exist.
func (r *DroneRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM drones WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.DroneRepository = (*DroneRepository)(nil)
