package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// UasZoneRepository implements secondary.UasZoneRepository.
type UasZoneRepository struct {
	q DBTX
}

// NewUasZoneRepository creates a new UAS zone repository bound to q.
func NewUasZoneRepository(q DBTX) *UasZoneRepository {
	return &UasZoneRepository{q: q}
}

const uasZoneColumns = "id, environment_id, name, area_type, radius_m, width_m, lower_limit_m, upper_limit_m, created_at, updated_at, modified_by"

func scanUasZone(row interface{ Scan(...any) error }) (*models.UasZone, error) {
	var z models.UasZone
	err := row.Scan(&z.ID, &z.EnvironmentID, &z.Name, &z.AreaType, &z.RadiusM, &z.WidthM,
		&z.LowerLimitM, &z.UpperLimitM, &z.CreatedAt, &z.UpdatedAt, &z.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &z, nil
}

// validateGeometry enforces the conditional field rules: a CIRCLE zone
// needs a radius, a CORRIDOR zone needs a width.
func validateGeometry(areaType string, radius, width sql.NullFloat64) error {
	switch areaType {
	case models.AreaTypeCircle:
		if !radius.Valid {
			return &ValidationError{Field: "radius_m", Reason: "radius is required for CIRCLE zones"}
		}
	case models.AreaTypeCorridor:
		if !width.Valid {
			return &ValidationError{Field: "width_m", Reason: "width is required for CORRIDOR zones"}
		}
	case models.AreaTypePolygon:
		// no conditional fields
	default:
		return &ValidationError{Field: "area_type", Reason: fmt.Sprintf("unknown area type %q", areaType)}
	}
	return nil
}

// GetByID retrieves a zone, nil if absent.
func (r *UasZoneRepository) GetByID(ctx context.Context, id int64) (*models.UasZone, error) {
	z, err := scanUasZone(r.q.QueryRowContext(ctx,
		"SELECT "+uasZoneColumns+" FROM uas_zones WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get uas zone: %w", err)
	}
	return z, nil
}

// GetWithRelations retrieves a zone with its organisations and reasons.
func (r *UasZoneRepository) GetWithRelations(ctx context.Context, id int64) (*models.UasZone, error) {
	z, err := r.GetByID(ctx, id)
	if err != nil || z == nil {
		return z, err
	}
	return z, r.loadRelations(ctx, z)
}

func (r *UasZoneRepository) loadRelations(ctx context.Context, z *models.UasZone) error {
	orgIDs, err := memberIDs(ctx, r.q, "zone_orgs", "uas_zone_id", "uhub_org_id", z.ID)
	if err != nil {
		return err
	}
	orgRepo := NewUhubOrgRepository(r.q)
	z.Orgs = nil
	for _, orgID := range orgIDs {
		org, err := orgRepo.GetByID(ctx, orgID)
		if err != nil {
			return err
		}
		z.Orgs = append(z.Orgs, org)
	}

	reasonIDs, err := memberIDs(ctx, r.q, "zone_reasons", "uas_zone_id", "reason_id", z.ID)
	if err != nil {
		return err
	}
	reasonRepo := NewReasonRepository(r.q)
	z.Reasons = nil
	for _, reasonID := range reasonIDs {
		reason, err := reasonRepo.GetByID(ctx, reasonID)
		if err != nil {
			return err
		}
		z.Reasons = append(z.Reasons, reason)
	}
	return nil
}

// GetByName retrieves a zone by name within an environment, nil if absent.
func (r *UasZoneRepository) GetByName(ctx context.Context, name string, environmentID int64) (*models.UasZone, error) {
	z, err := scanUasZone(r.q.QueryRowContext(ctx,
		"SELECT "+uasZoneColumns+" FROM uas_zones WHERE name = ? AND environment_id = ?", name, environmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get uas zone by name: %w", err)
	}
	return z, nil
}

// GetAll lists the zones of one environment.
func (r *UasZoneRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.UasZone, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+uasZoneColumns+" FROM uas_zones WHERE environment_id = ? ORDER BY name", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list uas zones: %w", err)
	}
	defer rows.Close()

	var zones []*models.UasZone
	for rows.Next() {
		z, err := scanUasZone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan uas zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// GetAllWithRelations lists the zones of one environment with associations.
func (r *UasZoneRepository) GetAllWithRelations(ctx context.Context, environmentID int64) ([]*models.UasZone, error) {
	zones, err := r.GetAll(ctx, environmentID)
	if err != nil {
		return nil, err
	}
	for _, z := range zones {
		if err := r.loadRelations(ctx, z); err != nil {
			return nil, err
		}
	}
	return zones, nil
}

// Create inserts a new zone and its association sets.
func (r *UasZoneRepository) Create(ctx context.Context, in secondary.UasZoneInput, environmentID int64, modifiedBy string) (*models.UasZone, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}
	if in.AreaType == nil || *in.AreaType == "" {
		return nil, &ValidationError{Field: "area_type", Reason: "area type is required"}
	}

	radius := nullFloat(in.RadiusM)
	width := nullFloat(in.WidthM)
	if err := validateGeometry(*in.AreaType, radius, width); err != nil {
		return nil, err
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO uas_zones (environment_id, name, area_type, radius_m, width_m, lower_limit_m, upper_limit_m, modified_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		environmentID, *in.Name, *in.AreaType, radius, width, nullFloat(in.LowerLimitM), nullFloat(in.UpperLimitM), modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create uas zone: %w", err)
	}
	id, _ := res.LastInsertId()

	if in.OrgIDs != nil {
		if err := replaceSet(ctx, r.q, "zone_orgs", "uas_zone_id", "uhub_org_id", id, in.OrgIDs); err != nil {
			return nil, err
		}
	}
	if in.ReasonIDs != nil {
		if err := replaceSet(ctx, r.q, "zone_reasons", "uas_zone_id", "reason_id", id, in.ReasonIDs); err != nil {
			return nil, err
		}
	}

	return r.GetWithRelations(ctx, id)
}

// Update applies a partial update; OrgIDs/ReasonIDs present in the input
// replace the prior sets wholesale.
func (r *UasZoneRepository) Update(ctx context.Context, id int64, in secondary.UasZoneInput, modifiedBy string) (*models.UasZone, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &NotFoundError{Entity: "uas zone", ID: id}
	}

	// Validate the geometry the row will have after the update.
	areaType := current.AreaType
	if in.AreaType != nil {
		areaType = *in.AreaType
	}
	radius := current.RadiusM
	if in.RadiusM != nil {
		radius = nullFloat(in.RadiusM)
	}
	width := current.WidthM
	if in.WidthM != nil {
		width = nullFloat(in.WidthM)
	}
	if err := validateGeometry(areaType, radius, width); err != nil {
		return nil, err
	}

	query := "UPDATE uas_zones SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.Name != nil {
		query += ", name = ?"
		args = append(args, *in.Name)
	}
	if in.AreaType != nil {
		query += ", area_type = ?"
		args = append(args, *in.AreaType)
	}
	if in.RadiusM != nil {
		query += ", radius_m = ?"
		args = append(args, nullFloat(in.RadiusM))
	}
	if in.WidthM != nil {
		query += ", width_m = ?"
		args = append(args, nullFloat(in.WidthM))
	}
	if in.LowerLimitM != nil {
		query += ", lower_limit_m = ?"
		args = append(args, nullFloat(in.LowerLimitM))
	}
	if in.UpperLimitM != nil {
		query += ", upper_limit_m = ?"
		args = append(args, nullFloat(in.UpperLimitM))
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update uas zone: %w", err)
	}

	if in.OrgIDs != nil {
		if err := replaceSet(ctx, r.q, "zone_orgs", "uas_zone_id", "uhub_org_id", id, in.OrgIDs); err != nil {
			return nil, err
		}
	}
	if in.ReasonIDs != nil {
		if err := replaceSet(ctx, r.q, "zone_reasons", "uas_zone_id", "reason_id", id, in.ReasonIDs); err != nil {
			return nil, err
		}
	}

	return r.GetWithRelations(ctx, id)
}

// Delete removes a zone and its join rows. False when the id does not
// exist.
func (r *UasZoneRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM uas_zones WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.UasZoneRepository = (*UasZoneRepository)(nil)
