package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/uat/internal/adapters/sqlite"
	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

func TestUasZoneCircleRequiresRadius(t *testing.T) {
	database := setupTestDB(t)
	envID := seedEnvironment(t, database, "staging")

	_, err := sqlite.NewUasZoneRepository(database).Create(context.Background(), secondary.UasZoneInput{
		Name:     strPtr("City Center"),
		AreaType: strPtr(models.AreaTypeCircle),
	}, envID, "alice")
	if !sqlite.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUasZoneCorridorRequiresWidth(t *testing.T) {
	database := setupTestDB(t)
	envID := seedEnvironment(t, database, "staging")

	_, err := sqlite.NewUasZoneRepository(database).Create(context.Background(), secondary.UasZoneInput{
		Name:     strPtr("River Path"),
		AreaType: strPtr(models.AreaTypeCorridor),
	}, envID, "alice")
	if !sqlite.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUasZonePolygonNeedsNoGeometryFields(t *testing.T) {
	database := setupTestDB(t)
	envID := seedEnvironment(t, database, "staging")

	zone, err := sqlite.NewUasZoneRepository(database).Create(context.Background(), secondary.UasZoneInput{
		Name:     strPtr("Harbor Area"),
		AreaType: strPtr(models.AreaTypePolygon),
	}, envID, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if zone.AreaType != models.AreaTypePolygon {
		t.Errorf("expected POLYGON, got %q", zone.AreaType)
	}
}

func TestUasZoneUpdateValidatesResultingGeometry(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewUasZoneRepository(database)
	ctx := context.Background()
	envID := seedEnvironment(t, database, "staging")

	zone, err := repo.Create(ctx, secondary.UasZoneInput{
		Name:     strPtr("Harbor Area"),
		AreaType: strPtr(models.AreaTypePolygon),
	}, envID, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Switching to CIRCLE without a radius must fail.
	_, err = repo.Update(ctx, zone.ID, secondary.UasZoneInput{
		AreaType: strPtr(models.AreaTypeCircle),
	}, "alice")
	if !sqlite.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// With a radius in the same update it passes.
	updated, err := repo.Update(ctx, zone.ID, secondary.UasZoneInput{
		AreaType: strPtr(models.AreaTypeCircle),
		RadiusM:  floatPtr(500),
	}, "alice")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.RadiusM.Valid || updated.RadiusM.Float64 != 500 {
		t.Errorf("expected radius 500, got %+v", updated.RadiusM)
	}
}

func TestUasZoneReplaceSetSemantics(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewUasZoneRepository(database)
	ctx := context.Background()
	envID := seedEnvironment(t, database, "staging")

	orgRepo := sqlite.NewUhubOrgRepository(database)
	org1, err := orgRepo.Create(ctx, secondary.UhubOrgInput{Name: strPtr("org-one")}, envID, "alice")
	if err != nil {
		t.Fatalf("org Create failed: %v", err)
	}
	org2, err := orgRepo.Create(ctx, secondary.UhubOrgInput{Name: strPtr("org-two")}, envID, "alice")
	if err != nil {
		t.Fatalf("org Create failed: %v", err)
	}

	zone, err := repo.Create(ctx, secondary.UasZoneInput{
		Name:     strPtr("City Center"),
		AreaType: strPtr(models.AreaTypeCircle),
		RadiusM:  floatPtr(300),
		OrgIDs:   []int64{org1.ID},
	}, envID, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(zone.Orgs) != 1 || zone.Orgs[0].ID != org1.ID {
		t.Fatalf("expected one org after create, got %d", len(zone.Orgs))
	}

	// nil keeps the prior set.
	zone, err = repo.Update(ctx, zone.ID, secondary.UasZoneInput{Name: strPtr("City Core")}, "alice")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(zone.Orgs) != 1 {
		t.Fatalf("expected the org set kept when omitted, got %d", len(zone.Orgs))
	}

	// A present slice replaces the set wholesale.
	zone, err = repo.Update(ctx, zone.ID, secondary.UasZoneInput{OrgIDs: []int64{org2.ID}}, "alice")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(zone.Orgs) != 1 || zone.Orgs[0].ID != org2.ID {
		t.Fatalf("expected the org set replaced, got %+v", zone.Orgs)
	}

	// An empty slice clears it.
	zone, err = repo.Update(ctx, zone.ID, secondary.UasZoneInput{OrgIDs: []int64{}}, "alice")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(zone.Orgs) != 0 {
		t.Fatalf("expected the org set cleared, got %d", len(zone.Orgs))
	}
}
