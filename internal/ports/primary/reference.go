package primary

import (
	"context"

	"github.com/example/uat/internal/models"
)

// ReferenceService manages environments, the global lookups and the
// per-environment reference data that cases point at. Deletes surface the
// store's integrity error when the row is still referenced, so the caller
// can report "in use".
type ReferenceService interface {
	CreateEnvironment(ctx context.Context, name, description, actor string) (*models.Environment, error)
	GetEnvironment(ctx context.Context, name string) (*models.Environment, error)
	ListEnvironments(ctx context.Context) ([]*models.Environment, error)
	DeleteEnvironment(ctx context.Context, id int64) (bool, error)

	// EnsureSystem returns the named system, creating it if absent. The bool
	// reports whether it was created.
	EnsureSystem(ctx context.Context, name, actor string) (*models.System, bool, error)
	ListSystems(ctx context.Context) ([]*models.System, error)

	EnsureSection(ctx context.Context, name, actor string) (*models.Section, bool, error)
	ListSections(ctx context.Context) ([]*models.Section, error)

	ListReasons(ctx context.Context) ([]*models.Reason, error)

	CreateEmail(ctx context.Context, environmentID int64, address, actor string) (*models.Email, error)
	ListEmails(ctx context.Context, environmentID int64) ([]*models.Email, error)
	DeleteEmail(ctx context.Context, id int64) (bool, error)

	CreateOperator(ctx context.Context, req CreateOperatorRequest) (*models.Operator, error)
	ListOperators(ctx context.Context, environmentID int64) ([]*models.Operator, error)
	DeleteOperator(ctx context.Context, id int64) (bool, error)

	CreateDrone(ctx context.Context, req CreateDroneRequest) (*models.Drone, error)
	ListDrones(ctx context.Context, environmentID int64) ([]*models.Drone, error)
	DeleteDrone(ctx context.Context, id int64) (bool, error)

	CreateUhubOrg(ctx context.Context, environmentID int64, name, externalID, actor string) (*models.UhubOrg, error)
	ListUhubOrgs(ctx context.Context, environmentID int64) ([]*models.UhubOrg, error)
	DeleteUhubOrg(ctx context.Context, id int64) (bool, error)

	CreateUhubUser(ctx context.Context, req CreateUhubUserRequest) (*models.UhubUser, error)
	ListUhubUsers(ctx context.Context, environmentID int64) ([]*models.UhubUser, error)
	DeleteUhubUser(ctx context.Context, id int64) (bool, error)

	CreateZone(ctx context.Context, req CreateZoneRequest) (*models.UasZone, error)
	ListZones(ctx context.Context, environmentID int64) ([]*models.UasZone, error)
	UpdateZone(ctx context.Context, req UpdateZoneRequest) (*models.UasZone, error)
	DeleteZone(ctx context.Context, id int64) (bool, error)
}

// CreateOperatorRequest contains parameters for creating an operator. The
// contact email must already exist.
type CreateOperatorRequest struct {
	EnvironmentID int64
	EmailID       int64
	Name          string
	EasaID        string
	Phone         string
	Actor         string
}

// CreateDroneRequest contains parameters for registering a drone under an
// operator.
type CreateDroneRequest struct {
	EnvironmentID int64
	OperatorID    int64
	Name          string
	SerialNumber  string
	Manufacturer  string
	Model         string
	Actor         string
}

// CreateUhubUserRequest contains parameters for creating a U-hub user under
// an organisation.
type CreateUhubUserRequest struct {
	EnvironmentID int64
	UhubOrgID     int64
	Username      string
	Email         string
	Role          string
	Actor         string
}

// CreateZoneRequest contains parameters for creating a UAS zone. CIRCLE
// zones need RadiusM, CORRIDOR zones need WidthM.
type CreateZoneRequest struct {
	EnvironmentID int64
	Name          string
	AreaType      string
	RadiusM       *float64
	WidthM        *float64
	LowerLimitM   *float64
	UpperLimitM   *float64
	OrgIDs        []int64
	ReasonIDs     []int64
	Actor         string
}

// UpdateZoneRequest contains parameters for a partial zone update.
type UpdateZoneRequest struct {
	ZoneID      int64
	Name        *string
	AreaType    *string
	RadiusM     *float64
	WidthM      *float64
	LowerLimitM *float64
	UpperLimitM *float64
	OrgIDs      []int64
	ReasonIDs   []int64
	Actor       string
}
