// Package primary defines the primary ports: the service interfaces the
// presentation layer drives, with request structs for the mutating
// operations. Every mutation carries the acting user in Actor; it lands in
// the audit columns and, for bugs, in the change log.
package primary

import (
	"context"

	"github.com/example/uat/internal/models"
)

// RequirementService manages requirements and their coverage links.
type RequirementService interface {
	CreateRequirement(ctx context.Context, req CreateRequirementRequest) (*models.Requirement, error)

	// GetRequirement retrieves a requirement by code within an environment,
	// with associations. Nil when absent.
	GetRequirement(ctx context.Context, environmentID int64, code string) (*models.Requirement, error)

	ListRequirements(ctx context.Context, environmentID int64) ([]*models.Requirement, error)
	UpdateRequirement(ctx context.Context, req UpdateRequirementRequest) (*models.Requirement, error)

	// DeleteRequirement removes a requirement. False when the id does not
	// exist.
	DeleteRequirement(ctx context.Context, id int64) (bool, error)
}

// CreateRequirementRequest contains parameters for creating a requirement.
// SystemIDs and SectionIDs must each name at least one row.
type CreateRequirementRequest struct {
	EnvironmentID int64
	Code          string
	Definition    string
	SystemIDs     []int64
	SectionIDs    []int64
	Actor         string
}

// UpdateRequirementRequest contains parameters for a partial requirement
// update. Nil fields keep their value; a present ID slice replaces the set.
type UpdateRequirementRequest struct {
	RequirementID int64
	Code          *string
	Definition    *string
	SystemIDs     []int64
	SectionIDs    []int64
	Actor         string
}
