package primary

import (
	"context"

	"github.com/example/uat/internal/models"
)

// CaseService manages test cases, their ordered steps and their
// reference-data associations.
type CaseService interface {
	CreateCase(ctx context.Context, req CreateCaseRequest) (*models.Case, error)

	// GetCase retrieves a case by code within an environment, with steps and
	// associations. Nil when absent.
	GetCase(ctx context.Context, environmentID int64, code string) (*models.Case, error)

	ListCases(ctx context.Context, environmentID int64) ([]*models.Case, error)
	UpdateCase(ctx context.Context, req UpdateCaseRequest) (*models.Case, error)
	DeleteCase(ctx context.Context, id int64) (bool, error)

	// AddStep appends a step to a case; without a position it goes last.
	AddStep(ctx context.Context, req AddStepRequest) (*models.Step, error)

	UpdateStep(ctx context.Context, req UpdateStepRequest) (*models.Step, error)
	RemoveStep(ctx context.Context, stepID int64) (bool, error)

	// ReorderSteps rewrites a case's step order to match stepIDs, which must
	// list every step of the case exactly once.
	ReorderSteps(ctx context.Context, caseID int64, stepIDs []int64, actor string) ([]*models.Step, error)
}

// CreateCaseRequest contains parameters for creating a case. Association
// slices may be nil.
type CreateCaseRequest struct {
	EnvironmentID int64
	Code          string
	Title         string
	Description   string
	OperatorIDs   []int64
	DroneIDs      []int64
	UhubUserIDs   []int64
	UasZoneIDs    []int64
	SystemIDs     []int64
	SectionIDs    []int64
	Actor         string
}

// UpdateCaseRequest contains parameters for a partial case update. Nil
// fields keep their value; a present ID slice replaces the set, an empty
// one clears it.
type UpdateCaseRequest struct {
	CaseID      int64
	Code        *string
	Title       *string
	Description *string
	OperatorIDs []int64
	DroneIDs    []int64
	UhubUserIDs []int64
	UasZoneIDs  []int64
	SystemIDs   []int64
	SectionIDs  []int64
	Actor       string
}

// AddStepRequest contains parameters for appending a step to a case.
type AddStepRequest struct {
	CaseID         int64
	Position       *int
	Action         string
	ExpectedResult string
	RequirementIDs []int64
	Actor          string
}

// UpdateStepRequest contains parameters for a partial step update.
type UpdateStepRequest struct {
	StepID         int64
	Position       *int
	Action         *string
	ExpectedResult *string
	RequirementIDs []int64
	Actor          string
}
