// Package secondary defines the secondary ports (driven adapters) for the
// application: the repository interfaces the service layer persists through.
//
// Conventions shared by every repository:
//   - GetByID / finders return (nil, nil) when the row is absent.
//   - Create validates required fields and minimum association cardinality,
//     stamps audit columns, resolves association ID lists into join rows,
//     and returns the hydrated entity.
//   - Update applies only the fields present (non-nil) in the input; an
//     association slice that is present replaces the prior set wholesale
//     (nil keeps, empty clears); absent ids yield NotFoundError.
//   - Delete returns (false, nil) for a missing id and surfaces the store's
//     referential-integrity error untranslated when dependents still
//     reference the row.
package secondary

import (
	"context"

	"github.com/example/uat/internal/models"
)

// EnvironmentInput carries the writable columns of an environment.
type EnvironmentInput struct {
	Name        *string
	Description *string
}

// EnvironmentRepository persists environments.
type EnvironmentRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Environment, error)
	GetAll(ctx context.Context) ([]*models.Environment, error)
	GetByName(ctx context.Context, name string) (*models.Environment, error)
	Create(ctx context.Context, in EnvironmentInput, modifiedBy string) (*models.Environment, error)
	Update(ctx context.Context, id int64, in EnvironmentInput, modifiedBy string) (*models.Environment, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// LookupInput carries the writable columns of a lookup row.
type LookupInput struct {
	Name        *string
	Description *string
}

// SystemRepository persists the global system lookup.
type SystemRepository interface {
	GetByID(ctx context.Context, id int64) (*models.System, error)
	GetAll(ctx context.Context) ([]*models.System, error)
	GetByName(ctx context.Context, name string) (*models.System, error)
	Create(ctx context.Context, in LookupInput, modifiedBy string) (*models.System, error)
	Update(ctx context.Context, id int64, in LookupInput, modifiedBy string) (*models.System, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// GetOrCreate inserts the named system, falling back to reading the
	// existing row on a uniqueness conflict. The bool reports whether the
	// row was newly created.
	GetOrCreate(ctx context.Context, name, modifiedBy string) (*models.System, bool, error)
}

// SectionRepository persists the global section lookup.
type SectionRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Section, error)
	GetAll(ctx context.Context) ([]*models.Section, error)
	GetByName(ctx context.Context, name string) (*models.Section, error)
	Create(ctx context.Context, in LookupInput, modifiedBy string) (*models.Section, error)
	Update(ctx context.Context, id int64, in LookupInput, modifiedBy string) (*models.Section, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetOrCreate(ctx context.Context, name, modifiedBy string) (*models.Section, bool, error)
}

// ReasonRepository persists the global reason lookup.
type ReasonRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Reason, error)
	GetAll(ctx context.Context) ([]*models.Reason, error)
	GetByName(ctx context.Context, name string) (*models.Reason, error)
	Create(ctx context.Context, in LookupInput, modifiedBy string) (*models.Reason, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// EmailInput carries the writable columns of an email.
type EmailInput struct {
	Address *string
}

// EmailRepository persists contact emails.
type EmailRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Email, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.Email, error)
	GetByAddress(ctx context.Context, address string, environmentID int64) (*models.Email, error)
	Create(ctx context.Context, in EmailInput, environmentID int64, modifiedBy string) (*models.Email, error)
	Update(ctx context.Context, id int64, in EmailInput, modifiedBy string) (*models.Email, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// OperatorInput carries the writable columns of an operator.
type OperatorInput struct {
	EmailID *int64
	Name    *string
	EasaID  *string
	Phone   *string
}

// OperatorRepository persists drone operators.
type OperatorRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Operator, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.Operator, error)
	GetWithRelations(ctx context.Context, id int64) (*models.Operator, error)
	GetByName(ctx context.Context, name string, environmentID int64) (*models.Operator, error)
	Create(ctx context.Context, in OperatorInput, environmentID int64, modifiedBy string) (*models.Operator, error)
	Update(ctx context.Context, id int64, in OperatorInput, modifiedBy string) (*models.Operator, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// DroneInput carries the writable columns of a drone.
type DroneInput struct {
	OperatorID   *int64
	Name         *string
	SerialNumber *string
	Manufacturer *string
	Model        *string
}

// DroneRepository persists drones.
type DroneRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Drone, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.Drone, error)
	GetWithRelations(ctx context.Context, id int64) (*models.Drone, error)
	GetByName(ctx context.Context, name string, environmentID int64) (*models.Drone, error)
	Create(ctx context.Context, in DroneInput, environmentID int64, modifiedBy string) (*models.Drone, error)
	Update(ctx context.Context, id int64, in DroneInput, modifiedBy string) (*models.Drone, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UhubOrgInput carries the writable columns of a U-hub organisation.
type UhubOrgInput struct {
	Name       *string
	ExternalID *string
}

// UhubOrgRepository persists U-hub organisations.
type UhubOrgRepository interface {
	GetByID(ctx context.Context, id int64) (*models.UhubOrg, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.UhubOrg, error)
	GetWithRelations(ctx context.Context, id int64) (*models.UhubOrg, error)
	GetByName(ctx context.Context, name string, environmentID int64) (*models.UhubOrg, error)
	Create(ctx context.Context, in UhubOrgInput, environmentID int64, modifiedBy string) (*models.UhubOrg, error)
	Update(ctx context.Context, id int64, in UhubOrgInput, modifiedBy string) (*models.UhubOrg, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UhubUserInput carries the writable columns of a U-hub user.
type UhubUserInput struct {
	UhubOrgID *int64
	Username  *string
	Email     *string
	Role      *string
}

// UhubUserRepository persists U-hub users.
type UhubUserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.UhubUser, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.UhubUser, error)
	GetByName(ctx context.Context, username string, environmentID int64) (*models.UhubUser, error)
	Create(ctx context.Context, in UhubUserInput, environmentID int64, modifiedBy string) (*models.UhubUser, error)
	Update(ctx context.Context, id int64, in UhubUserInput, modifiedBy string) (*models.UhubUser, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UasZoneInput carries the writable columns and association sets of a zone.
// OrgIDs and ReasonIDs are replace-sets: nil keeps, empty clears.
type UasZoneInput struct {
	Name        *string
	AreaType    *string
	RadiusM     *float64
	WidthM      *float64
	LowerLimitM *float64
	UpperLimitM *float64
	OrgIDs      []int64
	ReasonIDs   []int64
}

// UasZoneRepository persists UAS zones.
type UasZoneRepository interface {
	GetByID(ctx context.Context, id int64) (*models.UasZone, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.UasZone, error)
	GetWithRelations(ctx context.Context, id int64) (*models.UasZone, error)
	GetAllWithRelations(ctx context.Context, environmentID int64) ([]*models.UasZone, error)
	GetByName(ctx context.Context, name string, environmentID int64) (*models.UasZone, error)
	Create(ctx context.Context, in UasZoneInput, environmentID int64, modifiedBy string) (*models.UasZone, error)
	Update(ctx context.Context, id int64, in UasZoneInput, modifiedBy string) (*models.UasZone, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// RequirementInput carries the writable columns and association sets of a
// requirement. SystemIDs and SectionIDs must be non-empty whenever present;
// a requirement with zero systems or zero sections is invalid.
type RequirementInput struct {
	Code       *string
	Definition *string
	SystemIDs  []int64
	SectionIDs []int64
	BugIDs     []int64
}

// RequirementRepository persists requirements.
type RequirementRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Requirement, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.Requirement, error)
	GetWithRelations(ctx context.Context, id int64) (*models.Requirement, error)
	GetAllWithRelations(ctx context.Context, environmentID int64) ([]*models.Requirement, error)
	GetByCode(ctx context.Context, code string, environmentID int64) (*models.Requirement, error)
	Create(ctx context.Context, in RequirementInput, environmentID int64, modifiedBy string) (*models.Requirement, error)
	Update(ctx context.Context, id int64, in RequirementInput, modifiedBy string) (*models.Requirement, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CaseInput carries the writable columns and association sets of a case.
type CaseInput struct {
	Code        *string
	Title       *string
	Description *string
	OperatorIDs []int64
	DroneIDs    []int64
	UhubUserIDs []int64
	UasZoneIDs  []int64
	SystemIDs   []int64
	SectionIDs  []int64
}

// StepInput carries the writable columns of a step.
type StepInput struct {
	Position       *int
	Action         *string
	ExpectedResult *string
	RequirementIDs []int64
}

// CaseRepository persists cases and their ordered child steps.
type CaseRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Case, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.Case, error)
	GetWithRelations(ctx context.Context, id int64) (*models.Case, error)
	GetAllWithRelations(ctx context.Context, environmentID int64) ([]*models.Case, error)
	GetByCode(ctx context.Context, code string, environmentID int64) (*models.Case, error)
	Create(ctx context.Context, in CaseInput, environmentID int64, modifiedBy string) (*models.Case, error)
	Update(ctx context.Context, id int64, in CaseInput, modifiedBy string) (*models.Case, error)
	Delete(ctx context.Context, id int64) (bool, error)

	AddStep(ctx context.Context, caseID int64, in StepInput, modifiedBy string) (*models.Step, error)
	UpdateStep(ctx context.Context, stepID int64, in StepInput, modifiedBy string) (*models.Step, error)
	DeleteStep(ctx context.Context, stepID int64) (bool, error)
	GetSteps(ctx context.Context, caseID int64) ([]*models.Step, error)
}

// BlockInput carries the writable columns and association set of a block.
type BlockInput struct {
	SystemID *int64
	Name     *string
	CaseIDs  []int64
}

// BlockRepository persists blocks.
type BlockRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Block, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.Block, error)
	GetWithRelations(ctx context.Context, id int64) (*models.Block, error)
	GetByName(ctx context.Context, name string, environmentID int64) (*models.Block, error)
	Create(ctx context.Context, in BlockInput, environmentID int64, modifiedBy string) (*models.Block, error)
	Update(ctx context.Context, id int64, in BlockInput, modifiedBy string) (*models.Block, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CampaignInput carries the writable columns and association set of a
// campaign.
type CampaignInput struct {
	SystemID *int64
	Code     *string
	Title    *string
	Status   *string
	BlockIDs []int64
}

// CampaignRepository persists campaigns.
type CampaignRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.Campaign, error)
	GetWithRelations(ctx context.Context, id int64) (*models.Campaign, error)
	GetAllWithRelations(ctx context.Context, environmentID int64) ([]*models.Campaign, error)
	GetByCode(ctx context.Context, code string, environmentID int64) (*models.Campaign, error)
	Create(ctx context.Context, in CampaignInput, environmentID int64, modifiedBy string) (*models.Campaign, error)
	Update(ctx context.Context, id int64, in CampaignInput, modifiedBy string) (*models.Campaign, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CampaignRunInput carries the writable columns of a campaign run.
type CampaignRunInput struct {
	CampaignID *int64
	Status     *string
	Notes      *string
}

// StepRunInput carries the result fields of a step run.
type StepRunInput struct {
	Result  *string
	Comment *string
	FileID  *int64
}

// CampaignRunRepository persists execution snapshots: campaign runs, their
// case runs, and each case run's step runs.
type CampaignRunRepository interface {
	GetByID(ctx context.Context, id int64) (*models.CampaignRun, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.CampaignRun, error)
	GetWithRelations(ctx context.Context, id int64) (*models.CampaignRun, error)
	Create(ctx context.Context, in CampaignRunInput, environmentID int64, modifiedBy string) (*models.CampaignRun, error)
	Finish(ctx context.Context, id int64, status string, modifiedBy string) (*models.CampaignRun, error)
	Delete(ctx context.Context, id int64) (bool, error)

	AddCaseRun(ctx context.Context, campaignRunID, caseID int64, modifiedBy string) (*models.CaseRun, error)
	AddStepRun(ctx context.Context, caseRunID, stepID int64, modifiedBy string) (*models.StepRun, error)
	RecordStepResult(ctx context.Context, stepRunID int64, in StepRunInput, modifiedBy string) (*models.StepRun, error)
	RecordCaseResult(ctx context.Context, caseRunID int64, result, executedBy string) (*models.CaseRun, error)
	GetCaseRuns(ctx context.Context, campaignRunID int64) ([]*models.CaseRun, error)
	GetStepRuns(ctx context.Context, caseRunID int64) ([]*models.StepRun, error)
}

// BugInput carries the writable columns and association sets of a bug.
type BugInput struct {
	SystemID       *int64
	CampaignRunID  *int64
	Title          *string
	Description    *string
	Severity       *string
	Status         *string
	RequirementIDs []int64
	FileIDs        []int64
}

// BugRepository persists bugs and their append-only history.
type BugRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Bug, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.Bug, error)
	GetWithRelations(ctx context.Context, id int64) (*models.Bug, error)
	GetAllWithRelations(ctx context.Context, environmentID int64) ([]*models.Bug, error)
	Create(ctx context.Context, in BugInput, environmentID int64, modifiedBy string) (*models.Bug, error)
	Update(ctx context.Context, id int64, in BugInput, modifiedBy string) (*models.Bug, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// AppendHistory adds one change-log entry. History is never mutated.
	AppendHistory(ctx context.Context, bugID int64, actor, summary string) (*models.BugHistory, error)
	GetHistory(ctx context.Context, bugID int64) ([]*models.BugHistory, error)
}

// FileInput carries the writable columns of a file record.
type FileInput struct {
	OwnerType *string
	Filename  *string
	Path      *string
	MimeType  *string
	SizeBytes *int64
}

// FileRepository persists attachment records.
type FileRepository interface {
	GetByID(ctx context.Context, id int64) (*models.File, error)
	GetAll(ctx context.Context, environmentID int64) ([]*models.File, error)
	GetByFilename(ctx context.Context, filename string, environmentID int64) (*models.File, error)
	Create(ctx context.Context, in FileInput, environmentID int64, modifiedBy string) (*models.File, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
