package secondary

import "context"

// UnitOfWork scopes repository work to one atomic transaction: everything
// done through its repositories commits or rolls back together.
type UnitOfWork interface {
	Environments() EnvironmentRepository
	Systems() SystemRepository
	Sections() SectionRepository
	Reasons() ReasonRepository
	Emails() EmailRepository
	Operators() OperatorRepository
	Drones() DroneRepository
	UhubOrgs() UhubOrgRepository
	UhubUsers() UhubUserRepository
	UasZones() UasZoneRepository
	Requirements() RequirementRepository
	Cases() CaseRepository
	Blocks() BlockRepository
	Campaigns() CampaignRepository
	CampaignRuns() CampaignRunRepository
	Bugs() BugRepository
	Files() FileRepository

	// Commit makes the unit's writes durable.
	Commit() error

	// Rollback discards the unit's writes. Safe after Commit.
	Rollback() error

	// Close rolls back anything uncommitted and releases the unit's
	// connection. Safe to call more than once.
	Close() error
}

// UnitOfWorkFactory begins fresh units of work.
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
