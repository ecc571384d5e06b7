package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/uat/internal/ports/secondary"
)

// Session is how a unit of work holds its database connection. The set is
// closed: ownedSession pins a dedicated connection for its whole lifetime,
// pooledSession borrows from the pool per transaction. The capability is
// picked at construction.
type Session interface {
	begin(ctx context.Context) (*sql.Tx, error)

	// Close releases the session's connection. Closing an already-closed
	// session is not an error.
	Close() error
}

type ownedSession struct {
	conn *sql.Conn
}

type pooledSession struct {
	db *sql.DB
}

func (s *ownedSession) begin(ctx context.Context) (*sql.Tx, error) {
	return s.conn.BeginTx(ctx, nil)
}

func (s *ownedSession) Close() error {
	err := s.conn.Close()
	if err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("failed to release session: %w", err)
	}
	return nil
}

func (s *pooledSession) begin(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

func (s *pooledSession) Close() error {
	// Pool connections are returned when the transaction ends.
	return nil
}

// SessionFactory mints sessions and units of work against one database
// pool.
type SessionFactory struct {
	db *sql.DB
}

// NewSessionFactory creates a session factory for db.
func NewSessionFactory(db *sql.DB) *SessionFactory {
	return &SessionFactory{db: db}
}

// Owned pins one connection out of the pool for the session's lifetime.
func (f *SessionFactory) Owned(ctx context.Context) (Session, error) {
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &ownedSession{conn: conn}, nil
}

// Pooled borrows a connection from the pool per transaction.
func (f *SessionFactory) Pooled() Session {
	return &pooledSession{db: f.db}
}

// Begin starts a unit of work on a pooled session.
func (f *SessionFactory) Begin(ctx context.Context) (secondary.UnitOfWork, error) {
	return NewUnitOfWork(ctx, f.Pooled())
}

// UnitOfWork binds every repository to a single transaction so a multi-step
// change commits or rolls back as one atomic unit. Writes are invisible to
// other connections until Commit.
type UnitOfWork struct {
	tx      *sql.Tx
	session Session

	environments *EnvironmentRepository
	systems      *SystemRepository
	sections     *SectionRepository
	reasons      *ReasonRepository
	emails       *EmailRepository
	operators    *OperatorRepository
	drones       *DroneRepository
	uhubOrgs     *UhubOrgRepository
	uhubUsers    *UhubUserRepository
	uasZones     *UasZoneRepository
	requirements *RequirementRepository
	cases        *CaseRepository
	blocks       *BlockRepository
	campaigns    *CampaignRepository
	campaignRuns *CampaignRunRepository
	bugs         *BugRepository
	files        *FileRepository
}

// NewUnitOfWork opens a transaction on the session and binds the
// repositories to it.
func NewUnitOfWork(ctx context.Context, session Session) (*UnitOfWork, error) {
	tx, err := session.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &UnitOfWork{
		tx:      tx,
		session: session,

		environments: NewEnvironmentRepository(tx),
		systems:      NewSystemRepository(tx),
		sections:     NewSectionRepository(tx),
		reasons:      NewReasonRepository(tx),
		emails:       NewEmailRepository(tx),
		operators:    NewOperatorRepository(tx),
		drones:       NewDroneRepository(tx),
		uhubOrgs:     NewUhubOrgRepository(tx),
		uhubUsers:    NewUhubUserRepository(tx),
		uasZones:     NewUasZoneRepository(tx),
		requirements: NewRequirementRepository(tx),
		cases:        NewCaseRepository(tx),
		blocks:       NewBlockRepository(tx),
		campaigns:    NewCampaignRepository(tx),
		campaignRuns: NewCampaignRunRepository(tx),
		bugs:         NewBugRepository(tx),
		files:        NewFileRepository(tx),
	}, nil
}

func (u *UnitOfWork) Environments() secondary.EnvironmentRepository { return u.environments }
func (u *UnitOfWork) Systems() secondary.SystemRepository           { return u.systems }
func (u *UnitOfWork) Sections() secondary.SectionRepository         { return u.sections }
func (u *UnitOfWork) Reasons() secondary.ReasonRepository           { return u.reasons }
func (u *UnitOfWork) Emails() secondary.EmailRepository             { return u.emails }
func (u *UnitOfWork) Operators() secondary.OperatorRepository       { return u.operators }
func (u *UnitOfWork) Drones() secondary.DroneRepository             { return u.drones }
func (u *UnitOfWork) UhubOrgs() secondary.UhubOrgRepository         { return u.uhubOrgs }
func (u *UnitOfWork) UhubUsers() secondary.UhubUserRepository       { return u.uhubUsers }
func (u *UnitOfWork) UasZones() secondary.UasZoneRepository         { return u.uasZones }
func (u *UnitOfWork) Requirements() secondary.RequirementRepository { return u.requirements }
func (u *UnitOfWork) Cases() secondary.CaseRepository               { return u.cases }
func (u *UnitOfWork) Blocks() secondary.BlockRepository             { return u.blocks }
func (u *UnitOfWork) Campaigns() secondary.CampaignRepository       { return u.campaigns }
func (u *UnitOfWork) CampaignRuns() secondary.CampaignRunRepository { return u.campaignRuns }
func (u *UnitOfWork) Bugs() secondary.BugRepository                 { return u.bugs }
func (u *UnitOfWork) Files() secondary.FileRepository               { return u.files }

// Commit makes the unit's writes durable. On failure the transaction is
// rolled back and the store's error propagated unchanged.
func (u *UnitOfWork) Commit() error {
	if err := u.tx.Commit(); err != nil {
		_ = u.tx.Rollback()
		return err
	}
	return nil
}

// Rollback discards the unit's writes. A transaction that already ended is
// not an error.
func (u *UnitOfWork) Rollback() error {
	err := u.tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back: %w", err)
	}
	return nil
}

// Close rolls back anything uncommitted and releases the session.
func (u *UnitOfWork) Close() error {
	if err := u.Rollback(); err != nil {
		_ = u.session.Close()
		return err
	}
	return u.session.Close()
}

// WithUnitOfWork runs fn inside a fresh unit of work on a pooled session:
// commit on success, rollback on error, Close guaranteed on every path.
// fn's error is never masked by a cleanup error.
func WithUnitOfWork(ctx context.Context, factory *SessionFactory, fn func(*UnitOfWork) error) error {
	session := factory.Pooled()
	uow, err := NewUnitOfWork(ctx, session)
	if err != nil {
		_ = session.Close()
		return err
	}
	defer uow.Close()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit()
}

var (
	_ secondary.UnitOfWork        = (*UnitOfWork)(nil)
	_ secondary.UnitOfWorkFactory = (*SessionFactory)(nil)
)
