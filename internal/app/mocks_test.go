package app

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockUnitOfWork implements secondary.UnitOfWork over map-backed repository
// mocks. Getters for repositories a test never touches fall through to the
// embedded nil interface and panic, which is the wanted failure mode.
type mockUnitOfWork struct {
	secondary.UnitOfWork

	campaigns    *mockCampaignRepository
	campaignRuns *mockCampaignRunRepository
	cases        *mockCaseRepository
	bugs         *mockBugRepository
	files        *mockFileRepository

	commits   int
	rollbacks int
	closed    bool
	commitErr error
}

func newMockUnitOfWork() *mockUnitOfWork {
	return &mockUnitOfWork{
		campaigns:    newMockCampaignRepository(),
		campaignRuns: newMockCampaignRunRepository(),
		cases:        newMockCaseRepository(),
		bugs:         newMockBugRepository(),
		files:        newMockFileRepository(),
	}
}

func (m *mockUnitOfWork) Campaigns() secondary.CampaignRepository { return m.campaigns }
func (m *mockUnitOfWork) CampaignRuns() secondary.CampaignRunRepository {
	return m.campaignRuns
}
func (m *mockUnitOfWork) Cases() secondary.CaseRepository { return m.cases }
func (m *mockUnitOfWork) Bugs() secondary.BugRepository   { return m.bugs }
func (m *mockUnitOfWork) Files() secondary.FileRepository { return m.files }

func (m *mockUnitOfWork) Commit() error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.commits++
	return nil
}

func (m *mockUnitOfWork) Rollback() error {
	m.rollbacks++
	return nil
}

func (m *mockUnitOfWork) Close() error {
	m.closed = true
	return nil
}

// mockFactory hands out the same unit of work on every Begin so tests can
// inspect it afterwards.
type mockFactory struct {
	uow      *mockUnitOfWork
	beginErr error
}

func (f *mockFactory) Begin(ctx context.Context) (secondary.UnitOfWork, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.uow, nil
}

// mockCampaignRepository implements secondary.CampaignRepository.
type mockCampaignRepository struct {
	secondary.CampaignRepository

	campaigns map[int64]*models.Campaign
	nextID    int64
	updateErr error
}

func newMockCampaignRepository() *mockCampaignRepository {
	return &mockCampaignRepository{campaigns: make(map[int64]*models.Campaign), nextID: 1}
}

func (m *mockCampaignRepository) add(c *models.Campaign) *models.Campaign {
	c.ID = m.nextID
	m.nextID++
	m.campaigns[c.ID] = c
	return c
}

func (m *mockCampaignRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	return m.campaigns[id], nil
}

func (m *mockCampaignRepository) GetWithRelations(ctx context.Context, id int64) (*models.Campaign, error) {
	return m.campaigns[id], nil
}

func (m *mockCampaignRepository) Update(ctx context.Context, id int64, in secondary.CampaignInput, modifiedBy string) (*models.Campaign, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	c, ok := m.campaigns[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	c.ModifiedBy = modifiedBy
	return c, nil
}

// mockCampaignRunRepository implements secondary.CampaignRunRepository.
type mockCampaignRunRepository struct {
	secondary.CampaignRunRepository

	runs     map[int64]*models.CampaignRun
	caseRuns map[int64]*models.CaseRun
	stepRuns map[int64]*models.StepRun
	nextID   int64
}

func newMockCampaignRunRepository() *mockCampaignRunRepository {
	return &mockCampaignRunRepository{
		runs:     make(map[int64]*models.CampaignRun),
		caseRuns: make(map[int64]*models.CaseRun),
		stepRuns: make(map[int64]*models.StepRun),
		nextID:   1,
	}
}

func (m *mockCampaignRunRepository) Create(ctx context.Context, in secondary.CampaignRunInput, environmentID int64, modifiedBy string) (*models.CampaignRun, error) {
	run := &models.CampaignRun{
		EnvironmentID: environmentID,
		CampaignID:    *in.CampaignID,
		Status:        "RUNNING",
		StartedAt:     sql.NullTime{Time: time.Now(), Valid: true},
	}
	if in.Notes != nil {
		run.Notes = sql.NullString{String: *in.Notes, Valid: true}
	}
	run.ID = m.nextID
	m.nextID++
	m.runs[run.ID] = run
	return run, nil
}

func (m *mockCampaignRunRepository) AddCaseRun(ctx context.Context, campaignRunID, caseID int64, modifiedBy string) (*models.CaseRun, error) {
	cr := &models.CaseRun{CampaignRunID: campaignRunID, CaseID: caseID}
	cr.ID = m.nextID
	m.nextID++
	m.caseRuns[cr.ID] = cr
	m.runs[campaignRunID].CaseRuns = append(m.runs[campaignRunID].CaseRuns, cr)
	return cr, nil
}

func (m *mockCampaignRunRepository) AddStepRun(ctx context.Context, caseRunID, stepID int64, modifiedBy string) (*models.StepRun, error) {
	sr := &models.StepRun{CaseRunID: caseRunID, StepID: stepID}
	sr.ID = m.nextID
	m.nextID++
	m.stepRuns[sr.ID] = sr
	m.caseRuns[caseRunID].StepRuns = append(m.caseRuns[caseRunID].StepRuns, sr)
	return sr, nil
}

func (m *mockCampaignRunRepository) GetWithRelations(ctx context.Context, id int64) (*models.CampaignRun, error) {
	return m.runs[id], nil
}

// mockCaseRepository implements secondary.CaseRepository.
type mockCaseRepository struct {
	secondary.CaseRepository

	steps map[int64][]*models.Step
}

func newMockCaseRepository() *mockCaseRepository {
	return &mockCaseRepository{steps: make(map[int64][]*models.Step)}
}

func (m *mockCaseRepository) GetSteps(ctx context.Context, caseID int64) ([]*models.Step, error) {
	out := make([]*models.Step, len(m.steps[caseID]))
	copy(out, m.steps[caseID])
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *mockCaseRepository) UpdateStep(ctx context.Context, stepID int64, in secondary.StepInput, modifiedBy string) (*models.Step, error) {
	for _, steps := range m.steps {
		for _, step := range steps {
			if step.ID != stepID {
				continue
			}
			if in.Position != nil {
				// Same constraint the schema carries.
				for _, sibling := range steps {
					if sibling.ID != stepID && sibling.Position == *in.Position {
						return nil, fmt.Errorf("failed to update step: UNIQUE constraint failed: steps.case_id, steps.position")
					}
				}
				step.Position = *in.Position
			}
			if in.Action != nil {
				step.Action = *in.Action
			}
			step.ModifiedBy = modifiedBy
			return step, nil
		}
	}
	return nil, sql.ErrNoRows
}

// DeleteStep removes the step without compacting sibling positions, the
// same as the real repository.
func (m *mockCaseRepository) DeleteStep(ctx context.Context, stepID int64) (bool, error) {
	for caseID, steps := range m.steps {
		for i, step := range steps {
			if step.ID == stepID {
				m.steps[caseID] = append(steps[:i], steps[i+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

// mockBugRepository implements secondary.BugRepository.
type mockBugRepository struct {
	secondary.BugRepository

	bugs    map[int64]*models.Bug
	history map[int64][]*models.BugHistory
	nextID  int64
}

func newMockBugRepository() *mockBugRepository {
	return &mockBugRepository{
		bugs:    make(map[int64]*models.Bug),
		history: make(map[int64][]*models.BugHistory),
		nextID:  1,
	}
}

func (m *mockBugRepository) Create(ctx context.Context, in secondary.BugInput, environmentID int64, modifiedBy string) (*models.Bug, error) {
	bug := &models.Bug{
		EnvironmentID: environmentID,
		Title:         *in.Title,
		Severity:      "MEDIUM",
		Status:        "OPEN",
	}
	if in.SystemID != nil {
		bug.SystemID = *in.SystemID
	}
	if in.Severity != nil {
		bug.Severity = *in.Severity
	}
	bug.ID = m.nextID
	m.nextID++
	bug.ModifiedBy = modifiedBy
	m.bugs[bug.ID] = bug
	return bug, nil
}

func (m *mockBugRepository) GetByID(ctx context.Context, id int64) (*models.Bug, error) {
	return m.bugs[id], nil
}

func (m *mockBugRepository) GetWithRelations(ctx context.Context, id int64) (*models.Bug, error) {
	bug := m.bugs[id]
	if bug != nil {
		bug.History = m.history[id]
	}
	return bug, nil
}

func (m *mockBugRepository) Update(ctx context.Context, id int64, in secondary.BugInput, modifiedBy string) (*models.Bug, error) {
	bug, ok := m.bugs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if in.Title != nil {
		bug.Title = *in.Title
	}
	if in.Severity != nil {
		bug.Severity = *in.Severity
	}
	if in.Status != nil {
		bug.Status = *in.Status
	}
	if in.RequirementIDs != nil {
		bug.Requirements = bug.Requirements[:0]
		for _, rid := range in.RequirementIDs {
			r := &models.Requirement{}
			r.ID = rid
			bug.Requirements = append(bug.Requirements, r)
		}
	}
	if in.FileIDs != nil {
		bug.Files = bug.Files[:0]
		for _, fid := range in.FileIDs {
			f := &models.File{}
			f.ID = fid
			bug.Files = append(bug.Files, f)
		}
	}
	bug.ModifiedBy = modifiedBy
	return bug, nil
}

func (m *mockBugRepository) AppendHistory(ctx context.Context, bugID int64, actor, summary string) (*models.BugHistory, error) {
	entry := &models.BugHistory{
		ID:      m.nextID,
		BugID:   bugID,
		Actor:   actor,
		Summary: summary,
	}
	m.nextID++
	m.history[bugID] = append(m.history[bugID], entry)
	return entry, nil
}

func (m *mockBugRepository) GetHistory(ctx context.Context, bugID int64) ([]*models.BugHistory, error) {
	return m.history[bugID], nil
}

// mockFileRepository implements secondary.FileRepository.
type mockFileRepository struct {
	secondary.FileRepository

	files  map[int64]*models.File
	nextID int64
}

func newMockFileRepository() *mockFileRepository {
	return &mockFileRepository{files: make(map[int64]*models.File), nextID: 1}
}

func (m *mockFileRepository) Create(ctx context.Context, in secondary.FileInput, environmentID int64, modifiedBy string) (*models.File, error) {
	f := &models.File{
		EnvironmentID: environmentID,
		Filename:      *in.Filename,
		Path:          *in.Path,
	}
	f.ID = m.nextID
	m.nextID++
	m.files[f.ID] = f
	return f, nil
}
