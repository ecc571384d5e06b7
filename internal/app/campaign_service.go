package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/primary"
	"github.com/example/uat/internal/ports/secondary"
)

// CampaignServiceImpl implements the CampaignService interface.
type CampaignServiceImpl struct {
	uowFactory secondary.UnitOfWorkFactory
	logger     zerolog.Logger
}

// NewCampaignService creates a new CampaignService with injected
// dependencies.
func NewCampaignService(uowFactory secondary.UnitOfWorkFactory, logger zerolog.Logger) *CampaignServiceImpl {
	return &CampaignServiceImpl{
		uowFactory: uowFactory,
		logger:     logger.With().Str("service", "campaign").Logger(),
	}
}

// CreateBlock creates a block of cases under a system.
func (s *CampaignServiceImpl) CreateBlock(ctx context.Context, req primary.CreateBlockRequest) (*models.Block, error) {
	var block *models.Block
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		block, err = uow.Blocks().Create(ctx, secondary.BlockInput{
			SystemID: &req.SystemID,
			Name:     &req.Name,
			CaseIDs:  req.CaseIDs,
		}, req.EnvironmentID, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// ListBlocks lists an environment's blocks.
func (s *CampaignServiceImpl) ListBlocks(ctx context.Context, environmentID int64) ([]*models.Block, error) {
	var blocks []*models.Block
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		blocks, err = uow.Blocks().GetAll(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// UpdateBlock applies a partial update to a block.
func (s *CampaignServiceImpl) UpdateBlock(ctx context.Context, req primary.UpdateBlockRequest) (*models.Block, error) {
	var block *models.Block
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		block, err = uow.Blocks().Update(ctx, req.BlockID, secondary.BlockInput{
			SystemID: req.SystemID,
			Name:     req.Name,
			CaseIDs:  req.CaseIDs,
		}, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// DeleteBlock removes a block, false when the id is unknown.
func (s *CampaignServiceImpl) DeleteBlock(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.Blocks().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// CreateCampaign creates a new campaign in DRAFT.
func (s *CampaignServiceImpl) CreateCampaign(ctx context.Context, req primary.CreateCampaignRequest) (*models.Campaign, error) {
	var created *models.Campaign
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		created, err = uow.Campaigns().Create(ctx, secondary.CampaignInput{
			SystemID: &req.SystemID,
			Code:     &req.Code,
			Title:    &req.Title,
			BlockIDs: req.BlockIDs,
		}, req.EnvironmentID, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("code", created.Code).Int64("id", created.ID).Msg("campaign created")
	return created, nil
}

// GetCampaign retrieves a campaign by code, nil when absent.
func (s *CampaignServiceImpl) GetCampaign(ctx context.Context, environmentID int64, code string) (*models.Campaign, error) {
	var c *models.Campaign
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		found, err := uow.Campaigns().GetByCode(ctx, code, environmentID)
		if err != nil || found == nil {
			return err
		}
		c, err = uow.Campaigns().GetWithRelations(ctx, found.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCampaigns lists an environment's campaigns with blocks and cases.
func (s *CampaignServiceImpl) ListCampaigns(ctx context.Context, environmentID int64) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		campaigns, err = uow.Campaigns().GetAllWithRelations(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

// UpdateCampaign applies a partial update. Status never changes here.
func (s *CampaignServiceImpl) UpdateCampaign(ctx context.Context, req primary.UpdateCampaignRequest) (*models.Campaign, error) {
	var updated *models.Campaign
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		updated, err = uow.Campaigns().Update(ctx, req.CampaignID, secondary.CampaignInput{
			SystemID: req.SystemID,
			Code:     req.Code,
			Title:    req.Title,
			BlockIDs: req.BlockIDs,
		}, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCampaign removes a campaign, false when the id is unknown. Fails
// while runs reference it.
func (s *CampaignServiceImpl) DeleteCampaign(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.Campaigns().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// TransitionStatus moves a campaign along the lifecycle, rejecting illegal
// moves.
func (s *CampaignServiceImpl) TransitionStatus(ctx context.Context, campaignID int64, to string, actor string) (*models.Campaign, error) {
	var updated *models.Campaign
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		current, err := uow.Campaigns().GetByID(ctx, campaignID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("campaign %d not found", campaignID)
		}
		if !models.CanTransitionCampaign(current.Status, to) {
			return fmt.Errorf("cannot transition campaign from %s to %s", current.Status, to)
		}
		updated, err = uow.Campaigns().Update(ctx, campaignID, secondary.CampaignInput{Status: &to}, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("id", campaignID).Str("status", to).Msg("campaign transitioned")
	return updated, nil
}

// StartRun snapshots a RUNNING campaign into a new run. Every case across
// the campaign's blocks gets one case run (once, even when a case appears
// in several blocks), and every step of those cases gets one step run.
func (s *CampaignServiceImpl) StartRun(ctx context.Context, campaignID int64, notes string, actor string) (*models.CampaignRun, error) {
	var run *models.CampaignRun
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		campaign, err := uow.Campaigns().GetWithRelations(ctx, campaignID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return fmt.Errorf("campaign %d not found", campaignID)
		}
		if campaign.Status != models.CampaignRunning {
			return fmt.Errorf("campaign %s is %s, only RUNNING campaigns can start a run", campaign.Code, campaign.Status)
		}

		in := secondary.CampaignRunInput{CampaignID: &campaignID}
		if notes != "" {
			in.Notes = &notes
		}
		created, err := uow.CampaignRuns().Create(ctx, in, campaign.EnvironmentID, actor)
		if err != nil {
			return err
		}

		seen := make(map[int64]bool)
		for _, block := range campaign.Blocks {
			for _, c := range block.Cases {
				if seen[c.ID] {
					continue
				}
				seen[c.ID] = true
				caseRun, err := uow.CampaignRuns().AddCaseRun(ctx, created.ID, c.ID, actor)
				if err != nil {
					return err
				}
				steps, err := uow.Cases().GetSteps(ctx, c.ID)
				if err != nil {
					return err
				}
				for _, step := range steps {
					if _, err := uow.CampaignRuns().AddStepRun(ctx, caseRun.ID, step.ID, actor); err != nil {
						return err
					}
				}
			}
		}

		run, err = uow.CampaignRuns().GetWithRelations(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("campaign_id", campaignID).Int64("run_id", run.ID).
		Int("case_runs", len(run.CaseRuns)).Msg("campaign run started")
	return run, nil
}

// GetRun retrieves a run with its full snapshot tree, nil when absent.
func (s *CampaignServiceImpl) GetRun(ctx context.Context, runID int64) (*models.CampaignRun, error) {
	var run *models.CampaignRun
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		run, err = uow.CampaignRuns().GetWithRelations(ctx, runID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns lists an environment's campaign runs.
func (s *CampaignServiceImpl) ListRuns(ctx context.Context, environmentID int64) ([]*models.CampaignRun, error) {
	var runs []*models.CampaignRun
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		runs, err = uow.CampaignRuns().GetAll(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// RecordStepResult records one step run's outcome.
func (s *CampaignServiceImpl) RecordStepResult(ctx context.Context, req primary.RecordStepResultRequest) (*models.StepRun, error) {
	in := secondary.StepRunInput{
		Result: &req.Result,
		FileID: req.FileID,
	}
	if req.Comment != "" {
		in.Comment = &req.Comment
	}

	var stepRun *models.StepRun
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		stepRun, err = uow.CampaignRuns().RecordStepResult(ctx, req.StepRunID, in, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stepRun, nil
}

// RecordCaseResult records one case run's overall outcome and stamps the
// executor.
func (s *CampaignServiceImpl) RecordCaseResult(ctx context.Context, caseRunID int64, result string, actor string) (*models.CaseRun, error) {
	var caseRun *models.CaseRun
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		caseRun, err = uow.CampaignRuns().RecordCaseResult(ctx, caseRunID, result, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return caseRun, nil
}

// FinishRun closes a run with the given status and stamps finished_at.
func (s *CampaignServiceImpl) FinishRun(ctx context.Context, runID int64, status string, actor string) (*models.CampaignRun, error) {
	var run *models.CampaignRun
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		run, err = uow.CampaignRuns().Finish(ctx, runID, status, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("run_id", runID).Str("status", status).Msg("campaign run finished")
	return run, nil
}

var _ primary.CampaignService = (*CampaignServiceImpl)(nil)
