package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/primary"
	"github.com/example/uat/internal/ports/secondary"
)

// CaseServiceImpl implements the CaseService interface.
type CaseServiceImpl struct {
	uowFactory secondary.UnitOfWorkFactory
	logger     zerolog.Logger
}

// NewCaseService creates a new CaseService with injected dependencies.
func NewCaseService(uowFactory secondary.UnitOfWorkFactory, logger zerolog.Logger) *CaseServiceImpl {
	return &CaseServiceImpl{
		uowFactory: uowFactory,
		logger:     logger.With().Str("service", "case").Logger(),
	}
}

// CreateCase creates a new case with its association sets.
func (s *CaseServiceImpl) CreateCase(ctx context.Context, req primary.CreateCaseRequest) (*models.Case, error) {
	in := secondary.CaseInput{
		Code:        &req.Code,
		Title:       &req.Title,
		OperatorIDs: req.OperatorIDs,
		DroneIDs:    req.DroneIDs,
		UhubUserIDs: req.UhubUserIDs,
		UasZoneIDs:  req.UasZoneIDs,
		SystemIDs:   req.SystemIDs,
		SectionIDs:  req.SectionIDs,
	}
	if req.Description != "" {
		in.Description = &req.Description
	}

	var created *models.Case
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		created, err = uow.Cases().Create(ctx, in, req.EnvironmentID, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("code", created.Code).Int64("id", created.ID).Msg("case created")
	return created, nil
}

// GetCase retrieves a case by code, nil when absent.
func (s *CaseServiceImpl) GetCase(ctx context.Context, environmentID int64, code string) (*models.Case, error) {
	var c *models.Case
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		found, err := uow.Cases().GetByCode(ctx, code, environmentID)
		if err != nil || found == nil {
			return err
		}
		c, err = uow.Cases().GetWithRelations(ctx, found.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCases lists an environment's cases with associations.
func (s *CaseServiceImpl) ListCases(ctx context.Context, environmentID int64) ([]*models.Case, error) {
	var cases []*models.Case
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		cases, err = uow.Cases().GetAllWithRelations(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cases, nil
}

// UpdateCase applies a partial update.
func (s *CaseServiceImpl) UpdateCase(ctx context.Context, req primary.UpdateCaseRequest) (*models.Case, error) {
	var updated *models.Case
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		updated, err = uow.Cases().Update(ctx, req.CaseID, secondary.CaseInput{
			Code:        req.Code,
			Title:       req.Title,
			Description: req.Description,
			OperatorIDs: req.OperatorIDs,
			DroneIDs:    req.DroneIDs,
			UhubUserIDs: req.UhubUserIDs,
			UasZoneIDs:  req.UasZoneIDs,
			SystemIDs:   req.SystemIDs,
			SectionIDs:  req.SectionIDs,
		}, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCase removes a case and its steps, false when the id is unknown.
func (s *CaseServiceImpl) DeleteCase(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.Cases().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// AddStep appends a step to a case.
func (s *CaseServiceImpl) AddStep(ctx context.Context, req primary.AddStepRequest) (*models.Step, error) {
	var step *models.Step
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		step, err = uow.Cases().AddStep(ctx, req.CaseID, secondary.StepInput{
			Position:       req.Position,
			Action:         &req.Action,
			ExpectedResult: &req.ExpectedResult,
			RequirementIDs: req.RequirementIDs,
		}, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

// UpdateStep applies a partial update to one step.
func (s *CaseServiceImpl) UpdateStep(ctx context.Context, req primary.UpdateStepRequest) (*models.Step, error) {
	var step *models.Step
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		step, err = uow.Cases().UpdateStep(ctx, req.StepID, secondary.StepInput{
			Position:       req.Position,
			Action:         req.Action,
			ExpectedResult: req.ExpectedResult,
			RequirementIDs: req.RequirementIDs,
		}, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

// RemoveStep deletes one step, false when the id is unknown.
func (s *CaseServiceImpl) RemoveStep(ctx context.Context, stepID int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.Cases().DeleteStep(ctx, stepID)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// ReorderSteps rewrites a case's step order to match stepIDs. The list must
// name every step of the case exactly once. Positions are rewritten in two
// passes so the per-case position uniqueness never trips mid-way.
func (s *CaseServiceImpl) ReorderSteps(ctx context.Context, caseID int64, stepIDs []int64, actor string) ([]*models.Step, error) {
	var steps []*models.Step
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		current, err := uow.Cases().GetSteps(ctx, caseID)
		if err != nil {
			return err
		}
		if len(current) != len(stepIDs) {
			return fmt.Errorf("reorder must name all %d steps, got %d", len(current), len(stepIDs))
		}
		byID := make(map[int64]*models.Step, len(current))
		maxPosition := 0
		for _, step := range current {
			byID[step.ID] = step
			if step.Position > maxPosition {
				maxPosition = step.Position
			}
		}
		for _, id := range stepIDs {
			if _, ok := byID[id]; !ok {
				return fmt.Errorf("step %d does not belong to case %d", id, caseID)
			}
			delete(byID, id)
		}

		// First pass parks every step above the highest occupied position.
		// Deletions leave gaps, so len(stepIDs) is not a safe ceiling.
		for i, id := range stepIDs {
			offset := maxPosition + i + 1
			if _, err := uow.Cases().UpdateStep(ctx, id, secondary.StepInput{Position: &offset}, actor); err != nil {
				return err
			}
		}
		for i, id := range stepIDs {
			position := i + 1
			if _, err := uow.Cases().UpdateStep(ctx, id, secondary.StepInput{Position: &position}, actor); err != nil {
				return err
			}
		}

		steps, err = uow.Cases().GetSteps(ctx, caseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return steps, nil
}

var _ primary.CaseService = (*CaseServiceImpl)(nil)
