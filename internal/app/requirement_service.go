package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/primary"
	"github.com/example/uat/internal/ports/secondary"
)

// RequirementServiceImpl implements the RequirementService interface.
type RequirementServiceImpl struct {
	uowFactory secondary.UnitOfWorkFactory
	logger     zerolog.Logger
}

// NewRequirementService creates a new RequirementService with injected
// dependencies.
func NewRequirementService(uowFactory secondary.UnitOfWorkFactory, logger zerolog.Logger) *RequirementServiceImpl {
	return &RequirementServiceImpl{
		uowFactory: uowFactory,
		logger:     logger.With().Str("service", "requirement").Logger(),
	}
}

// CreateRequirement creates a new requirement with its system and section
// coverage.
func (s *RequirementServiceImpl) CreateRequirement(ctx context.Context, req primary.CreateRequirementRequest) (*models.Requirement, error) {
	var created *models.Requirement
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		created, err = uow.Requirements().Create(ctx, secondary.RequirementInput{
			Code:       &req.Code,
			Definition: &req.Definition,
			SystemIDs:  req.SystemIDs,
			SectionIDs: req.SectionIDs,
		}, req.EnvironmentID, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("code", created.Code).Int64("id", created.ID).Msg("requirement created")
	return created, nil
}

// GetRequirement retrieves a requirement by code, nil when absent.
func (s *RequirementServiceImpl) GetRequirement(ctx context.Context, environmentID int64, code string) (*models.Requirement, error) {
	var req *models.Requirement
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		found, err := uow.Requirements().GetByCode(ctx, code, environmentID)
		if err != nil || found == nil {
			return err
		}
		req, err = uow.Requirements().GetWithRelations(ctx, found.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ListRequirements lists an environment's requirements with associations.
func (s *RequirementServiceImpl) ListRequirements(ctx context.Context, environmentID int64) ([]*models.Requirement, error) {
	var reqs []*models.Requirement
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		reqs, err = uow.Requirements().GetAllWithRelations(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// UpdateRequirement applies a partial update.
func (s *RequirementServiceImpl) UpdateRequirement(ctx context.Context, req primary.UpdateRequirementRequest) (*models.Requirement, error) {
	var updated *models.Requirement
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		updated, err = uow.Requirements().Update(ctx, req.RequirementID, secondary.RequirementInput{
			Code:       req.Code,
			Definition: req.Definition,
			SystemIDs:  req.SystemIDs,
			SectionIDs: req.SectionIDs,
		}, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRequirement removes a requirement, false when the id is unknown.
func (s *RequirementServiceImpl) DeleteRequirement(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.Requirements().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

var _ primary.RequirementService = (*RequirementServiceImpl)(nil)
