package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/primary"
	"github.com/example/uat/internal/ports/secondary"
)

// ReferenceServiceImpl implements the ReferenceService interface. It is a
// thin orchestration layer; the repositories carry the validation.
type ReferenceServiceImpl struct {
	uowFactory secondary.UnitOfWorkFactory
	logger     zerolog.Logger
}

// NewReferenceService creates a new ReferenceService with injected
// dependencies.
func NewReferenceService(uowFactory secondary.UnitOfWorkFactory, logger zerolog.Logger) *ReferenceServiceImpl {
	return &ReferenceServiceImpl{
		uowFactory: uowFactory,
		logger:     logger.With().Str("service", "reference").Logger(),
	}
}

func (s *ReferenceServiceImpl) CreateEnvironment(ctx context.Context, name, description, actor string) (*models.Environment, error) {
	in := secondary.EnvironmentInput{Name: &name}
	if description != "" {
		in.Description = &description
	}
	var env *models.Environment
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		env, err = uow.Environments().Create(ctx, in, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("name", env.Name).Int64("id", env.ID).Msg("environment created")
	return env, nil
}

func (s *ReferenceServiceImpl) GetEnvironment(ctx context.Context, name string) (*models.Environment, error) {
	var env *models.Environment
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		env, err = uow.Environments().GetByName(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

func (s *ReferenceServiceImpl) ListEnvironments(ctx context.Context) ([]*models.Environment, error) {
	var envs []*models.Environment
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		envs, err = uow.Environments().GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return envs, nil
}

func (s *ReferenceServiceImpl) DeleteEnvironment(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.Environments().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *ReferenceServiceImpl) EnsureSystem(ctx context.Context, name, actor string) (*models.System, bool, error) {
	var (
		system  *models.System
		created bool
	)
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		system, created, err = uow.Systems().GetOrCreate(ctx, name, actor)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return system, created, nil
}

func (s *ReferenceServiceImpl) ListSystems(ctx context.Context) ([]*models.System, error) {
	var systems []*models.System
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		systems, err = uow.Systems().GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return systems, nil
}

func (s *ReferenceServiceImpl) EnsureSection(ctx context.Context, name, actor string) (*models.Section, bool, error) {
	var (
		section *models.Section
		created bool
	)
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		section, created, err = uow.Sections().GetOrCreate(ctx, name, actor)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return section, created, nil
}

func (s *ReferenceServiceImpl) ListSections(ctx context.Context) ([]*models.Section, error) {
	var sections []*models.Section
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		sections, err = uow.Sections().GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sections, nil
}

func (s *ReferenceServiceImpl) ListReasons(ctx context.Context) ([]*models.Reason, error) {
	var reasons []*models.Reason
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		reasons, err = uow.Reasons().GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reasons, nil
}

func (s *ReferenceServiceImpl) CreateEmail(ctx context.Context, environmentID int64, address, actor string) (*models.Email, error) {
	var email *models.Email
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		email, err = uow.Emails().Create(ctx, secondary.EmailInput{Address: &address}, environmentID, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return email, nil
}

func (s *ReferenceServiceImpl) ListEmails(ctx context.Context, environmentID int64) ([]*models.Email, error) {
	var emails []*models.Email
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		emails, err = uow.Emails().GetAll(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (s *ReferenceServiceImpl) DeleteEmail(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.Emails().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *ReferenceServiceImpl) CreateOperator(ctx context.Context, req primary.CreateOperatorRequest) (*models.Operator, error) {
	in := secondary.OperatorInput{
		EmailID: &req.EmailID,
		Name:    &req.Name,
	}
	if req.EasaID != "" {
		in.EasaID = &req.EasaID
	}
	if req.Phone != "" {
		in.Phone = &req.Phone
	}
	var operator *models.Operator
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		operator, err = uow.Operators().Create(ctx, in, req.EnvironmentID, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return operator, nil
}

func (s *ReferenceServiceImpl) ListOperators(ctx context.Context, environmentID int64) ([]*models.Operator, error) {
	var operators []*models.Operator
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		operators, err = uow.Operators().GetAll(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return operators, nil
}

func (s *ReferenceServiceImpl) DeleteOperator(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.Operators().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *ReferenceServiceImpl) CreateDrone(ctx context.Context, req primary.CreateDroneRequest) (*models.Drone, error) {
	in := secondary.DroneInput{
		OperatorID: &req.OperatorID,
		Name:       &req.Name,
	}
	if req.SerialNumber != "" {
		in.SerialNumber = &req.SerialNumber
	}
	if req.Manufacturer != "" {
		in.Manufacturer = &req.Manufacturer
	}
	if req.Model != "" {
		in.Model = &req.Model
	}
	var drone *models.Drone
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		drone, err = uow.Drones().Create(ctx, in, req.EnvironmentID, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return drone, nil
}

func (s *ReferenceServiceImpl) ListDrones(ctx context.Context, environmentID int64) ([]*models.Drone, error) {
	var drones []*models.Drone
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		drones, err = uow.Drones().GetAll(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return drones, nil
}

func (s *ReferenceServiceImpl) DeleteDrone(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.Drones().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *ReferenceServiceImpl) CreateUhubOrg(ctx context.Context, environmentID int64, name, externalID, actor string) (*models.UhubOrg, error) {
	in := secondary.UhubOrgInput{Name: &name}
	if externalID != "" {
		in.ExternalID = &externalID
	}
	var org *models.UhubOrg
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		org, err = uow.UhubOrgs().Create(ctx, in, environmentID, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (s *ReferenceServiceImpl) ListUhubOrgs(ctx context.Context, environmentID int64) ([]*models.UhubOrg, error) {
	var orgs []*models.UhubOrg
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		orgs, err = uow.UhubOrgs().GetAll(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (s *ReferenceServiceImpl) DeleteUhubOrg(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.UhubOrgs().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *ReferenceServiceImpl) CreateUhubUser(ctx context.Context, req primary.CreateUhubUserRequest) (*models.UhubUser, error) {
	in := secondary.UhubUserInput{
		UhubOrgID: &req.UhubOrgID,
		Username:  &req.Username,
	}
	if req.Email != "" {
		in.Email = &req.Email
	}
	if req.Role != "" {
		in.Role = &req.Role
	}
	var user *models.UhubUser
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		user, err = uow.UhubUsers().Create(ctx, in, req.EnvironmentID, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ReferenceServiceImpl) ListUhubUsers(ctx context.Context, environmentID int64) ([]*models.UhubUser, error) {
	var users []*models.UhubUser
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		users, err = uow.UhubUsers().GetAll(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *ReferenceServiceImpl) DeleteUhubUser(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.UhubUsers().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *ReferenceServiceImpl) CreateZone(ctx context.Context, req primary.CreateZoneRequest) (*models.UasZone, error) {
	in := secondary.UasZoneInput{
		Name:        &req.Name,
		AreaType:    &req.AreaType,
		RadiusM:     req.RadiusM,
		WidthM:      req.WidthM,
		LowerLimitM: req.LowerLimitM,
		UpperLimitM: req.UpperLimitM,
		OrgIDs:      req.OrgIDs,
		ReasonIDs:   req.ReasonIDs,
	}
	var zone *models.UasZone
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		zone, err = uow.UasZones().Create(ctx, in, req.EnvironmentID, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *ReferenceServiceImpl) ListZones(ctx context.Context, environmentID int64) ([]*models.UasZone, error) {
	var zones []*models.UasZone
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		zones, err = uow.UasZones().GetAllWithRelations(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (s *ReferenceServiceImpl) UpdateZone(ctx context.Context, req primary.UpdateZoneRequest) (*models.UasZone, error) {
	var zone *models.UasZone
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		zone, err = uow.UasZones().Update(ctx, req.ZoneID, secondary.UasZoneInput{
			Name:        req.Name,
			AreaType:    req.AreaType,
			RadiusM:     req.RadiusM,
			WidthM:      req.WidthM,
			LowerLimitM: req.LowerLimitM,
			UpperLimitM: req.UpperLimitM,
			OrgIDs:      req.OrgIDs,
			ReasonIDs:   req.ReasonIDs,
		}, req.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *ReferenceServiceImpl) DeleteZone(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.UasZones().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

var _ primary.ReferenceService = (*ReferenceServiceImpl)(nil)
