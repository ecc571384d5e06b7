package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/primary"
	"github.com/example/uat/internal/ports/secondary"
)

// BugServiceImpl implements the BugService interface. Every mutation
// appends a history entry naming the acting user.
type BugServiceImpl struct {
	uowFactory secondary.UnitOfWorkFactory
	logger     zerolog.Logger
}

// NewBugService creates a new BugService with injected dependencies.
func NewBugService(uowFactory secondary.UnitOfWorkFactory, logger zerolog.Logger) *BugServiceImpl {
	return &BugServiceImpl{
		uowFactory: uowFactory,
		logger:     logger.With().Str("service", "bug").Logger(),
	}
}

// ReportBug files a new bug and writes its opening history entry.
func (s *BugServiceImpl) ReportBug(ctx context.Context, req primary.ReportBugRequest) (*models.Bug, error) {
	in := secondary.BugInput{
		SystemID:       &req.SystemID,
		CampaignRunID:  req.CampaignRunID,
		Title:          &req.Title,
		RequirementIDs: req.RequirementIDs,
	}
	if req.Description != "" {
		in.Description = &req.Description
	}
	if req.Severity != "" {
		in.Severity = &req.Severity
	}

	var bug *models.Bug
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		created, err := uow.Bugs().Create(ctx, in, req.EnvironmentID, req.Actor)
		if err != nil {
			return err
		}
		summary := fmt.Sprintf("reported with severity %s", created.Severity)
		if _, err := uow.Bugs().AppendHistory(ctx, created.ID, req.Actor, summary); err != nil {
			return err
		}
		bug, err = uow.Bugs().GetWithRelations(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("id", bug.ID).Str("severity", bug.Severity).Msg("bug reported")
	return bug, nil
}

// GetBug retrieves a bug with its associations and history, nil when absent.
func (s *BugServiceImpl) GetBug(ctx context.Context, id int64) (*models.Bug, error) {
	var bug *models.Bug
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		bug, err = uow.Bugs().GetWithRelations(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bug, nil
}

// ListBugs lists an environment's bugs with associations.
func (s *BugServiceImpl) ListBugs(ctx context.Context, environmentID int64) ([]*models.Bug, error) {
	var bugs []*models.Bug
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		bugs, err = uow.Bugs().GetAllWithRelations(ctx, environmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bugs, nil
}

// UpdateBug applies a partial update and records what changed.
func (s *BugServiceImpl) UpdateBug(ctx context.Context, req primary.UpdateBugRequest) (*models.Bug, error) {
	var bug *models.Bug
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		before, err := uow.Bugs().GetByID(ctx, req.BugID)
		if err != nil {
			return err
		}
		if before == nil {
			return fmt.Errorf("bug %d not found", req.BugID)
		}

		var changes []string
		if req.Title != nil && *req.Title != before.Title {
			changes = append(changes, "title changed")
		}
		if req.Description != nil {
			changes = append(changes, "description changed")
		}
		if req.Severity != nil && *req.Severity != before.Severity {
			changes = append(changes, fmt.Sprintf("severity %s to %s", before.Severity, *req.Severity))
		}
		if req.Status != nil && *req.Status != before.Status {
			changes = append(changes, fmt.Sprintf("status %s to %s", before.Status, *req.Status))
		}

		updated, err := uow.Bugs().Update(ctx, req.BugID, secondary.BugInput{
			Title:       req.Title,
			Description: req.Description,
			Severity:    req.Severity,
			Status:      req.Status,
		}, req.Actor)
		if err != nil {
			return err
		}

		if len(changes) > 0 {
			if _, err := uow.Bugs().AppendHistory(ctx, req.BugID, req.Actor, strings.Join(changes, ", ")); err != nil {
				return err
			}
		}

		bug, err = uow.Bugs().GetWithRelations(ctx, updated.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bug, nil
}

// DeleteBug removes a bug and its history, false when the id is unknown.
func (s *BugServiceImpl) DeleteBug(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		deleted, err = uow.Bugs().Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// LinkRequirement adds one requirement to the bug's affected set. Linking
// an already-linked requirement is a no-op.
func (s *BugServiceImpl) LinkRequirement(ctx context.Context, bugID, requirementID int64, actor string) (*models.Bug, error) {
	var bug *models.Bug
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		current, err := uow.Bugs().GetWithRelations(ctx, bugID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("bug %d not found", bugID)
		}

		ids := make([]int64, 0, len(current.Requirements)+1)
		for _, r := range current.Requirements {
			if r.ID == requirementID {
				bug = current
				return nil
			}
			ids = append(ids, r.ID)
		}
		ids = append(ids, requirementID)

		if _, err := uow.Bugs().Update(ctx, bugID, secondary.BugInput{RequirementIDs: ids}, actor); err != nil {
			return err
		}
		summary := fmt.Sprintf("linked requirement %d", requirementID)
		if _, err := uow.Bugs().AppendHistory(ctx, bugID, actor, summary); err != nil {
			return err
		}
		bug, err = uow.Bugs().GetWithRelations(ctx, bugID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bug, nil
}

// UnlinkRequirement removes one requirement from the bug's affected set.
// Unlinking an absent requirement is a no-op.
func (s *BugServiceImpl) UnlinkRequirement(ctx context.Context, bugID, requirementID int64, actor string) (*models.Bug, error) {
	var bug *models.Bug
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		current, err := uow.Bugs().GetWithRelations(ctx, bugID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("bug %d not found", bugID)
		}

		ids := make([]int64, 0, len(current.Requirements))
		found := false
		for _, r := range current.Requirements {
			if r.ID == requirementID {
				found = true
				continue
			}
			ids = append(ids, r.ID)
		}
		if !found {
			bug = current
			return nil
		}

		if _, err := uow.Bugs().Update(ctx, bugID, secondary.BugInput{RequirementIDs: ids}, actor); err != nil {
			return err
		}
		summary := fmt.Sprintf("unlinked requirement %d", requirementID)
		if _, err := uow.Bugs().AppendHistory(ctx, bugID, actor, summary); err != nil {
			return err
		}
		bug, err = uow.Bugs().GetWithRelations(ctx, bugID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bug, nil
}

// AttachFile registers an attachment record and links it to the bug.
func (s *BugServiceImpl) AttachFile(ctx context.Context, req primary.AttachFileRequest) (*models.Bug, error) {
	var bug *models.Bug
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		current, err := uow.Bugs().GetWithRelations(ctx, req.BugID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("bug %d not found", req.BugID)
		}

		ownerType := "bug"
		in := secondary.FileInput{
			OwnerType: &ownerType,
			Filename:  &req.Filename,
			Path:      &req.Path,
			SizeBytes: &req.SizeBytes,
		}
		if req.MimeType != "" {
			in.MimeType = &req.MimeType
		}
		file, err := uow.Files().Create(ctx, in, current.EnvironmentID, req.Actor)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(current.Files)+1)
		for _, f := range current.Files {
			ids = append(ids, f.ID)
		}
		ids = append(ids, file.ID)
		if _, err := uow.Bugs().Update(ctx, req.BugID, secondary.BugInput{FileIDs: ids}, req.Actor); err != nil {
			return err
		}
		summary := fmt.Sprintf("attached file %s", req.Filename)
		if _, err := uow.Bugs().AppendHistory(ctx, req.BugID, req.Actor, summary); err != nil {
			return err
		}
		bug, err = uow.Bugs().GetWithRelations(ctx, req.BugID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bug, nil
}

// GetHistory returns the bug's change log, oldest first.
func (s *BugServiceImpl) GetHistory(ctx context.Context, bugID int64) ([]*models.BugHistory, error) {
	var history []*models.BugHistory
	err := withUnitOfWork(ctx, s.uowFactory, func(uow secondary.UnitOfWork) error {
		var err error
		history, err = uow.Bugs().GetHistory(ctx, bugID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

var _ primary.BugService = (*BugServiceImpl)(nil)
