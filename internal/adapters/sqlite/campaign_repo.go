package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// CampaignRepository implements secondary.CampaignRepository. Status
// transition rules are enforced by the service layer; the repository only
// rejects values outside the status set.
type CampaignRepository struct {
	q DBTX
}

// NewCampaignRepository creates a new campaign repository bound to q.
func NewCampaignRepository(q DBTX) *CampaignRepository {
	return &CampaignRepository{q: q}
}

const campaignColumns = "id, environment_id, system_id, code, title, status, created_at, updated_at, modified_by"

func scanCampaign(row interface{ Scan(...any) error }) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(&c.ID, &c.EnvironmentID, &c.SystemID, &c.Code, &c.Title, &c.Status,
		&c.CreatedAt, &c.UpdatedAt, &c.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func validCampaignStatus(status string) bool {
	for _, s := range models.CampaignStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// GetByID retrieves a campaign, nil if absent.
func (r *CampaignRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	c, err := scanCampaign(r.q.QueryRowContext(ctx,
		"SELECT "+campaignColumns+" FROM campaigns WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return c, nil
}

// GetByCode retrieves a campaign by code within an environment, nil if
// absent.
func (r *CampaignRepository) GetByCode(ctx context.Context, code string, environmentID int64) (*models.Campaign, error) {
	c, err := scanCampaign(r.q.QueryRowContext(ctx,
		"SELECT "+campaignColumns+" FROM campaigns WHERE code = ? AND environment_id = ?", code, environmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign by code: %w", err)
	}
	return c, nil
}

// GetAll lists the campaigns of one environment ordered by code.
func (r *CampaignRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.Campaign, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+campaignColumns+" FROM campaigns WHERE environment_id = ? ORDER BY code", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// GetWithRelations retrieves a campaign with its system and blocks, each
// block carrying its member cases.
func (r *CampaignRepository) GetWithRelations(ctx context.Context, id int64) (*models.Campaign, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil || c == nil {
		return c, err
	}
	return c, r.loadRelations(ctx, c)
}

// GetAllWithRelations lists the campaigns of one environment with
// associations.
func (r *CampaignRepository) GetAllWithRelations(ctx context.Context, environmentID int64) ([]*models.Campaign, error) {
	campaigns, err := r.GetAll(ctx, environmentID)
	if err != nil {
		return nil, err
	}
	for _, c := range campaigns {
		if err := r.loadRelations(ctx, c); err != nil {
			return nil, err
		}
	}
	return campaigns, nil
}

func (r *CampaignRepository) loadRelations(ctx context.Context, c *models.Campaign) error {
	system, err := NewSystemRepository(r.q).GetByID(ctx, c.SystemID)
	if err != nil {
		return err
	}
	c.System = system

	blockIDs, err := memberIDs(ctx, r.q, "campaign_blocks", "campaign_id", "block_id", c.ID)
	if err != nil {
		return err
	}
	blockRepo := NewBlockRepository(r.q)
	c.Blocks = nil
	for _, blockID := range blockIDs {
		b, err := blockRepo.GetWithRelations(ctx, blockID)
		if err != nil {
			return err
		}
		c.Blocks = append(c.Blocks, b)
	}
	return nil
}

// Create inserts a new campaign in DRAFT status unless the input names
// another valid status.
func (r *CampaignRepository) Create(ctx context.Context, in secondary.CampaignInput, environmentID int64, modifiedBy string) (*models.Campaign, error) {
	if in.Code == nil || *in.Code == "" {
		return nil, &ValidationError{Field: "code", Reason: "code is required"}
	}
	if in.Title == nil || *in.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "title is required"}
	}
	if in.SystemID == nil {
		return nil, &ValidationError{Field: "system_id", Reason: "campaign must belong to a system"}
	}
	status := models.CampaignDraft
	if in.Status != nil {
		if !validCampaignStatus(*in.Status) {
			return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", *in.Status)}
		}
		status = *in.Status
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO campaigns (environment_id, system_id, code, title, status, modified_by) VALUES (?, ?, ?, ?, ?, ?)",
		environmentID, *in.SystemID, *in.Code, *in.Title, status, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	id, _ := res.LastInsertId()

	if in.BlockIDs != nil {
		if err := replaceSet(ctx, r.q, "campaign_blocks", "campaign_id", "block_id", id, in.BlockIDs); err != nil {
			return nil, err
		}
	}
	return r.GetWithRelations(ctx, id)
}

// Update applies a partial update; a present BlockIDs slice replaces the
// block set wholesale.
func (r *CampaignRepository) Update(ctx context.Context, id int64, in secondary.CampaignInput, modifiedBy string) (*models.Campaign, error) {
	ok, err := exists(ctx, r.q, "campaigns", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "campaign", ID: id}
	}
	if in.Status != nil && !validCampaignStatus(*in.Status) {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", *in.Status)}
	}

	query := "UPDATE campaigns SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.SystemID != nil {
		query += ", system_id = ?"
		args = append(args, *in.SystemID)
	}
	if in.Code != nil {
		query += ", code = ?"
		args = append(args, *in.Code)
	}
	if in.Title != nil {
		query += ", title = ?"
		args = append(args, *in.Title)
	}
	if in.Status != nil {
		query += ", status = ?"
		args = append(args, *in.Status)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	if in.BlockIDs != nil {
		if err := replaceSet(ctx, r.q, "campaign_blocks", "campaign_id", "block_id", id, in.BlockIDs); err != nil {
			return nil, err
		}
	}
	return r.GetWithRelations(ctx, id)
}

// Delete removes a campaign and its join rows. False when the id does not
// exist; fails with the store's integrity error while runs reference it.
func (r *CampaignRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM campaigns WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.CampaignRepository = (*CampaignRepository)(nil)
