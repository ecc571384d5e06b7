package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// BlockRepository implements secondary.BlockRepository.
type BlockRepository struct {
	q DBTX
}

// NewBlockRepository creates a new block repository bound to q.
func NewBlockRepository(q DBTX) *BlockRepository {
	return &BlockRepository{q: q}
}

const blockColumns = "id, environment_id, system_id, name, created_at, updated_at, modified_by"

func scanBlock(row interface{ Scan(...any) error }) (*models.Block, error) {
	var b models.Block
	err := row.Scan(&b.ID, &b.EnvironmentID, &b.SystemID, &b.Name,
		&b.CreatedAt, &b.UpdatedAt, &b.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByID retrieves a block, nil if absent.
func (r *BlockRepository) GetByID(ctx context.Context, id int64) (*models.Block, error) {
	b, err := scanBlock(r.q.QueryRowContext(ctx,
		"SELECT "+blockColumns+" FROM blocks WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get block: %w", err)
	}
	return b, nil
}

// GetByName retrieves a block by name within an environment, nil if absent.
func (r *BlockRepository) GetByName(ctx context.Context, name string, environmentID int64) (*models.Block, error) {
	b, err := scanBlock(r.q.QueryRowContext(ctx,
		"SELECT "+blockColumns+" FROM blocks WHERE name = ? AND environment_id = ?", name, environmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get block by name: %w", err)
	}
	return b, nil
}

// GetAll lists the blocks of one environment ordered by name.
func (r *BlockRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.Block, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+blockColumns+" FROM blocks WHERE environment_id = ? ORDER BY name", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*models.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// GetWithRelations retrieves a block with its system and member cases.
func (r *BlockRepository) GetWithRelations(ctx context.Context, id int64) (*models.Block, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil || b == nil {
		return b, err
	}
	return b, r.loadRelations(ctx, b)
}

func (r *BlockRepository) loadRelations(ctx context.Context, b *models.Block) error {
	system, err := NewSystemRepository(r.q).GetByID(ctx, b.SystemID)
	if err != nil {
		return err
	}
	b.System = system

	caseIDs, err := memberIDs(ctx, r.q, "block_cases", "block_id", "case_id", b.ID)
	if err != nil {
		return err
	}
	caseRepo := NewCaseRepository(r.q)
	b.Cases = nil
	for _, caseID := range caseIDs {
		c, err := caseRepo.GetByID(ctx, caseID)
		if err != nil {
			return err
		}
		b.Cases = append(b.Cases, c)
	}
	return nil
}

// Create inserts a new block and its case set.
func (r *BlockRepository) Create(ctx context.Context, in secondary.BlockInput, environmentID int64, modifiedBy string) (*models.Block, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}
	if in.SystemID == nil {
		return nil, &ValidationError{Field: "system_id", Reason: "block must belong to a system"}
	}

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO blocks (environment_id, system_id, name, modified_by) VALUES (?, ?, ?, ?)",
		environmentID, *in.SystemID, *in.Name, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create block: %w", err)
	}
	id, _ := res.LastInsertId()

	if in.CaseIDs != nil {
		if err := replaceSet(ctx, r.q, "block_cases", "block_id", "case_id", id, in.CaseIDs); err != nil {
			return nil, err
		}
	}
	return r.GetWithRelations(ctx, id)
}

// Update applies a partial update; a present CaseIDs slice replaces the
// member set wholesale.
func (r *BlockRepository) Update(ctx context.Context, id int64, in secondary.BlockInput, modifiedBy string) (*models.Block, error) {
	ok, err := exists(ctx, r.q, "blocks", id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "block", ID: id}
	}

	query := "UPDATE blocks SET updated_at = CURRENT_TIMESTAMP, modified_by = ?"
	args := []any{modifiedBy}
	if in.SystemID != nil {
		query += ", system_id = ?"
		args = append(args, *in.SystemID)
	}
	if in.Name != nil {
		query += ", name = ?"
		args = append(args, *in.Name)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update block: %w", err)
	}

	if in.CaseIDs != nil {
		if err := replaceSet(ctx, r.q, "block_cases", "block_id", "case_id", id, in.CaseIDs); err != nil {
			return nil, err
		}
	}
	return r.GetWithRelations(ctx, id)
}

// Delete removes a block and its join rows. False when the id does not
// exist.
func (r *BlockRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM blocks WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.BlockRepository = (*BlockRepository)(nil)
