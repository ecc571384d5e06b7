package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/secondary"
)

// FileRepository implements secondary.FileRepository. Each record gets a
// uuid-based stored name so user filenames never collide on disk.
type FileRepository struct {
	q DBTX
}

// NewFileRepository creates a new file repository bound to q.
func NewFileRepository(q DBTX) *FileRepository {
	return &FileRepository{q: q}
}

const fileColumns = "id, environment_id, owner_type, filename, stored_name, path, mime_type, size_bytes, created_at, updated_at, modified_by"

func scanFile(row interface{ Scan(...any) error }) (*models.File, error) {
	var f models.File
	err := row.Scan(&f.ID, &f.EnvironmentID, &f.OwnerType, &f.Filename, &f.StoredName,
		&f.Path, &f.MimeType, &f.SizeBytes, &f.CreatedAt, &f.UpdatedAt, &f.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByID retrieves a file record, nil if absent.
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	f, err := scanFile(r.q.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return f, nil
}

// GetByFilename retrieves the most recent record with the user-supplied
// filename within an environment, nil if absent.
func (r *FileRepository) GetByFilename(ctx context.Context, filename string, environmentID int64) (*models.File, error) {
	f, err := scanFile(r.q.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE filename = ? AND environment_id = ? ORDER BY id DESC LIMIT 1", filename, environmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file by filename: %w", err)
	}
	return f, nil
}

// GetAll lists the file records of one environment, newest first.
func (r *FileRepository) GetAll(ctx context.Context, environmentID int64) ([]*models.File, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE environment_id = ? ORDER BY id DESC", environmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []*models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Create inserts a new file record. The stored name is generated from a
// fresh uuid plus the original extension.
func (r *FileRepository) Create(ctx context.Context, in secondary.FileInput, environmentID int64, modifiedBy string) (*models.File, error) {
	if in.Filename == nil || *in.Filename == "" {
		return nil, &ValidationError{Field: "filename", Reason: "filename is required"}
	}
	if in.OwnerType == nil || *in.OwnerType == "" {
		return nil, &ValidationError{Field: "owner_type", Reason: "owner type is required"}
	}
	if in.Path == nil || *in.Path == "" {
		return nil, &ValidationError{Field: "path", Reason: "path is required"}
	}

	mimeType := "application/octet-stream"
	if in.MimeType != nil && *in.MimeType != "" {
		mimeType = *in.MimeType
	}
	var size int64
	if in.SizeBytes != nil {
		size = *in.SizeBytes
	}
	storedName := uuid.NewString() + filepath.Ext(*in.Filename)

	res, err := r.q.ExecContext(ctx,
		"INSERT INTO files (environment_id, owner_type, filename, stored_name, path, mime_type, size_bytes, modified_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		environmentID, *in.OwnerType, *in.Filename, storedName, *in.Path, mimeType, size, modifiedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

// Delete removes a file record. False when the id does not exist.
func (r *FileRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

var _ secondary.FileRepository = (*FileRepository)(nil)
