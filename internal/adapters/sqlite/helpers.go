// Package sqlite contains the SQLite repositories for the UAT ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the querier shared by *sql.DB and *sql.Tx. Repositories are bound
// to one at construction: directly to the pool for standalone reads, or to a
// transaction when owned by a Unit of Work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// replaceSet synchronizes a join table wholesale: the prior member set for
// the owner is deleted and the supplied IDs inserted. A dangling member ID
// surfaces as the store's foreign-key error.
func replaceSet(ctx context.Context, q DBTX, table, ownerCol, memberCol string, ownerID int64, memberIDs []int64) error {
	if _, err := q.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, ownerCol), ownerID,
	); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	for _, memberID := range memberIDs {
		if _, err := q.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?)", table, ownerCol, memberCol),
			ownerID, memberID,
		); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	return nil
}

// memberIDs reads the member column of a join table for one owner.
func memberIDs(ctx context.Context, q DBTX, table, ownerCol, memberCol string, ownerID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", memberCol, table, ownerCol), ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// exists reports whether a row with the given id is present in table.
func exists(ctx context.Context, q DBTX, table string, id int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table), id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return true, nil
}

// nullString wraps a non-empty string for an optional column.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullFloat wraps an optional float for an optional column.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// nullInt wraps an optional id for an optional FK column.
func nullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// touch stamps updated_at and modified_by on an entity row.
func touch(ctx context.Context, q DBTX, table string, id int64, modifiedBy string) error {
	_, err := q.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET updated_at = CURRENT_TIMESTAMP, modified_by = ? WHERE id = ?", table),
		modifiedBy, id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch %s: %w", table, err)
	}
	return nil
}
