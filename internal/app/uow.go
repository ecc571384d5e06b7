package app

import (
	"context"

	"github.com/example/uat/internal/ports/secondary"
)

// withUnitOfWork runs fn inside a fresh unit of work: commit on success,
// rollback on error, Close guaranteed on every path. Services use one unit
// of work per operation.
func withUnitOfWork(ctx context.Context, factory secondary.UnitOfWorkFactory, fn func(secondary.UnitOfWork) error) error {
	uow, err := factory.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Close()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit()
}
