package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/example/uat/internal/adapters/sqlite"
	"github.com/example/uat/internal/ports/secondary"
)

func TestUnitOfWorkRollbackDiscardsWrites(t *testing.T) {
	database := setupTestDB(t)
	factory := sqlite.NewSessionFactory(database)
	ctx := context.Background()

	uow, err := sqlite.NewUnitOfWork(ctx, factory.Pooled())
	if err != nil {
		t.Fatalf("NewUnitOfWork failed: %v", err)
	}
	if _, err := uow.Environments().Create(ctx, secondary.EnvironmentInput{Name: strPtr("staging")}, "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := uow.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if err := uow.Close(); err != nil {
		t.Fatalf("Close after Rollback failed: %v", err)
	}

	env, err := sqlite.NewEnvironmentRepository(database).GetByName(ctx, "staging")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if env != nil {
		t.Errorf("expected the write discarded, got %+v", env)
	}
}

func TestUnitOfWorkCommitIsAtomic(t *testing.T) {
	database := setupTestDB(t)
	factory := sqlite.NewSessionFactory(database)
	ctx := context.Background()

	err := sqlite.WithUnitOfWork(ctx, factory, func(uow *sqlite.UnitOfWork) error {
		env, err := uow.Environments().Create(ctx, secondary.EnvironmentInput{Name: strPtr("staging")}, "alice")
		if err != nil {
			return err
		}
		email, err := uow.Emails().Create(ctx, secondary.EmailInput{Address: strPtr("ops@aerotest.example")}, env.ID, "alice")
		if err != nil {
			return err
		}
		_, err = uow.Operators().Create(ctx, secondary.OperatorInput{
			EmailID: int64Ptr(email.ID),
			Name:    strPtr("AeroTest Ltd"),
		}, env.ID, "alice")
		return err
	})
	if err != nil {
		t.Fatalf("WithUnitOfWork failed: %v", err)
	}

	operator, err := sqlite.NewOperatorRepository(database).GetByName(ctx, "AeroTest Ltd", 1)
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if operator == nil {
		t.Fatal("expected the committed operator to be visible")
	}
}

func TestWithUnitOfWorkRollsBackOnError(t *testing.T) {
	database := setupTestDB(t)
	factory := sqlite.NewSessionFactory(database)
	ctx := context.Background()

	boom := errors.New("boom")
	err := sqlite.WithUnitOfWork(ctx, factory, func(uow *sqlite.UnitOfWork) error {
		if _, err := uow.Environments().Create(ctx, secondary.EnvironmentInput{Name: strPtr("staging")}, "alice"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn's error back, got %v", err)
	}

	env, err := sqlite.NewEnvironmentRepository(database).GetByName(ctx, "staging")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if env != nil {
		t.Errorf("expected the write rolled back, got %+v", env)
	}
}

func TestUnitOfWorkInvisibleUntilCommit(t *testing.T) {
	database, path := setupFileDB(t)
	factory := sqlite.NewSessionFactory(database)
	ctx := context.Background()

	// Independent connection against the same file.
	other, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("failed to open second connection: %v", err)
	}
	defer other.Close()

	uow, err := sqlite.NewUnitOfWork(ctx, factory.Pooled())
	if err != nil {
		t.Fatalf("NewUnitOfWork failed: %v", err)
	}
	defer uow.Close()

	if _, err := uow.Environments().Create(ctx, secondary.EnvironmentInput{Name: strPtr("staging")}, "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	env, err := sqlite.NewEnvironmentRepository(other).GetByName(ctx, "staging")
	if err != nil {
		t.Fatalf("GetByName on second connection failed: %v", err)
	}
	if env != nil {
		t.Error("expected the uncommitted write to be invisible elsewhere")
	}

	if err := uow.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	env, err = sqlite.NewEnvironmentRepository(other).GetByName(ctx, "staging")
	if err != nil {
		t.Fatalf("GetByName after commit failed: %v", err)
	}
	if env == nil {
		t.Error("expected the committed write to be visible elsewhere")
	}
}

func TestOwnedSessionCloseIsIdempotent(t *testing.T) {
	database := setupTestDB(t)
	factory := sqlite.NewSessionFactory(database)
	ctx := context.Background()

	session, err := factory.Owned(ctx)
	if err != nil {
		t.Fatalf("Owned failed: %v", err)
	}
	uow, err := sqlite.NewUnitOfWork(ctx, session)
	if err != nil {
		t.Fatalf("NewUnitOfWork failed: %v", err)
	}
	if _, err := uow.Systems().Create(ctx, secondary.LookupInput{Name: strPtr("USSP")}, "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := uow.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := uow.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
