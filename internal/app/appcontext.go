package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/example/uat/internal/adapters/sqlite"
	"github.com/example/uat/internal/config"
	"github.com/example/uat/internal/db"
	"github.com/example/uat/internal/ports/secondary"
)

// Service names registered by Initialize.
const (
	ServiceRequirement = "requirement"
	ServiceCase        = "case"
	ServiceCampaign    = "campaign"
	ServiceBug         = "bug"
	ServiceReference   = "reference"
)

// Shutdowner is implemented by services that hold resources needing
// release at shutdown.
type Shutdowner interface {
	Shutdown() error
}

// AppContext owns the application lifecycle: the database connection, the
// session factory and the service registry. It moves uninitialized →
// initialized → (shutdown) → uninitialized.
type AppContext struct {
	mu          sync.Mutex
	initialized bool

	database *sql.DB
	factory  *sqlite.SessionFactory
	services map[string]any
	logger   zerolog.Logger
}

// NewAppContext returns an uninitialized context logging through logger.
func NewAppContext(logger zerolog.Logger) *AppContext {
	return &AppContext{
		services: make(map[string]any),
		logger:   logger,
	}
}

// Initialize bootstraps the database per cfg and registers the services.
// Calling it on an initialized context warns and does nothing. Any failure
// leaves the context uninitialized.
func (a *AppContext) Initialize(cfg *config.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		a.logger.Warn().Msg("application context already initialized")
		return nil
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Init(database, db.InitOptions{
		DropExisting:    cfg.TestMode,
		LoadInitialData: cfg.SeedReferenceData,
		ModifiedBy:      cfg.Actor,
	}, a.logger); err != nil {
		database.Close()
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	a.database = database
	a.factory = sqlite.NewSessionFactory(database)
	a.services = map[string]any{
		ServiceRequirement: NewRequirementService(a.factory, a.logger),
		ServiceCase:        NewCaseService(a.factory, a.logger),
		ServiceCampaign:    NewCampaignService(a.factory, a.logger),
		ServiceBug:         NewBugService(a.factory, a.logger),
		ServiceReference:   NewReferenceService(a.factory, a.logger),
	}
	a.initialized = true
	a.logger.Info().Str("db", cfg.DBPath).Msg("application context initialized")
	return nil
}

// GetService returns a registered service by name.
func (a *AppContext) GetService(name string) (any, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return nil, errors.New("application context not initialized")
	}
	svc, ok := a.services[name]
	if !ok {
		return nil, fmt.Errorf("unknown service %q", name)
	}
	return svc, nil
}

// RegisterService registers (or silently replaces) a service under name.
func (a *AppContext) RegisterService(name string, svc any) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return errors.New("application context not initialized")
	}
	a.services[name] = svc
	return nil
}

// UnitOfWorkFactory exposes the context's session factory for callers that
// transact directly.
func (a *AppContext) UnitOfWorkFactory() (secondary.UnitOfWorkFactory, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return nil, errors.New("application context not initialized")
	}
	return a.factory, nil
}

// UnitOfWorkContext runs fn inside one unit of work bound to the context's
// session factory.
func (a *AppContext) UnitOfWorkContext(ctx context.Context, fn func(secondary.UnitOfWork) error) error {
	factory, err := a.UnitOfWorkFactory()
	if err != nil {
		return err
	}
	return withUnitOfWork(ctx, factory, fn)
}

// Shutdown releases every service and the database connection. Per-service
// failures are logged and aggregated; the registry is cleared and the
// context returns to uninitialized regardless.
func (a *AppContext) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return nil
	}

	var errs []error
	for name, svc := range a.services {
		closer, ok := svc.(Shutdowner)
		if !ok {
			continue
		}
		if err := closer.Shutdown(); err != nil {
			a.logger.Error().Err(err).Str("service", name).Msg("service shutdown failed")
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	a.services = make(map[string]any)
	a.database = nil
	a.factory = nil
	a.initialized = false

	err := errors.Join(errs...)
	if err != nil {
		a.logger.Error().Err(err).Msg("application context shutdown completed with errors")
	} else {
		a.logger.Info().Msg("application context shut down")
	}
	return err
}

var (
	appContext *AppContext
	appOnce    sync.Once
)

// Context returns the process-wide application context. The CLI is the
// intended caller; everything below receives dependencies by injection.
func Context() *AppContext {
	appOnce.Do(func() {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		appContext = NewAppContext(logger)
	})
	return appContext
}
