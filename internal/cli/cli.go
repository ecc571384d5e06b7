// Package cli holds the cobra commands. Commands are thin translators:
// they parse flags, call the services from the application context, and
// render the results.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/example/uat/internal/app"
	"github.com/example/uat/internal/config"
	"github.com/example/uat/internal/models"
	"github.com/example/uat/internal/ports/primary"
)

// bootstrap loads the config and initializes the application context.
// Initialize is idempotent, so every command can call this.
func bootstrap() (*app.AppContext, *config.Config, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		zerolog.SetGlobalLevel(lvl)
	}
	appCtx := app.Context()
	if err := appCtx.Initialize(cfg); err != nil {
		return nil, nil, err
	}
	return appCtx, cfg, nil
}

func referenceService(appCtx *app.AppContext) (primary.ReferenceService, error) {
	svc, err := appCtx.GetService(app.ServiceReference)
	if err != nil {
		return nil, err
	}
	return svc.(primary.ReferenceService), nil
}

func requirementService(appCtx *app.AppContext) (primary.RequirementService, error) {
	svc, err := appCtx.GetService(app.ServiceRequirement)
	if err != nil {
		return nil, err
	}
	return svc.(primary.RequirementService), nil
}

func caseService(appCtx *app.AppContext) (primary.CaseService, error) {
	svc, err := appCtx.GetService(app.ServiceCase)
	if err != nil {
		return nil, err
	}
	return svc.(primary.CaseService), nil
}

func campaignService(appCtx *app.AppContext) (primary.CampaignService, error) {
	svc, err := appCtx.GetService(app.ServiceCampaign)
	if err != nil {
		return nil, err
	}
	return svc.(primary.CampaignService), nil
}

func bugService(appCtx *app.AppContext) (primary.BugService, error) {
	svc, err := appCtx.GetService(app.ServiceBug)
	if err != nil {
		return nil, err
	}
	return svc.(primary.BugService), nil
}

// resolveEnvironment maps the --env flag to an environment row.
func resolveEnvironment(ctx context.Context, ref primary.ReferenceService, name string) (*models.Environment, error) {
	if name == "" {
		return nil, fmt.Errorf("no environment given\nHint: pass --env NAME (create one with 'uat env create')")
	}
	env, err := ref.GetEnvironment(ctx, name)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, fmt.Errorf("environment %q not found", name)
	}
	return env, nil
}
