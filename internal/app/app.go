// Package app assembles FitPlan components from configuration.
//
// Both binaries build an App: it opens the store, creates the navigation
// broker and services, and closes everything in reverse order on Close.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yndnr/fitplan-go/internal/app/config"
	"github.com/yndnr/fitplan-go/internal/completion"
	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/core/service"
	"github.com/yndnr/fitplan-go/internal/infra/shutdown"
	"github.com/yndnr/fitplan-go/internal/infra/tlsroots"
	"github.com/yndnr/fitplan-go/internal/navigation"
	"github.com/yndnr/fitplan-go/internal/storage"
	"github.com/yndnr/fitplan-go/internal/telemetry/metric"
)

// App holds the wired components.
type App struct {
	Config  *config.AppConfig
	Logger  *slog.Logger
	Metrics *metric.Registry

	Store      storage.Store
	Broker     *navigation.Broker
	Completion *completion.Client

	Sessions *service.SessionService
	Routes   *service.RouteService
	Plans    *service.PlanService

	shutdown *shutdown.Handler
}

// New wires an App from cfg. The caller must Close it.
func New(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metric.NewRegistry(),
		shutdown: shutdown.NewHandler(cfg.Shell.ShutdownTimeout, logger),
	}

	store, err := OpenStore(ctx, cfg.Storage, logger, a.Metrics)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.Store = store
	a.shutdown.OnShutdown("store", func(context.Context) error { return store.Close() })

	a.Broker = navigation.NewBroker(logger.With("component", "navigation"))
	a.shutdown.OnShutdown("navigation", func(context.Context) error {
		a.Broker.Close()
		return nil
	})

	httpClient, err := tlsroots.HTTPClient(cfg.Completion.CAFile, cfg.Completion.Timeout)
	if err != nil {
		_ = a.Close()
		return nil, domain.ErrInvalidConfig.WithDetails("completion.ca_file").WithCause(err)
	}
	a.Completion = completion.New(cfg.Completion, httpClient, logger.With("component", "completion"))
	a.Sessions = service.NewSessionService(store, logger, a.Metrics)
	a.Routes = service.NewRouteService(store, a.Broker, logger, a.Metrics)

	plans, err := service.NewPlanService(a.Completion, cfg.Plan, logger, a.Metrics)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Plans = plans

	return a, nil
}

// OnClose registers a hook run by Close before the built-in ones.
func (a *App) OnClose(name string, fn func(context.Context) error) {
	a.shutdown.OnShutdown(name, fn)
}

// Close releases every component in reverse order of creation.
func (a *App) Close() error {
	return a.shutdown.Shutdown()
}
