package main

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/diewo77/go-workshop/auth"
	"github.com/diewo77/go-workshop/internal/audit"
	"github.com/diewo77/go-workshop/internal/config"
	"github.com/diewo77/go-workshop/internal/handlers"
	"github.com/diewo77/go-workshop/internal/jobs"
	"github.com/diewo77/go-workshop/internal/metrics"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/server"
	"github.com/diewo77/go-workshop/internal/services"
	"github.com/diewo77/go-workshop/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the assembled HTTP handler plus the background jobs.
type App struct {
	handler   http.Handler
	scheduler *jobs.Scheduler
}

// NewApp wires services, handlers and jobs from cfg.
func NewApp(cfg *config.Config, db *gorm.DB, seq store.Sequence, logger *zap.Logger) (*App, error) {
	gate := policy.NewGate(db, cfg.App.ProfileTTL)
	m := metrics.New()
	d := services.Deps{
		DB:      db,
		Gate:    gate,
		Audit:   audit.New(db, audit.WithWindow(cfg.App.LogWindow)),
		Seq:     seq,
		Metrics: m,
		Log:     logger,
		TaxRate: cfg.App.TaxRate,
	}

	users := services.NewUserService(d)
	invoices := services.NewInvoiceService(d)

	handler := server.New(server.Options{
		DB:           db,
		Metrics:      m,
		Log:          logger,
		DefaultActor: defaultActor(cfg.App.DefaultActor, users, logger),
	},
		handlers.NewProductHandler(services.NewProductService(d)),
		handlers.NewJobCardHandler(services.NewJobCardService(d)),
		handlers.NewInvoiceHandler(invoices),
		handlers.NewUserHandler(users, gate),
		handlers.NewReportHandler(services.NewActivityService(d), services.NewDashboardService(d), services.NewReportService(d), gate),
	)

	app := &App{handler: handler}
	if cfg.Jobs.Enabled {
		app.scheduler = jobs.New(logger)
		if err := app.scheduler.EveryOverdueSweep(cfg.Jobs.OverdueSweep, invoices); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// defaultActor resolves the configured email to a user id once the user
// exists. Requests without X-User-ID act as that user.
func defaultActor(email string, users *services.UserService, logger *zap.Logger) auth.DefaultActor {
	if email == "" {
		return nil
	}
	var resolved atomic.Pointer[string]
	return func(ctx context.Context) string {
		if id := resolved.Load(); id != nil {
			return *id
		}
		u, err := users.ByEmail(ctx, email)
		if err != nil {
			logger.Warn("default actor not found", zap.String("email", email), zap.Error(err))
			return ""
		}
		resolved.Store(&u.ID)
		return u.ID
	}
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Start launches the background jobs, if any.
func (a *App) Start() {
	if a.scheduler != nil {
		a.scheduler.Start()
	}
}

// Stop halts the background jobs.
func (a *App) Stop() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
}
