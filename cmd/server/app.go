package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskboard/taskboard-api/internal/api"
	"github.com/taskboard/taskboard-api/internal/api/middleware"
	"github.com/taskboard/taskboard-api/internal/cache"
	"github.com/taskboard/taskboard-api/internal/config"
	"github.com/taskboard/taskboard-api/internal/events"
	"github.com/taskboard/taskboard-api/internal/job"
	"github.com/taskboard/taskboard-api/internal/platform/mailer"
	"github.com/taskboard/taskboard-api/internal/platform/postgres"
	"github.com/taskboard/taskboard-api/internal/platform/redis"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/service/auth"
)

// application holds the assembled components of the server. Everything
// is wired once at startup; handlers and jobs share the same stores,
// cache gateway, and event emitter.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	redisStore *redis.Store
	gateway    *cache.Gateway
	dispatcher *mailer.Dispatcher
	jobRunner  *job.Runner
	scheduler  *job.Scheduler

	authHandler        *api.AuthHandler
	projectHandler     *api.ProjectHandler
	taskHandler        *api.TaskHandler
	contributorHandler *api.ContributorHandler
	dashboardHandler   *api.DashboardHandler
	authMiddleware     *middleware.AuthMiddleware
}

// newApplication wires stores, services, handlers, and background
// components from the loaded configuration.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Stores.
	projectStore := postgres.NewPostgresProjectStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	contributorStore := postgres.NewPostgresContributorStore(db, userStore, logger)
	statsStore := postgres.NewPostgresStatsStore(db, logger)
	jobStore := postgres.NewPostgresJobStore(db)

	// Cache. A missing or unreachable Redis degrades to pass-through
	// reads rather than failing startup.
	var cacheStore cache.Store
	if cfg.Cache.RedisAddr != "" {
		redisStore, err := redis.New(cfg.Cache, logger)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", "error", err)
		} else {
			app.redisStore = redisStore
			cacheStore = redisStore
		}
	} else {
		logger.Info("no redis address configured, caching disabled")
	}
	app.gateway = cache.NewGateway(cacheStore, time.Duration(cfg.Cache.DefaultTTLSeconds)*time.Second, logger)

	// Events. Task mutations purge the cached overdue listings.
	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(cache.NewInvalidationHook(app.gateway, api.OverdueCacheNamespace, logger))

	// Mail. Without an SMTP host notifications are logged instead.
	var sender mailer.Sender
	if cfg.Mail.Host != "" {
		sender = mailer.NewSMTPSender(cfg.Mail)
	} else {
		sender = mailer.NewLogSender(logger)
	}
	app.dispatcher = mailer.NewDispatcher(sender, mailer.DispatcherConfig{
		WorkerCount: cfg.Mail.WorkerCount,
		QueueSize:   cfg.Mail.QueueSize,
	}, logger)

	// Services.
	projectService, err := service.NewProjectService(projectStore, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create project service: %w", err)
	}
	taskService, err := service.NewTaskService(taskStore, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	contributorService, err := service.NewContributorService(contributorStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create contributor service: %w", err)
	}
	dashboardService, err := service.NewDashboardService(statsStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard service: %w", err)
	}

	// Auth.
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.authMiddleware = middleware.NewAuthMiddleware(jwtService)

	// Handlers.
	app.authHandler = api.NewAuthHandler(userStore, jwtService, auth.NewBcryptVerifier())
	app.projectHandler = api.NewProjectHandler(projectService, taskService)
	app.taskHandler = api.NewTaskHandler(taskService, app.gateway)
	app.contributorHandler = api.NewContributorHandler(contributorService)
	app.dashboardHandler = api.NewDashboardHandler(dashboardService)

	// Background sweep.
	runnerConfig := job.DefaultRunnerConfig()
	runnerConfig.WorkerCount = cfg.Job.WorkerCount
	runnerConfig.QueueSize = cfg.Job.QueueSize
	runnerConfig.StuckJobAge = time.Duration(cfg.Job.StuckJobAgeMinutes) * time.Minute
	app.jobRunner = job.NewRunner(jobStore, runnerConfig, logger)
	app.jobRunner.RegisterFactory(job.TypeOverdueSweep,
		job.NewSweepJobFactory(taskStore, app.dispatcher, emitter, logger))

	if cfg.Sweep.Enabled {
		app.scheduler = job.NewScheduler(
			app.jobRunner,
			func() (job.Job, error) {
				return job.NewSweepJob(taskStore, app.dispatcher, emitter, logger)
			},
			time.Duration(cfg.Sweep.IntervalMinutes)*time.Minute,
			cfg.Sweep.RunOnStart,
			logger,
		)
	}

	return app, nil
}

// Run starts the background components and serves HTTP until shutdown.
func (app *application) Run(ctx context.Context) error {
	if err := app.jobRunner.Start(); err != nil {
		return fmt.Errorf("failed to start job runner: %w", err)
	}
	if app.scheduler != nil {
		app.scheduler.Start()
	}

	return app.startHTTPServer(ctx, app.routes())
}

// cleanup stops background components in reverse startup order.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	app.jobRunner.Stop()
	app.dispatcher.Stop()
	if app.redisStore != nil {
		if err := app.redisStore.Close(); err != nil {
			app.logger.Error("failed to close redis connection", "error", err)
		}
	}
}
