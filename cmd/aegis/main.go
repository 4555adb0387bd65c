package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aegis-admin/aegis-admin/internal/app"
	"github.com/aegis-admin/aegis-admin/internal/auth"
	"github.com/aegis-admin/aegis-admin/internal/authz"
	"github.com/aegis-admin/aegis-admin/internal/directory"
	"github.com/aegis-admin/aegis-admin/internal/observability"
	"github.com/aegis-admin/aegis-admin/internal/permissions"
	"github.com/aegis-admin/aegis-admin/internal/platform/cache"
	"github.com/aegis-admin/aegis-admin/internal/platform/latency"
	"github.com/aegis-admin/aegis-admin/internal/roles"
	"github.com/aegis-admin/aegis-admin/internal/session"
	"github.com/aegis-admin/aegis-admin/internal/users"
	"github.com/aegis-admin/aegis-admin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessions, err := session.NewStore(ctx, session.NewRedisBackend(redisClient), logger)
	if err != nil {
		logger.Error("restore session", slog.Any("error", err))
		os.Exit(1)
	}

	store := directory.NewStore()
	pace := latency.NewSimulator(cfg.SimLatencyMin, cfg.SimLatencyMax, cfg.SimLatencyLimit)
	gate := authz.Middleware{Logger: logger}

	policy, err := auth.NewStaticSecretPolicy(cfg.AuthSecret)
	if err != nil {
		logger.Error("hash auth secret", slog.Any("error", err))
		os.Exit(1)
	}

	authService := auth.NewService(store, sessions, pace, policy)
	authHandler := auth.NewHandler(logger, authService)

	usersService := users.NewService(store, sessions, pace)
	usersHandler := users.NewHandler(logger, usersService, gate)

	rolesService := roles.NewService(store, sessions, pace)
	rolesHandler := roles.NewHandler(logger, rolesService, gate)

	permissionsService := permissions.NewService(store, pace)
	permissionsHandler := permissions.NewHandler(logger, permissionsService)

	metrics := observability.NewMetrics()

	scanner := jobs.NewIntegrityScanner(store, sessions, metrics, logger)
	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDirectoryIntegrity, Handler: scanner.HandleIntegrityTask},
			{Type: jobs.TaskSessionAudit, Handler: scanner.HandleSessionAuditTask},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.IntegrityCron, Task: jobs.NewDirectoryIntegrityTask()},
			{Spec: cfg.IntegrityCron, Task: jobs.NewSessionAuditTask()},
		},
	})
	if err != nil {
		logger.Error("configure worker", slog.Any("error", err))
		os.Exit(1)
	}

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Sessions:           sessions,
		AuthHandler:        authHandler,
		UsersHandler:       usersHandler,
		RolesHandler:       rolesHandler,
		PermissionsHandler: permissionsHandler,
		JobsHandler:        jobsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	go func() {
		if err := worker.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("job worker", slog.Any("error", err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
