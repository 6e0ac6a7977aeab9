package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/knitinfo/knitinfo-backend/api/routes"
	"github.com/knitinfo/knitinfo-backend/internal/admins"
	"github.com/knitinfo/knitinfo-backend/internal/auth"
	"github.com/knitinfo/knitinfo-backend/internal/companies"
	"github.com/knitinfo/knitinfo-backend/internal/importer"
	"github.com/knitinfo/knitinfo-backend/internal/priorities"
	"github.com/knitinfo/knitinfo-backend/internal/submissions"
	"github.com/knitinfo/knitinfo-backend/internal/visitors"
	"github.com/knitinfo/knitinfo-backend/pkg/auth/session"
	"github.com/knitinfo/knitinfo-backend/pkg/config"
	"github.com/knitinfo/knitinfo-backend/pkg/db"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
	"github.com/knitinfo/knitinfo-backend/pkg/metrics"
	"github.com/knitinfo/knitinfo-backend/pkg/migrate"
	"github.com/knitinfo/knitinfo-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	m := metrics.New()

	companiesRepo := companies.NewRepository(dbClient.DB())
	prioritiesRepo := priorities.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		AdminRepo:      admins.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	companiesService, err := companies.NewService(companiesRepo, prioritiesRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create companies service", err)
		os.Exit(1)
	}

	importEngine, err := importer.NewEngine(
		&importer.XLSXParser{MaxRows: cfg.Import.MaxRows},
		dbClient,
		companiesRepo,
		logg,
		m,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create import engine", err)
		os.Exit(1)
	}

	submissionsService, err := submissions.NewService(submissions.NewRepository(dbClient.DB()), companiesRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create submissions service", err)
		os.Exit(1)
	}

	prioritiesService, err := priorities.NewService(prioritiesRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create priorities service", err)
		os.Exit(1)
	}

	visitorsService, err := visitors.NewService(redisClient, logg, m, cfg.Visitors.ActiveWindow)
	if err != nil {
		logg.Error(context.Background(), "failed to create visitors service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:             cfg,
			Logger:             logg,
			Metrics:            m,
			DB:                 dbClient,
			Redis:              redisClient,
			Sessions:           sessionManager,
			AuthService:        authService,
			CompaniesService:   companiesService,
			ImportEngine:       importEngine,
			SubmissionsService: submissionsService,
			PrioritiesService:  prioritiesService,
			VisitorsService:    visitorsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
