package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/atworth/bankfeed/internal/adapters/filestore/local"
	"github.com/atworth/bankfeed/internal/adapters/partymatch"
	"github.com/atworth/bankfeed/internal/core/services"
	"github.com/atworth/bankfeed/internal/handlers"
	"github.com/atworth/bankfeed/internal/jobs"
	"github.com/atworth/bankfeed/internal/jobs/inmemory"
	"github.com/atworth/bankfeed/internal/middleware"
	"github.com/atworth/bankfeed/internal/platform/config"
	"github.com/atworth/bankfeed/internal/repositories/database/pgsql"
	"github.com/atworth/bankfeed/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(cfg, logger); err != nil {
		os.Exit(1)
	}

	fileStore, err := local.NewStore(cfg.FileStoreRoot)
	if err != nil {
		logger.Error("Failed to initialize file store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ledgerRepo := pgsql.NewPgxLedgerRecordRepository(dbPool)
	repos := services.Repositories{
		Currency:     pgsql.NewPgxCurrencyRepository(dbPool),
		ExchangeRate: pgsql.NewPgxExchangeRateRepository(dbPool),
		Ledger:       ledgerRepo,
	}
	svc := services.NewServiceContainer(cfg, repos, fileStore, partymatch.NewNoopMatcher(), logger)

	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(cfg.JobQueueSize, jobStore)

	queueCtx, cancelQueue := context.WithCancel(context.Background())
	defer cancelQueue()
	if err := queue.Start(queueCtx, cfg.JobWorkerCount, ingestHandler(svc)); err != nil {
		logger.Error("Failed to start job queue", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := queue.Stop(stopCtx); err != nil {
			logger.Error("Job queue did not stop cleanly", slog.String("error", err.Error()))
		}
	}()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, svc, handlers.Dependencies{
		Files:     fileStore,
		Submitter: queue,
		JobStore:  jobStore,
		Records:   ledgerRepo,
	})

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// ingestHandler adapts the ingestion service to the job queue handler shape.
func ingestHandler(svc *services.ServiceContainer) jobs.Handler {
	return func(ctx context.Context, job *jobs.IngestJob) error {
		outcomes, err := svc.Ingestion.Run(ctx, job.FolderID)
		if err != nil {
			return err
		}
		for _, outcome := range outcomes {
			job.FilesProcessed++
			if !outcome.Success {
				job.FilesFailed++
			}
		}
		return nil
	}
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", upErr.Error()))
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied")
	}
	return nil
}
