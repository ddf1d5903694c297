package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/straye-as/pipeline-api/docs"
	"github.com/straye-as/pipeline-api/internal/config"
	"github.com/straye-as/pipeline-api/internal/database"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/http/handler"
	"github.com/straye-as/pipeline-api/internal/http/metrics"
	"github.com/straye-as/pipeline-api/internal/http/middleware"
	"github.com/straye-as/pipeline-api/internal/http/router"
	"github.com/straye-as/pipeline-api/internal/jobs"
	"github.com/straye-as/pipeline-api/internal/logger"
	"github.com/straye-as/pipeline-api/internal/repository"
	"github.com/straye-as/pipeline-api/internal/service"
	"github.com/straye-as/pipeline-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Straye Pipeline API
// @version 1.0
// @description Client pipeline tracking: clients, stages, proposal status, follow-ups and CSV export

// @contact.name API Support
// @contact.email support@straye.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "straye-pipeline-staging.proudsmoke-10281cc0.norwayeast.azurecontainerapps.io"
	case "production":
		docs.SwaggerInfo.Host = "pipeline.straye.no"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// In development secrets come from the environment,
	// in staging/production from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	healthHandler := handler.NewHealthHandler(log)

	// Object storage backs blob persistence and the snapshot job
	var objectStorage storage.Storage
	if cfg.Persistence.Mode == "blob" || (cfg.Jobs.Enabled && cfg.Jobs.SnapshotCron != "") {
		objectStorage, err = storage.NewStorage(ctx, &cfg.Storage, log)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer closeStorage(objectStorage, log)
		log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))
		healthHandler.Register("storage", storageCheck(objectStorage))
	}

	var db *gorm.DB
	if cfg.Persistence.Mode == "database" {
		db, err = database.NewDatabase(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			if err := database.Close(db); err != nil {
				log.Warn("Error closing database connection", zap.Error(err))
			}
		}()
		if cfg.Database.AutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		log.Info("Database connected", zap.String("driver", cfg.Database.Driver))
		healthHandler.Register("database", func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		})
	}

	var store repository.Store
	switch cfg.Persistence.Mode {
	case "blob":
		store = repository.NewBlobStore(objectStorage, cfg.Pipeline.StateKey)
	case "database":
		store = repository.NewGormStore(db)
	default:
		store = repository.NewMemoryStore()
	}

	repoOpts := []repository.Option{repository.WithHistoryUser(cfg.Pipeline.HistoryUser)}
	if !cfg.Pipeline.SeedOnEmpty {
		repoOpts = append(repoOpts, repository.WithSeed(func() []domain.Client { return nil }))
	}
	clientRepo := repository.NewClientRepository(ctx, store, log, repoOpts...)

	clientService := service.NewClientService(clientRepo, log)

	// Bring derived values up to date before serving
	if changed, err := clientService.RefreshDerived(ctx); err != nil {
		log.Warn("Initial derived refresh failed", zap.Error(err))
	} else {
		log.Info("Client collection ready",
			zap.String("persistence", cfg.Persistence.Mode),
			zap.Int("refreshed", changed),
		)
	}
	metrics.ObservePipeline(clientService.All(ctx))

	clientHandler := handler.NewClientHandler(clientService, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, rateLimiter, healthHandler, clientHandler)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		refresh := jobs.NewRefreshJob(clientService, log, cfg.Jobs.TimeoutDuration())
		var snapshot *jobs.SnapshotJob
		if objectStorage != nil {
			snapshot = jobs.NewSnapshotJob(clientService, objectStorage, cfg.Jobs.SnapshotPrefix, log, cfg.Jobs.TimeoutDuration())
		}

		if err := jobs.RegisterPipelineJobs(scheduler, refresh, cfg.Jobs.RefreshCron, snapshot, cfg.Jobs.SnapshotCron); err != nil {
			log.Error("Failed to register pipeline jobs", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started",
				zap.Strings("jobs", scheduler.JobNames()),
				zap.Duration("timeout", cfg.Jobs.TimeoutDuration()),
			)
		}
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           rt.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeoutDuration(),
		ReadHeaderTimeout: cfg.Server.ReadTimeoutDuration(),
		WriteTimeout:      cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// storageCheck probes the backend with a read of a key that need not exist
func storageCheck(s storage.Storage) handler.HealthCheck {
	return func(ctx context.Context) error {
		rc, err := s.Download(ctx, ".health")
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return rc.Close()
	}
}

func closeStorage(s storage.Storage, log *zap.Logger) {
	var err error
	switch c := s.(type) {
	case *storage.RedisStorage:
		err = c.Close()
	case *storage.MongoStorage:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = c.Close(ctx)
	}
	if err != nil {
		log.Warn("Error closing storage", zap.Error(err))
	}
}
