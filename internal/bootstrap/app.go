package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"investor-backend/internal/companies"
	"investor-backend/internal/dealnotes"
	"investor-backend/internal/documents"
	"investor-backend/internal/extract"
	"investor-backend/internal/queue"
	"investor-backend/internal/scheduler"
	"investor-backend/internal/services/health"
	"investor-backend/internal/shared/config"
	"investor-backend/internal/shared/server"
	"investor-backend/internal/shared/storage/db"
	"investor-backend/internal/shared/storage/object"
	localstore "investor-backend/internal/shared/storage/object/local"
	s3store "investor-backend/internal/shared/storage/object/s3"
	"investor-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Pool             *scheduler.Pool
	Queue            queue.Client
	CompaniesRepo    companies.Repo
	DealNotesRepo    dealnotes.Repo
	DocumentsRepo    documents.DocumentsRepo
	CompaniesService *companies.Service
	DealNotesService *dealnotes.Service
	DocumentsService *documents.Service
	CompanyHandler   *companies.Handler
	DealNoteHandler  *dealnotes.Handler
	DocumentsHandler *documents.Handler
}

// Build wires repositories, services, the task scheduler and the router from cfg.
func Build(cfg config.Config) (*App, error) {
	return BuildContext(context.Background(), cfg)
}

// BuildContext is Build with a caller-supplied context for connection setup.
func BuildContext(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	buildServices(app)

	if err := buildScheduler(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Health:          health.NewService(pinger(app.DB)),
		CompanyHandler:  app.CompanyHandler,
		DealNoteHandler: app.DealNoteHandler,
		DocumentHandler: app.DocumentsHandler,
	})

	return app, nil
}

// Shutdown drains in-process extraction tasks and closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Pool != nil {
		if err := a.Pool.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain task pool: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.S3Endpoint,
			ForcePathStyle:  cfg.S3ForcePathStyle,
			KMSKeyID:        cfg.SSEKMSKeyID,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.CompaniesRepo = &companies.PGRepo{DB: app.DB}
		app.DealNotesRepo = &dealnotes.PGRepo{DB: app.DB}
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
	} else {
		companyRepo := companies.NewMemoryRepo()
		noteRepo := dealnotes.NewMemoryRepo()
		app.CompaniesRepo = companyRepo
		app.DealNotesRepo = noteRepo
		app.DocumentsRepo = documents.NewMemoryRepo()
	}

	extract.SetMaxParsers(app.Config.MaxParsers)

	app.CompaniesService = &companies.Service{Repo: app.CompaniesRepo}
	if mem, ok := app.DealNotesRepo.(*dealnotes.MemoryRepo); ok {
		mem.CompanyExists = app.CompaniesService.Exists
	}
	app.DealNotesService = &dealnotes.Service{Repo: app.DealNotesRepo, Companies: app.CompaniesService}
	app.DocumentsService = &documents.Service{
		Store:     app.Store,
		Repo:      app.DocumentsRepo,
		Notes:     app.DealNotesService,
		Companies: app.CompaniesService,
		Config: documents.PipelineConfig{
			Bucket:            app.Config.StorageBucket,
			KeyPrefix:         app.Config.StoragePrefix,
			ExtractionTimeout: app.Config.ExtractionTimeout,
			MaxObjectBytes:    app.Config.MaxObjectBytes,
		},
	}

	app.CompanyHandler = companies.NewHandler(app.CompaniesService)
	app.DealNoteHandler = dealnotes.NewHandler(app.DealNotesService)
	app.DocumentsHandler = documents.NewHandler(app.DocumentsService, app.Config.MaxUploadBytes)
}

func buildScheduler(ctx context.Context, app *App) error {
	switch app.Config.TaskScheduler {
	case "sqs":
		client, err := queue.NewSQSClient(ctx, queue.SQSOptions{
			QueueURL: app.Config.SQSQueueURL,
			Region:   app.Config.AWSRegion,
		})
		if err != nil {
			return err
		}
		app.Queue = client
		app.DocumentsService.Scheduler = &scheduler.QueueScheduler{Client: client}
	default:
		app.Pool = scheduler.NewPool(app.DocumentsService.RunExtraction, scheduler.PoolOptions{
			Workers:   app.Config.WorkerConcurrency,
			QueueSize: app.Config.TaskQueueSize,
			// RunExtraction applies ExtractionTimeout itself.
			OnFailure: logDeadLetter,
		})
		app.DocumentsService.Scheduler = app.Pool
	}
	return nil
}

// logDeadLetter records tasks that failed their single attempt. The document stays pending.
func logDeadLetter(ctx context.Context, task scheduler.Task, err error) {
	telemetry.Error("extraction.dead_letter", map[string]any{
		"document_id": task.DocumentID,
		"locator":     task.StorageLocator,
		"request_id":  task.RequestID,
		"error":       err.Error(),
	})
}

func pinger(sqlDB *sql.DB) health.Pinger {
	if sqlDB == nil {
		return nil
	}
	return sqlDB
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
