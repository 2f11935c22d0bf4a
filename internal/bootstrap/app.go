package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"legalsim-backend/internal/analyses"
	"legalsim-backend/internal/documents"
	"legalsim-backend/internal/llm"
	openai "legalsim-backend/internal/llm/openai"
	"legalsim-backend/internal/queue"
	"legalsim-backend/internal/services/health"
	"legalsim-backend/internal/shared/config"
	"legalsim-backend/internal/shared/server"
	"legalsim-backend/internal/shared/server/middleware"
	"legalsim-backend/internal/shared/metrics"
	"legalsim-backend/internal/shared/storage/cache"
	"legalsim-backend/internal/shared/storage/db"
	"legalsim-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Redis            *redis.Client
	Queue            queue.Client
	LLM              llm.Client
	DocumentsRepo    documents.DocumentsRepo
	AnalysesRepo     analyses.Repo
	DocumentsService *documents.Service
	AnalysesService  *analyses.Service
	DocumentsHandler *documents.Handler
	AnalysisHandler  *analyses.Handler
	Health           *health.Service

	closers []func() error
}

// Options lets callers replace dependencies that would otherwise be built from config.
type Options struct {
	LLM llm.Client
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(context.Background(), cfg, Options{})
}

// BuildWith is Build with explicit overrides.
func BuildWith(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.SetLevel(cfg.LogLevel)

	app := &App{
		Config: cfg,
		Health: health.NewService(),
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		app.DB = sqlDB
		app.Health.Register("postgres", sqlDB.PingContext)
		if db.RuntimeRole() != db.RoleLambda {
			app.closers = append(app.closers, sqlDB.Close)
		}
	}

	redisClient, err := buildRedis(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	if redisClient != nil {
		app.Redis = redisClient
		app.Health.Register("redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
		app.closers = append(app.closers, redisClient.Close)
	}

	queueClient, err := buildQueue(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Queue = queueClient
	if rabbit, ok := queueClient.(*queue.RabbitClient); ok {
		app.Health.Register("rabbitmq", func(context.Context) error {
			if !rabbit.Healthy() {
				return errors.New("connection closed")
			}
			return nil
		})
		app.closers = append(app.closers, rabbit.Close)
	}

	app.LLM = opts.LLM
	if app.LLM == nil {
		client, err := openai.NewClient(openai.Options{
			APIKey:              cfg.OpenAIAPIKey,
			Model:               cfg.LLMModel,
			BaseURL:             cfg.OpenAIBaseURL,
			MaxCompletionTokens: cfg.LLMMaxCompletionTokens,
			Timeout:             time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
		})
		if err != nil {
			app.Close()
			return nil, err
		}
		app.LLM = client
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: app.AnalysisHandler,
		DocumentHandler: app.DocumentsHandler,
		Health:          app.Health,
		Limiter:         middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			telemetry.Warn("bootstrap.close_failed", map[string]any{"error": err.Error()})
		}
	}
	a.closers = nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_store", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	role := db.RuntimeRole()
	opts := PoolOptions(role, cfg)
	if role == db.RoleLambda {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_store", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if err := metrics.RegisterDBStats(sqlDB); err != nil {
		telemetry.Warn("bootstrap.db_metrics_failed", map[string]any{"error": err.Error()})
	}

	if cfg.IsDevLike() {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

// PoolOptions layers the configured pool overrides on the defaults for role.
func PoolOptions(role db.Role, cfg config.Config) db.Options {
	return db.DefaultOptions(role).With(db.Options{
		MaxOpenConns:    cfg.DBPool.MaxOpenConns,
		MaxIdleConns:    cfg.DBPool.MaxIdleConns,
		ConnMaxLifetime: cfg.DBPool.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBPool.ConnMaxIdleTime,
		PingTimeout:     cfg.DBPool.PingTimeout,
	})
}

func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, nil
	}
	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.cache_disabled", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

func buildQueue(cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		return queue.NopClient{}, nil
	}
	client, err := queue.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQAnalysisQueue)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.events_disabled", map[string]any{"error": err.Error()})
			return queue.NopClient{}, nil
		}
		return nil, err
	}
	return client, nil
}

func buildServices(app *App) {
	var docRepo documents.DocumentsRepo
	var analysisRepo analyses.Repo
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
	} else {
		memDocs := documents.NewMemoryRepo()
		docRepo = memDocs
		analysisRepo = analyses.NewMemoryRepo(memDocs)
	}

	docSvc := &documents.Service{Repo: docRepo}
	analysisSvc := &analyses.Service{
		Documents:     docSvc,
		Repo:          analysisRepo,
		LLM:           app.LLM,
		Events:        app.Queue,
		FailurePolicy: app.Config.FailurePolicy,
		PromptVersion: llm.PromptVersionLegalV1,
	}
	if app.Redis != nil {
		analysisSvc.Cache = analyses.NewRedisCache(app.Redis, time.Duration(app.Config.AnalysisCacheTTLSecs)*time.Second)
	}

	app.DocumentsRepo = docRepo
	app.AnalysesRepo = analysisRepo
	app.DocumentsService = docSvc
	app.AnalysesService = analysisSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.AnalysisHandler = analyses.NewHandler(analysisSvc)
}
