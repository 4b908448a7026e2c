package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mfeller/questlog/internal/catalog"
	profileCommands "github.com/mfeller/questlog/internal/profiles/application/commands"
	profileQueries "github.com/mfeller/questlog/internal/profiles/application/queries"
	profilesDomain "github.com/mfeller/questlog/internal/profiles/domain"
	sharedApplication "github.com/mfeller/questlog/internal/shared/application"
	"github.com/mfeller/questlog/internal/shared/infrastructure/database"
	"github.com/mfeller/questlog/internal/shared/infrastructure/database/postgres"
	"github.com/mfeller/questlog/internal/shared/infrastructure/database/sqlite"
	"github.com/mfeller/questlog/internal/shared/infrastructure/eventbus"
	"github.com/mfeller/questlog/internal/shared/infrastructure/migrations"
	"github.com/mfeller/questlog/internal/shared/infrastructure/outbox"
	trackingCommands "github.com/mfeller/questlog/internal/tracking/application/commands"
	trackingQueries "github.com/mfeller/questlog/internal/tracking/application/queries"
	"github.com/mfeller/questlog/internal/tracking/application/services"
	trackingDomain "github.com/mfeller/questlog/internal/tracking/domain"
	trackingCache "github.com/mfeller/questlog/internal/tracking/infrastructure/cache"
	"github.com/mfeller/questlog/pkg/config"
	"github.com/mfeller/questlog/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics

	// UserID is the acting user for CLI commands.
	UserID uuid.UUID

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client
	StatsCache  *trackingCache.RedisStatsCache

	// Catalog
	Catalog *catalog.Catalog

	// Repositories
	LogRepo     trackingDomain.LogRepository
	ProfileRepo profilesDomain.Repository
	OutboxRepo  outbox.Repository

	// Publishers
	EventPublisher eventbus.Publisher

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Services
	StreakCalculator *services.StreakCalculator
	StatsCalculator  *services.StatsCalculator

	// Tracking handlers
	RecordCompletionHandler     *trackingCommands.RecordCompletionHandler
	GetDailyStatsHandler        *trackingQueries.GetDailyStatsHandler
	GetTrendHandler             *trackingQueries.GetTrendHandler
	GetCategoryBreakdownHandler *trackingQueries.GetCategoryBreakdownHandler
	GetSummaryHandler           *trackingQueries.GetSummaryHandler

	// Profile handlers
	CreateProfileHandler *profileCommands.CreateProfileHandler
	ManageTasksHandler   *profileCommands.ManageTasksHandler
	GetProfileHandler    *profileQueries.GetProfileHandler
	ListProfilesHandler  *profileQueries.ListProfilesHandler

	// Outbox Processor
	OutboxProcessor *outbox.Processor
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NoopMetrics{},
		Catalog: catalog.Default(),
	}

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid QUESTLOG_USER_ID: %w", err)
	}
	c.UserID = userID

	dbCfg := database.Config{URL: cfg.DatabaseURL}
	if cfg.DatabaseURL == "" {
		dbCfg = database.DefaultLocalConfig()
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	logger.Info("connected to database", "driver", c.DBDriver)

	if err := c.runMigrations(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	// Redis is optional; without it every stats query recomputes.
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, stats cache disabled", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					conn.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, stats cache disabled", "error", err)
			} else {
				c.RedisClient = redisClient
				c.StatsCache = trackingCache.NewRedisStatsCache(redisClient, logger)
				logger.Info("connected to Redis")
			}
		}
	}

	factory := NewRepositoryFactory(conn)
	if c.LogRepo, err = factory.LogRepository(); err != nil {
		conn.Close()
		return nil, err
	}
	if c.ProfileRepo, err = factory.ProfileRepository(); err != nil {
		conn.Close()
		return nil, err
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		conn.Close()
		return nil, err
	}
	if c.UnitOfWork, err = factory.UnitOfWork(); err != nil {
		conn.Close()
		return nil, err
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, using noop publisher")
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			c.EventPublisher = publisher
		}
	} else {
		c.EventPublisher = eventbus.NewNoopPublisher(logger)
	}

	c.StreakCalculator = services.NewStreakCalculator(c.LogRepo).WithMaxLookback(cfg.StreakMaxLookbackDays)
	c.StatsCalculator = services.NewStatsCalculator(c.LogRepo, c.Catalog, c.StreakCalculator)

	c.RecordCompletionHandler = trackingCommands.NewRecordCompletionHandler(
		c.LogRepo, c.Catalog, c.StreakCalculator, c.OutboxRepo, c.UnitOfWork,
	).WithRarityOverrides(profileQueries.NewRarityResolver(c.ProfileRepo))
	var statsCache trackingQueries.StatsCache
	if c.StatsCache != nil {
		statsCache = c.StatsCache
		c.RecordCompletionHandler = c.RecordCompletionHandler.WithCacheInvalidation(c.StatsCache)
	}
	c.GetDailyStatsHandler = trackingQueries.NewGetDailyStatsHandler(c.StatsCalculator, statsCache, logger)
	c.GetTrendHandler = trackingQueries.NewGetTrendHandler(c.StatsCalculator)
	c.GetCategoryBreakdownHandler = trackingQueries.NewGetCategoryBreakdownHandler(c.StatsCalculator)
	c.GetSummaryHandler = trackingQueries.NewGetSummaryHandler(c.LogRepo, c.StreakCalculator)

	c.CreateProfileHandler = profileCommands.NewCreateProfileHandler(c.ProfileRepo, c.OutboxRepo, c.UnitOfWork)
	c.ManageTasksHandler = profileCommands.NewManageTasksHandler(c.ProfileRepo, c.Catalog, c.OutboxRepo, c.UnitOfWork)
	c.GetProfileHandler = profileQueries.NewGetProfileHandler(c.ProfileRepo)
	c.ListProfilesHandler = profileQueries.NewListProfilesHandler(c.ProfileRepo)

	if cfg.OutboxProcessorEnabled {
		processorCfg := outbox.DefaultProcessorConfig()
		processorCfg.PollInterval = cfg.OutboxPollInterval
		processorCfg.BatchSize = cfg.OutboxBatchSize
		processorCfg.MaxRetries = cfg.OutboxMaxRetries
		c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, logger)
	}

	return c, nil
}

func (c *Container) runMigrations(ctx context.Context) error {
	switch conn := c.DBConn.(type) {
	case *sqlite.Connection:
		return migrations.RunSQLiteMigrations(ctx, conn.DB())
	case *postgres.Connection:
		return migrations.RunPostgresMigrations(ctx, conn.Pool())
	default:
		return fmt.Errorf("unsupported connection type %T", conn)
	}
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		if closer, ok := c.EventPublisher.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				c.Logger.Warn("failed to close event publisher", "error", err)
			}
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", "error", err)
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("failed to close database connection", "error", err)
		}
	}
}
