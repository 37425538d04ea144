// cmd/api/main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/qbusiness"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"trendradar/internal/adapter/archive"
	"trendradar/internal/adapter/bus"
	"trendradar/internal/adapter/commerce"
	"trendradar/internal/adapter/social"
	"trendradar/internal/adapter/storage"
	"trendradar/internal/config"
	alertDomain "trendradar/internal/domain/alert"
	"trendradar/internal/domain/trend"
	"trendradar/internal/observability"
	"trendradar/internal/server"
	alertService "trendradar/internal/service/alert"
	"trendradar/internal/service/insight"
	"trendradar/internal/service/market"
	"trendradar/internal/service/radar"
)

func main() {
	// Load .env when present
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Environment, cfg.Monitoring.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Platform registry, with optional YAML overrides
	registry, err := config.LoadPlatforms(os.Getenv("PLATFORM_CONFIG_PATH"))
	if err != nil {
		logger.Fatal("failed to load platform registry", zap.Error(err))
	}

	// Initialize dependencies. Postgres and NATS are optional; an empty
	// URL disables trend history and the live feed respectively.
	var db *pgxpool.Pool
	if cfg.Database.URL != "" {
		db, err = initDatabase(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("failed to initialize database", zap.Error(err))
		}
		defer db.Close()
	} else {
		logger.Info("database disabled, trend history is off")
	}

	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = initNATS(cfg.NATS, logger)
		if err != nil {
			logger.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsConn.Close()
	} else {
		logger.Info("NATS disabled, event publishing and live feed are off")
	}

	// AWS clients share one configuration
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		logger.Fatal("failed to load AWS configuration", zap.Error(err))
	}

	metrics := observability.NewCollector(
		cfg.Monitoring.CloudWatchNamespace,
		cloudwatch.NewFromConfig(awsCfg),
		cfg.Monitoring.MetricsEnabled,
		logger,
	)

	// Initialize platform connectors
	socialSources := social.NewConnectors(cfg.Platforms, logger)
	salesSources := commerce.NewConnectors(cfg.Platforms, logger)

	publisher := bus.NewPublisher(natsConn, logger)
	archiver := archive.NewArchiver(s3.NewFromConfig(awsCfg), cfg.S3.Bucket, cfg.S3.DashboardPrefix, logger)

	// Initialize model-backed insight services
	advisor := insight.NewAdvisor(
		bedrockruntime.NewFromConfig(awsCfg),
		bedrockagentruntime.NewFromConfig(awsCfg),
		cfg.Bedrock,
		logger,
	)
	predictor := insight.NewPredictor(
		sagemakerruntime.NewFromConfig(awsCfg),
		cfg.SageMaker.EndpointName,
		logger,
	)
	qService := insight.NewQService(qbusiness.NewFromConfig(awsCfg), cfg.AmazonQ, logger)

	// Initialize services
	radarDeps := radar.Deps{
		Social:    socialSources,
		Sales:     salesSources,
		Registry:  registry,
		Predictor: predictor,
		Archiver:  archiver,
		Publisher: publisher,
		Metrics:   metrics,
		Config:    cfg.Trend,
		Logger:    logger,
	}
	if db != nil {
		radarDeps.Store = storage.NewSnapshotStore(db)
	}
	trendRadar := radar.New(radarDeps)

	alerts := alertService.New(storage.NewMemoryAlertStore(), trendRadar, cfg.Alert, logger)
	marketSvc := market.New(trendRadar, qService, logger)

	// Forward sweep outcomes onto the event bus for live feed clients
	trendRadar.RegisterChangeHandler(func(change trend.Change) error {
		return publisher.Publish(cfg.Trend.EventsTopic+".significant", change)
	})
	alerts.RegisterTriggerHandler(func(trigger alertDomain.Trigger) error {
		return publisher.Publish(cfg.Alert.EventsTopic+".triggered", trigger)
	})

	// Start the background sweeps
	if err := trendRadar.Start(ctx); err != nil {
		logger.Fatal("failed to start trend radar", zap.Error(err))
	}
	if err := alerts.Start(ctx); err != nil {
		logger.Fatal("failed to start alert service", zap.Error(err))
	}

	// Initialize HTTP server
	httpServer := server.NewServer(cfg, natsConn, trendRadar, alerts, marketSvc, advisor, metrics, logger)

	// Start HTTP server
	go func() {
		logger.Info("starting http server",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", zap.Error(err))
	}
	if err := trendRadar.Stop(shutdownCtx); err != nil {
		logger.Warn("trend radar shutdown error", zap.Error(err))
	}
	if err := alerts.Stop(shutdownCtx); err != nil {
		logger.Warn("alert service shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnTimeout

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, logger *zap.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
