// Package main is the entry point for the MongoDB CRUD API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vyrodovalexey/mongo-crud-api/internal/config"
	"github.com/vyrodovalexey/mongo-crud-api/internal/server"
	"github.com/vyrodovalexey/mongo-crud-api/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use a basic logger for startup errors
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("configuration loaded",
		zap.Int("server_port", cfg.ServerPort),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
		zap.Bool("schema_validation", cfg.SchemaValidation),
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("mongo_db", cfg.MongoDatabase),
		zap.String("mongo_collection", cfg.MongoCollection),
	)

	// Connect the item store
	itemStore, err := newStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}

	srv := server.New(cfg, logger, itemStore)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-serverErrors:
		logger.Error("server error", zap.Error(err))
		exitCode = 1
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			exitCode = 1
		}
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := itemStore.Close(closeCtx); err != nil {
		logger.Error("closing store failed", zap.Error(err))
		exitCode = 1
	}

	logger.Info("server stopped")
	return exitCode
}

// newStore builds the configured store backend, wrapped with metrics when
// they are enabled.
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	var itemStore store.Store

	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		logger.Info("using in-memory store")
		itemStore = store.NewMemoryStore()
	case config.StoreBackendMongo:
		mongoStore, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			Collection:     cfg.MongoCollection,
			ConnectTimeout: cfg.ConnectTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("creating mongo store: %w", err)
		}
		itemStore = mongoStore
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}

	if cfg.MetricsEnabled {
		itemStore = store.NewInstrumentedStore(itemStore)
	}

	return itemStore, nil
}

// initLogger initializes a zap logger with the specified log level.
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
