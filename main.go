package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"finledger/internal/config"
	"finledger/internal/repository"
	"finledger/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	accessLog := logrus.New()
	accessLog.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfgPath := os.Getenv("FINLEDGER_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	if cfg.SecretIsInsecureDefault() {
		logger.Warn("JWT_SECRET is not set; running with the insecure built-in secret. Do not deploy like this.")
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Select the storage backend
	var (
		users   repository.UserRepository
		records repository.RecordRepository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		repository.MigrateDB(db, logger)
		users = repository.NewUserRepository(db, accessLog)
		records = repository.NewRecordRepository(db, accessLog)
	case "mongo":
		db, err := repository.NewMongoDatabase(ctx, cfg.Database.MongoURI, cfg.Database.MongoDatabase, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			_ = db.Client().Disconnect(context.Background())
		}()
		users = repository.NewMongoUserRepository(db)
		records = repository.NewMongoRecordRepository(db)
	case "memory":
		logger.Warn("Using the in-memory store; nothing will be persisted")
		users = repository.NewInMemoryUserRepository()
		records = repository.NewInMemoryRecordRepository()
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}

	// Initialize and run the server
	srv := server.NewServer(cfg, users, records, logger, accessLog)
	go srv.Run(cfg.Server.Addr)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
