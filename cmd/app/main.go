package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	apiHttp "github.com/rubbishit/backend/internal/api/http"
	"github.com/rubbishit/backend/internal/cache"
	"github.com/rubbishit/backend/internal/config"
	"github.com/rubbishit/backend/internal/db"
	"github.com/rubbishit/backend/internal/metrics"
	"github.com/rubbishit/backend/internal/migration"
	"github.com/rubbishit/backend/internal/repository"
	"github.com/rubbishit/backend/internal/server"
	"github.com/rubbishit/backend/internal/service"
	emailProvider "github.com/rubbishit/backend/pkg/email"
	"github.com/rubbishit/backend/pkg/email/smtp"
	"github.com/rubbishit/backend/pkg/hash"
	"github.com/rubbishit/backend/pkg/logger"
	"github.com/rubbishit/backend/pkg/otp"
)

// @title Rubbishit Journal API
// @version 1.0
// @BasePath /api
func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	// Dependencies
	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	appLogger.Info("starting backend api", zap.String("env", cfg.Env), zap.String("delivery_mode", cfg.Email.DeliveryMode))
	appLogger.Debug("debug messages are enabled")

	// Init database
	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		appLogger.Fatal("mysql connect problem", zap.Error(err))
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			appLogger.Error("error when closing", zap.Error(err))
		}
	}()
	appLogger.Info("mysql connection done")

	if cfg.Database.Migrate {
		if err := migrate(cfg.Database); err != nil {
			appLogger.Fatal("database migration failed", zap.Error(err))
		}
	}

	hasher, err := hash.NewHasher(cfg.Auth.PasswordScheme, cfg.Auth.BcryptCost)
	if err != nil {
		appLogger.Fatal("password hasher creation failed", zap.Error(err))
	}

	var emailSender emailProvider.Sender
	if cfg.Email.DeliveryMode == config.DeliveryModeSync {
		emailSender, err = smtp.NewSMTPSender(smtpConfig(cfg.SMTP))
		if err != nil {
			appLogger.Fatal("smtp sender creation failed", zap.Error(err))
		}
	}

	var enqueuer service.TaskEnqueuer
	if cfg.Email.DeliveryMode == config.DeliveryModeQueue {
		redisClient, err := cache.NewRedis(cfg.Cache)
		if err != nil {
			appLogger.Fatal("redis connect problem", zap.Error(err))
		}
		defer redisClient.Close()

		asynqClient := asynq.NewClientFromRedisClient(redisClient)
		defer asynqClient.Close()

		enqueuer = asynqClient
		appLogger.Info("redis connection done")
	}

	// Services, Repos & API Handlers
	repos := repository.NewRepositories(dbMySQL)
	services, err := service.NewServices(service.Deps{
		Config:       cfg,
		Hasher:       hasher,
		OtpGenerator: otp.NewRandomGenerator(),
		EmailSender:  emailSender,
		Enqueuer:     enqueuer,
		Repos:        repos,
		Metrics:      metrics.New(prometheus.DefaultRegisterer),
	})
	if err != nil {
		appLogger.Fatal("services creation failed", zap.Error(err))
	}
	handlers := apiHttp.NewHandlers(services, cfg, prometheus.DefaultGatherer)

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	appLogger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("failed to stop server", zap.Error(err))
	}

	appLogger.Info("app stopped")
}

func migrate(cfg config.Database) error {
	dsn, err := db.DSN(cfg)
	if err != nil {
		return err
	}

	migrator, err := migration.NewMigrator(dsn, cfg.DBName)
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			logger.Warn("close migrator failed", zap.Error(err))
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	logger.Info("database schema is up to date", zap.Uint("version", version), zap.Bool("dirty", dirty))

	return nil
}

func smtpConfig(cfg config.SMTPConfig) smtp.Config {
	return smtp.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		UseTLS:   cfg.UseTLS,
		UseSSL:   cfg.UseSSL,
		FromName: cfg.FromName,
		FromAddr: cfg.FromAddr,
	}
}
