package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rubbishit/backend/internal/config"
	"github.com/rubbishit/backend/internal/queue/asynqserver"
	"github.com/rubbishit/backend/internal/service"
	"github.com/rubbishit/backend/internal/worker"
	"github.com/rubbishit/backend/pkg/email/smtp"
	"github.com/rubbishit/backend/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	appLogger.Info("starting email worker", zap.String("env", cfg.Env))

	emailSender, err := smtp.NewSMTPSender(smtp.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		UseTLS:   cfg.SMTP.UseTLS,
		UseSSL:   cfg.SMTP.UseSSL,
		FromName: cfg.SMTP.FromName,
		FromAddr: cfg.SMTP.FromAddr,
	})
	if err != nil {
		appLogger.Fatal("smtp sender creation failed", zap.Error(err))
	}

	workers := worker.NewWorkers(worker.Deps{
		Services: &service.Services{
			Emails: service.NewEmailService(emailSender, cfg.Email, cfg.Auth.CodeTTL),
		},
	})

	srv, mux := asynqserver.New(cfg.Cache, cfg.Queue, workers)
	if err := srv.Start(mux); err != nil {
		appLogger.Fatal("asynq server start failed", zap.Error(err))
	}
	appLogger.Info("worker started", zap.Int("concurrency", cfg.Queue.Concurrency))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	srv.Shutdown()

	appLogger.Info("worker stopped")
}
