package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mkhisamo/learn-english/internal/api"
	"github.com/Mkhisamo/learn-english/internal/config"
	"github.com/Mkhisamo/learn-english/internal/db"
	"github.com/Mkhisamo/learn-english/internal/logger"
	"github.com/Mkhisamo/learn-english/internal/progress"
	"github.com/Mkhisamo/learn-english/internal/repository/sqlite"
	"github.com/Mkhisamo/learn-english/internal/services"
	"github.com/Mkhisamo/learn-english/internal/storage"
	"github.com/Mkhisamo/learn-english/internal/telegram"
	"github.com/Mkhisamo/learn-english/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Word Trainer Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("notify_worker_count=%d", cfg.NotifyWorkerCount)
	log.Debug("notify_queue_size=%d", cfg.NotifyQueueSize)
	log.Debug("default_question_count=%d", cfg.DefaultQuestions)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	wordRepo := sqlite.NewWordRepository(database.DB)
	categoryRepo := sqlite.NewCategoryRepository(database.DB)
	progressStore := progress.NewStore(storage.NewSQLiteStore(database.DB))

	var notifier telegram.Notifier
	creds := telegram.Credentials{Token: cfg.TelegramBotToken, ChatID: cfg.TelegramChatID}
	if creds.Configured() {
		bot, err := telegram.NewBotNotifier(creds)
		if err != nil {
			log.Error("failed to set up telegram bot: %v", err)
			os.Exit(1)
		}
		notifier = bot
	} else {
		log.Warn("telegram credentials not configured, notifications disabled")
	}

	notifyPool := worker.NewPool(cfg.NotifyWorkerCount, cfg.NotifyQueueSize)

	srv := &api.Server{
		Words:    services.NewWordService(wordRepo, categoryRepo),
		Training: services.NewTrainingService(wordRepo, categoryRepo, progressStore, cfg.DefaultQuestions),
		Progress: services.NewProgressService(progressStore),
		Notify:   services.NewNotifyService(notifier, notifyPool),
		Gate:     api.NewGate(cfg.ParentPassword, time.Duration(cfg.UnlockDelayMillis)*time.Millisecond),
	}

	ctx, cancel := context.WithCancel(context.Background())
	notifyPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	notifyPool.Stop()

	log.Info("===========================================")
	log.Info("Word Trainer Server Stopped")
	log.Info("===========================================")
}
