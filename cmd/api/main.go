package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "ats-backend/docs" // Swagger docs
	"ats-backend/internal/api"
	"ats-backend/internal/auth"
	"ats-backend/internal/config"
	"ats-backend/internal/logger"
	"ats-backend/internal/screening"
	"ats-backend/internal/storage"
)

// @title ATS Backend API
// @version 1.0
// @description Applicant Tracking System backend with an asynchronous AI candidate-screening pipeline

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().WithError(err).Fatal("loading configuration")
	}

	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log := logger.Component("main")

	log.Info("connecting to database")
	db, err := storage.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("db open")
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		log.WithError(err).Fatal("ensuring schema")
	}
	log.Info("database ready")

	tokens := auth.NewManager(cfg.JWTSecret)

	scorer := screening.NewClient(screening.ClientConfig{
		BaseURL:    cfg.AIBackendURL,
		Timeout:    cfg.AITimeout,
		MaxRetries: cfg.ScreenMaxRetries,
		BaseDelay:  cfg.ScreenBaseDelay,
		MaxBackoff: cfg.ScreenMaxBackoff,
	}, tokens)

	worker := screening.NewWorker(db, scorer, screening.WorkerConfig{
		Interval:   cfg.ScreenInterval,
		BaseDelay:  cfg.ScreenBaseDelay,
		MaxBackoff: cfg.ScreenMaxBackoff,
	})
	worker.Start(ctx)

	apiSrv := api.NewAPI(db, cfg, tokens, worker)
	router := api.NewRouter(apiSrv)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second, // resume uploads
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel() // stop the screening worker

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.WithField("port", cfg.Port).Info("API server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server failed")
	}

	<-idleConnsClosed
}
