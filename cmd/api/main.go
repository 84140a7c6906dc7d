package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"call-analysis-go/internal/bootstrap"
	"call-analysis-go/internal/config"
	"call-analysis-go/internal/logger"
	"call-analysis-go/internal/server"
	"call-analysis-go/internal/source"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log = logger.NewWithOptions(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log.WithField("service", "call-analysis-go").WithField("version", cfg.Server.Version).Info("starting service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, log, prometheus.DefaultRegisterer)
	if err != nil {
		log.WithError(err).Fatal("failed to build pipeline")
	}

	opts := server.Options{
		Version:        cfg.Server.Version,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		DefaultBucket:  cfg.Source.S3.Bucket,
	}
	if app.SourceS3 != nil {
		opts.S3 = source.ObjectGetter(app.SourceS3)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.New(app.Pipeline, opts, log).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	if err := app.Close(shutdownCtx); err != nil {
		log.WithError(err).Error("store close")
	}
}
