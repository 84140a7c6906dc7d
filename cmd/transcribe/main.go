// Command transcribe runs one recording through the analysis pipeline and
// prints the resulting record as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"call-analysis-go/internal/apperrors"
	"call-analysis-go/internal/bootstrap"
	"call-analysis-go/internal/config"
	"call-analysis-go/internal/logger"
	"call-analysis-go/internal/source"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config file")
	input := flag.String("input", "", "local recording to process")
	name := flag.String("name", "", "logical recording name (defaults to the file name)")
	bucket := flag.String("s3-bucket", "", "bucket holding the recording")
	key := flag.String("s3-key", "", "object key of the recording")
	backend := flag.String("store", "", "override store backend (cosmos, mongo, s3, xlsx, stdout)")
	flag.Parse()

	_ = godotenv.Load()

	if *backend != "" {
		os.Setenv("STORE_BACKEND", *backend)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	// Logs go to stderr so stdout carries only the record.
	log := logger.NewWithOptions(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: os.Stderr})

	var src source.Source
	switch {
	case *input != "":
		src = source.File{Path: *input, Name: *name}
	case *key != "":
		if *bucket == "" {
			*bucket = cfg.Source.S3.Bucket
		}
		if *bucket == "" {
			fmt.Fprintln(os.Stderr, "-s3-key needs -s3-bucket or source.s3.bucket")
			os.Exit(2)
		}
		cfg.Source.S3.Bucket = *bucket
	default:
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, log, nil)
	if err != nil {
		log.WithError(err).Fatal("failed to build pipeline")
	}
	defer app.Close(context.Background())

	if src == nil {
		src = source.S3Object{Client: app.SourceS3, Bucket: *bucket, Key: *key, MaxBytes: cfg.Server.MaxUploadBytes}
	}

	res, err := app.Pipeline.Run(ctx, src)
	if err != nil {
		log.WithError(err).WithField("failed_at", res.FailedAt.String()).Error("run failed")
		app.Close(context.Background())
		os.Exit(exitCode(err))
	}

	if cfg.Store.Backend == "stdout" {
		return // the store already printed it
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Record); err != nil {
		log.WithError(err).Error("failed to write record")
	}
}

func exitCode(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput:
		return 3
	case apperrors.KindMalformedExtraction:
		return 4
	case apperrors.KindRemoteService:
		return 5
	default:
		return 1
	}
}
