package store

import (
	"context"
	"fmt"
	"os"

	"call-analysis-go/internal/config"
	"call-analysis-go/internal/logger"
	"call-analysis-go/internal/s3client"
)

// Open builds the backend selected by cfg.Backend. The returned store is
// shared by every pipeline run and closed once at shutdown.
func Open(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (Store, error) {
	log = log.Component("store").With("backend", cfg.Backend)
	switch cfg.Backend {
	case "cosmos":
		return NewCosmos(cfg.Cosmos.ConnectionString, cfg.Database, cfg.Collection)
	case "mongo":
		return NewMongo(ctx, cfg.Mongo.URI, cfg.Database, cfg.Collection, cfg.Mongo.ConnectTimeout, log)
	case "s3":
		client, err := s3client.New(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return NewS3(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	case "xlsx":
		return NewXLSX(cfg.XLSX.Path, cfg.XLSX.Sheet), nil
	case "stdout":
		return NewWriter(os.Stdout), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}
