// Package bootstrap wires configuration into a ready pipeline. Both binaries
// build their collaborators here so they behave identically.
package bootstrap

import (
	"context"
	"fmt"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	"call-analysis-go/internal/config"
	"call-analysis-go/internal/extractor"
	"call-analysis-go/internal/logger"
	"call-analysis-go/internal/metrics"
	"call-analysis-go/internal/openaiclient"
	"call-analysis-go/internal/pipeline"
	"call-analysis-go/internal/record"
	"call-analysis-go/internal/s3client"
	"call-analysis-go/internal/store"
	"call-analysis-go/internal/transcription"
)

// App holds the long-lived collaborators of a process.
type App struct {
	Pipeline *pipeline.Orchestrator
	Store    store.Store
	Metrics  *metrics.Metrics
	// SourceS3 is nil unless source.s3 names a bucket or an endpoint.
	SourceS3 *awss3.Client
}

// Build creates clients, opens the store and assembles the orchestrator.
// reg may be nil to skip metrics.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger, reg prometheus.Registerer) (*App, error) {
	asm, err := record.NewAssembler(cfg.Record.Locale, cfg.Record.Timezone, record.IDScheme(cfg.Record.IDScheme))
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	oc := openaiclient.New(cfg.OpenAI)
	orc, err := pipeline.New(pipeline.Config{
		TranscriptionModel: cfg.OpenAI.TranscriptionModel,
		CompletionModel:    cfg.OpenAI.CompletionModel,
		MaxTokens:          cfg.OpenAI.MaxTokens,
	}, pipeline.Deps{
		Transcriber: transcription.NewOpenAIClient(oc, log),
		Completer:   extractor.NewOpenAICompleter(oc, log),
		Store:       st,
		Assembler:   asm,
		Metrics:     m,
		Log:         log,
	})
	if err != nil {
		st.Close(ctx)
		return nil, err
	}

	app := &App{Pipeline: orc, Store: st, Metrics: m}
	if cfg.Source.S3.Bucket != "" || cfg.Source.S3.Endpoint != "" {
		app.SourceS3, err = s3client.New(ctx, cfg.Source.S3)
		if err != nil {
			st.Close(ctx)
			return nil, fmt.Errorf("recording source s3 client: %w", err)
		}
	}

	log.WithField("provider", cfg.OpenAI.Provider).
		WithField("store", cfg.Store.Backend).
		WithField("locale", cfg.Record.Locale).
		Info("pipeline ready")
	return app, nil
}

// Close releases the store connection.
func (a *App) Close(ctx context.Context) error {
	return a.Store.Close(ctx)
}
