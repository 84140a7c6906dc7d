// Package pipeline runs one recording through transcription, extraction,
// assembly and persistence. It is the only package that knows the order of
// those steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"call-analysis-go/internal/apperrors"
	"call-analysis-go/internal/audio"
	"call-analysis-go/internal/extractor"
	"call-analysis-go/internal/logger"
	"call-analysis-go/internal/metrics"
	"call-analysis-go/internal/record"
	"call-analysis-go/internal/source"
	"call-analysis-go/internal/store"
	"call-analysis-go/internal/transcription"
	"call-analysis-go/internal/types"
)

// Config holds the per-call model parameters.
type Config struct {
	TranscriptionModel string
	CompletionModel    string
	MaxTokens          int
}

// Deps are the collaborators, created once at process start and shared
// read-only by every run.
type Deps struct {
	Transcriber transcription.Transcriber
	Completer   extractor.Completer
	Store       store.Store
	Assembler   *record.Assembler
	Metrics     *metrics.Metrics // optional
	Log         *logger.Logger   // optional
	Clock       func() time.Time // optional, defaults to time.Now
}

// Orchestrator holds no per-run state, so concurrent Process calls for
// different recordings are safe.
type Orchestrator struct {
	cfg  Config
	deps Deps
	log  *logger.Logger
}

// Result describes a finished run. Record is set only when the run reached Done.
type Result struct {
	RunID     string
	Recording string
	State     State
	// FailedAt is the state the run was in when it failed.
	FailedAt State
	Record   *types.AnalysisRecord
	Duration time.Duration
}

// New validates the collaborators and fills defaults: MaxTokens falls back to
// extractor.DefaultMaxTokens, Clock to time.Now and Log to logger.New().
func New(cfg Config, deps Deps) (*Orchestrator, error) {
	if deps.Transcriber == nil || deps.Completer == nil || deps.Store == nil || deps.Assembler == nil {
		return nil, errors.New("pipeline: transcriber, completer, store and assembler are required")
	}
	if cfg.TranscriptionModel == "" || cfg.CompletionModel == "" {
		return nil, errors.New("pipeline: model identifiers are required")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = extractor.DefaultMaxTokens
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	log := deps.Log
	if log == nil {
		log = logger.New()
	}
	return &Orchestrator{cfg: cfg, deps: deps, log: log.Component("pipeline")}, nil
}

// Run fetches the recording from src and processes it.
func (o *Orchestrator) Run(ctx context.Context, src source.Source) (Result, error) {
	rec, err := src.Open(ctx)
	if err != nil {
		r := o.newRun("")
		if apperrors.KindOf(err) == "" {
			e := apperrors.InvalidInput("recording source failed")
			e.Cause = err
			err = e
		}
		return r.fail(err)
	}
	return o.Process(ctx, rec)
}

// Process runs one recording end to end. Every failure ends the run in
// Failed with an *apperrors.Error; nothing is retried and nothing already
// done is undone.
func (o *Orchestrator) Process(ctx context.Context, rec source.Recording) (Result, error) {
	r := o.newRun(rec.Name)
	r.log.WithField("bytes", len(rec.Data)).Info("recording received")
	o.deps.Metrics.RecordingReceived(len(rec.Data))

	if rec.Name == "" {
		return r.fail(apperrors.InvalidInput("recording name is empty"))
	}
	if len(rec.Data) == 0 {
		return r.fail(apperrors.InvalidInput("recording is empty"))
	}
	stream := audio.NewNamedStream(rec.Data, rec.Name)
	r.log = r.log.WithField("format", stream.Ext())

	r.enter(Transcribing)
	transcript, err := o.deps.Transcriber.Transcribe(ctx, stream, o.cfg.TranscriptionModel)
	if err != nil {
		return r.fail(remote(transcription.Service, err))
	}

	r.enter(Extracting)
	raw, err := o.deps.Completer.Complete(ctx, extractor.BuildPrompt(transcript), o.cfg.CompletionModel, o.cfg.MaxTokens)
	if err != nil {
		return r.fail(remote(extractor.Service, err))
	}
	fields, err := extractor.Parse(raw)
	if err != nil {
		r.log.WithField("raw_response", raw).Warn("completion did not match the extraction schema")
		return r.fail(err)
	}

	r.enter(Assembling)
	analysis := o.deps.Assembler.Assemble(transcript, fields, o.deps.Clock())
	r.log = r.log.WithField("record_id", analysis.RecordID).WithField("partition_key", analysis.PartitionKey)

	r.enter(Persisting)
	if err := o.deps.Store.Save(ctx, analysis); err != nil {
		return r.fail(remote(store.Service, err))
	}

	r.enter(Done)
	o.deps.Metrics.RunFinished(Done.String(), "")
	res := r.result()
	res.Record = &analysis
	r.log.WithField("duration_ms", res.Duration.Milliseconds()).Info("pipeline run finished")
	return res, nil
}

func (o *Orchestrator) newRun(name string) *run {
	id := uuid.NewString()
	now := time.Now()
	return &run{
		o:          o,
		id:         id,
		name:       name,
		state:      Received,
		start:      now,
		stageStart: now,
		log:        o.log.WithField("run_id", id).WithField("recording", name),
	}
}

// run is the state of a single Process call.
type run struct {
	o          *Orchestrator
	id         string
	name       string
	state      State
	failedAt   State
	start      time.Time
	stageStart time.Time
	log        *logrus.Entry
}

func (r *run) enter(next State) {
	now := time.Now()
	if r.state != Received {
		r.o.deps.Metrics.ObserveStage(r.state.String(), now.Sub(r.stageStart))
	}
	r.log.WithField("from", r.state.String()).WithField("to", next.String()).Debug("state transition")
	r.state, r.stageStart = next, now
}

func (r *run) fail(err error) (Result, error) {
	r.failedAt = r.state
	r.state = Failed
	kind := apperrors.KindOf(err)
	r.o.deps.Metrics.RunFinished(Failed.String(), string(kind))
	r.log.WithField("error", err.Error()).WithField("failed_at", r.failedAt.String()).
		WithField("kind", string(kind)).Error("pipeline run failed")
	return r.result(), fmt.Errorf("process %q: %w", r.name, err)
}

func (r *run) result() Result {
	return Result{
		RunID:     r.id,
		Recording: r.name,
		State:     r.state,
		FailedAt:  r.failedAt,
		Duration:  time.Since(r.start),
	}
}

// remote classifies a collaborator error, keeping a kind it already carries.
func remote(service string, err error) error {
	if apperrors.KindOf(err) != "" {
		return err
	}
	return apperrors.RemoteService(service, err)
}
