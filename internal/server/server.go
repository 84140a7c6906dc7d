// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"call-analysis-go/internal/apperrors"
	"call-analysis-go/internal/audio"
	"call-analysis-go/internal/logger"
	"call-analysis-go/internal/pipeline"
	"call-analysis-go/internal/source"
	"call-analysis-go/internal/types"
)

// Runner is the part of *pipeline.Orchestrator the handlers need.
type Runner interface {
	Run(ctx context.Context, src source.Source) (pipeline.Result, error)
}

// Options configures the HTTP surface.
type Options struct {
	Version        string
	MaxUploadBytes int64
	// S3 fetches recordings for /recordings/s3; nil disables the route.
	S3 source.ObjectGetter
	// DefaultBucket is used when the notification omits the bucket.
	DefaultBucket string
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// Server routes HTTP requests into pipeline runs.
type Server struct {
	runner Runner
	opts   Options
	log    *logger.Logger
}

// New returns a Server; a nil Options.Gatherer uses the default registry.
func New(runner Runner, opts Options, log *logger.Logger) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{runner: runner, opts: opts, log: log.Component("http")}
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)
	mux.HandleFunc("POST /recordings", s.handleUpload)
	mux.HandleFunc("POST /recordings/s3", s.handleS3)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, s.opts.Version)
}

// handleUpload accepts either a multipart form with a "file" part or the raw
// audio as the request body.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "upload")
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	rec, err := readUpload(r)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			reqLog.WithField("limit", tooBig.Limit).Warn("upload too large")
			http.Error(w, "recording too large", http.StatusRequestEntityTooLarge)
			return
		}
		reqLog.WithError(err).Warn("could not read upload")
		http.Error(w, "could not read recording", http.StatusBadRequest)
		return
	}
	reqLog = reqLog.WithField("recording", rec.Name).WithField("bytes", len(rec.Data))
	reqLog.Info("recording uploaded")

	start := time.Now()
	res, err := s.runner.Run(r.Context(), source.Bytes(rec))
	reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("pipeline finished")
	s.respond(w, reqLog, res, err)
}

func (s *Server) handleS3(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "s3")
	if s.opts.S3 == nil {
		http.Error(w, "s3 source not configured", http.StatusNotImplemented)
		return
	}
	bucket := r.URL.Query().Get("bucket")
	if bucket == "" {
		bucket = s.opts.DefaultBucket
	}
	key := r.URL.Query().Get("key")
	if bucket == "" || key == "" {
		http.Error(w, "missing bucket or key", http.StatusBadRequest)
		return
	}
	reqLog = reqLog.WithField("bucket", bucket).WithField("key", key)
	reqLog.Info("object notification received")

	res, err := s.runner.Run(r.Context(), source.S3Object{
		Client:   s.opts.S3,
		Bucket:   bucket,
		Key:      key,
		MaxBytes: s.opts.MaxUploadBytes,
	})
	s.respond(w, reqLog, res, err)
}

func readUpload(r *http.Request) (source.Recording, error) {
	var body io.Reader = r.Body
	filename := ""
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return source.Recording{}, err
		}
		defer f.Close()
		body, filename = f, hdr.Filename
	}
	stream, err := audio.FromReader(body, uploadName(r, filename))
	if err != nil {
		return source.Recording{}, err
	}
	return source.Recording{Name: stream.Name(), Data: stream.Bytes()}, nil
}

// uploadName prefers ?name=, then the multipart file name, then X-Recording-Name.
func uploadName(r *http.Request, filename string) string {
	if n := strings.TrimSpace(r.URL.Query().Get("name")); n != "" {
		return n
	}
	if filename != "" {
		return filename
	}
	return strings.TrimSpace(r.Header.Get("X-Recording-Name"))
}

type runResponse struct {
	RunID      string                `json:"runId"`
	Recording  string                `json:"recording"`
	State      pipeline.State        `json:"state"`
	FailedAt   *pipeline.State       `json:"failedAt,omitempty"`
	DurationMs int64                 `json:"durationMs"`
	Record     *types.AnalysisRecord `json:"record,omitempty"`
	Error      *apperrors.Error      `json:"error,omitempty"`
	Detail     string                `json:"detail,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, log *logrus.Entry, res pipeline.Result, err error) {
	body := runResponse{
		RunID:      res.RunID,
		Recording:  res.Recording,
		State:      res.State,
		DurationMs: res.Duration.Milliseconds(),
		Record:     res.Record,
	}
	status := http.StatusOK
	if err != nil {
		failedAt := res.FailedAt
		body.FailedAt = &failedAt
		status = apperrors.StatusOf(err)
		if !errors.As(err, &body.Error) {
			body.Error = apperrors.Internal(err)
		}
		body.Detail = err.Error()
		log.WithField("error", err.Error()).WithField("status", status).Warn("run failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(body); err != nil {
		log.WithField("error", err.Error()).Error("failed to write response")
	}
}
