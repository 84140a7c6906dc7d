// Package store persists analysis records. Writes are fire-and-forget from
// the pipeline's point of view: a record is written once and never read back.
package store

import (
	"context"

	"call-analysis-go/internal/types"
)

// Service is the collaborator name used in RemoteService errors.
const Service = "persistence"

// Store writes one analysis record per call.
type Store interface {
	Save(ctx context.Context, rec types.AnalysisRecord) error
	Close(ctx context.Context) error
}
