package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"call-analysis-go/internal/types"
)

// Writer prints each record as indented JSON. It backs console runs that
// only show the result.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &Writer{enc: enc}
}

func (w *Writer) Save(_ context.Context, rec types.AnalysisRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(rec.Document()); err != nil {
		return fmt.Errorf("stdout: encode record %s: %w", rec.RecordID, err)
	}
	return nil
}

func (w *Writer) Close(context.Context) error { return nil }
