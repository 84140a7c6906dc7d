// Package source delivers recordings to the pipeline. The pipeline only needs
// bytes and a logical name; how they arrive (local file, HTTP upload, object
// store notification) is decided here.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"call-analysis-go/internal/apperrors"
)

// Recording is a raw audio buffer and the logical file name it arrived under.
type Recording struct {
	Name string
	Data []byte
}

// Source yields one recording.
type Source interface {
	Open(ctx context.Context) (Recording, error)
}

// Bytes is an already-received recording, e.g. an HTTP request body.
type Bytes Recording

func (b Bytes) Open(context.Context) (Recording, error) {
	return Recording(b), nil
}

// File reads a recording from the local filesystem. Name overrides the
// logical name; use it when the file on disk has no usable extension.
type File struct {
	Path string
	Name string
}

func (f File) Open(context.Context) (Recording, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		e := apperrors.InvalidInput(fmt.Sprintf("read recording %s", f.Path))
		e.Cause = err
		return Recording{}, e
	}
	name := f.Name
	if name == "" {
		name = filepath.Base(f.Path)
	}
	return Recording{Name: name, Data: data}, nil
}
