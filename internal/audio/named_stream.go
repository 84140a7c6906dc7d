// Package audio adapts raw recording bytes into the file-like input the
// transcription service expects.
//
// Speech-to-text endpoints infer the audio format from the uploaded file
// name, so a bare byte buffer (a blob payload, an HTTP body) is not enough:
// it has to travel together with a name that carries the extension.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// NamedStream is a seekable, read-only view over a recording plus the
// logical file name it should be uploaded under.
//
// The underlying slice is not copied and must not be modified after
// construction. A NamedStream is meant to be consumed by one transcription
// call; Seek back to the start before reading it again.
type NamedStream struct {
	name string
	data []byte
	*bytes.Reader
}

// NewNamedStream wraps data under name. It performs no validation: an
// unsupported extension is reported by the transcription service itself.
func NewNamedStream(data []byte, name string) *NamedStream {
	if data == nil {
		data = []byte{}
	}
	return &NamedStream{
		name:   name,
		data:   data,
		Reader: bytes.NewReader(data),
	}
}

// FromReader drains r and returns its content under a new name. It is used
// when a stream arrives without a usable name (or without an extension) and
// has to be renamed before upload.
func FromReader(r io.Reader, name string) (*NamedStream, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stream %q: %w", name, err)
	}
	return NewNamedStream(data, name), nil
}

// Name returns the logical file name, extension included.
func (s *NamedStream) Name() string { return s.name }

// Ext returns the lower-cased extension without the dot, or "" if the name has none.
func (s *NamedStream) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(s.name)), ".")
}

// Bytes returns the wrapped content. Callers must not modify it.
func (s *NamedStream) Bytes() []byte { return s.data }

// String implements fmt.Stringer for log fields.
func (s *NamedStream) String() string {
	return fmt.Sprintf("%s (%d bytes)", s.name, len(s.data))
}
