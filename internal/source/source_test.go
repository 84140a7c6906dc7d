package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"call-analysis-go/internal/apperrors"
)

func TestFileSourceNames(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "test")
	if err := os.WriteFile(p, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		src  File
		want string
	}{
		{"base name by default", File{Path: p}, "test"},
		{"renamed with extension", File{Path: p, Name: "test.wav"}, "test.wav"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := tt.src.Open(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if rec.Name != tt.want || string(rec.Data) != "RIFF" {
				t.Errorf("got %q / %q", rec.Name, rec.Data)
			}
		})
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := File{Path: filepath.Join(t.TempDir(), "gone.wav")}.Open(context.Background())
	if !apperrors.IsKind(err, apperrors.KindInvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("cause should be kept")
	}
}

func TestBytesSource(t *testing.T) {
	rec, err := Bytes{Name: "up.wav", Data: []byte{1, 2}}.Open(context.Background())
	if err != nil || rec.Name != "up.wav" || len(rec.Data) != 2 {
		t.Fatalf("got %+v, %v", rec, err)
	}
}

type fakeGetter struct {
	body []byte
	err  error
	in   *awss3.GetObjectInput
}

func (f *fakeGetter) GetObject(_ context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func TestS3ObjectSource(t *testing.T) {
	g := &fakeGetter{body: []byte("wav-data")}
	rec, err := S3Object{Client: g, Bucket: "calls", Key: "2024/06/call17.wav"}.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rec.Name != "call17.wav" || string(rec.Data) != "wav-data" {
		t.Errorf("got %+v", rec)
	}
	if aws.ToString(g.in.Bucket) != "calls" || aws.ToString(g.in.Key) != "2024/06/call17.wav" {
		t.Errorf("input = %+v", g.in)
	}
}

func TestS3ObjectSourceErrors(t *testing.T) {
	_, err := S3Object{Client: &fakeGetter{err: errors.New("AccessDenied")}, Bucket: "b", Key: "k.wav"}.Open(context.Background())
	if !apperrors.IsKind(err, apperrors.KindRemoteService) {
		t.Errorf("expected RemoteService, got %v", err)
	}

	_, err = S3Object{Client: &fakeGetter{body: make([]byte, 11)}, Bucket: "b", Key: "k.wav", MaxBytes: 10}.Open(context.Background())
	if !apperrors.IsKind(err, apperrors.KindInvalidInput) {
		t.Errorf("expected InvalidInput for oversize object, got %v", err)
	}
}

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("connection reset by peer") }
func (brokenBody) Close() error             { return nil }

type brokenGetter struct{}

func (brokenGetter) GetObject(context.Context, *awss3.GetObjectInput, ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	return &awss3.GetObjectOutput{Body: brokenBody{}}, nil
}

func TestS3ObjectSourceBodyReadError(t *testing.T) {
	_, err := S3Object{Client: brokenGetter{}, Bucket: "b", Key: "calls/k.wav"}.Open(context.Background())
	if !apperrors.IsKind(err, apperrors.KindRemoteService) {
		t.Fatalf("expected RemoteService, got %v", err)
	}
	if !strings.Contains(err.Error(), `"k.wav"`) {
		t.Errorf("error should name the stream: %v", err)
	}
}
