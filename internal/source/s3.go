package source

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"call-analysis-go/internal/apperrors"
	"call-analysis-go/internal/audio"
)

// Service is the collaborator name used in RemoteService errors.
const Service = "recording-source"

// ObjectGetter is the subset of *s3.Client used to fetch recordings.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
}

// S3Object fetches a recording from a bucket, typically in response to an
// object-created notification. The logical name is the key's base name.
type S3Object struct {
	Client ObjectGetter
	Bucket string
	Key    string
	// MaxBytes rejects larger objects; 0 means no limit.
	MaxBytes int64
}

func (s S3Object) Open(ctx context.Context) (Recording, error) {
	out, err := s.Client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return Recording{}, apperrors.RemoteService(Service, fmt.Errorf("s3 get %s/%s: %w", s.Bucket, s.Key, err))
	}
	defer out.Body.Close()

	var r io.Reader = out.Body
	if s.MaxBytes > 0 {
		r = io.LimitReader(out.Body, s.MaxBytes+1)
	}
	stream, err := audio.FromReader(r, path.Base(s.Key))
	if err != nil {
		return Recording{}, apperrors.RemoteService(Service, fmt.Errorf("s3 read %s/%s: %w", s.Bucket, s.Key, err))
	}
	if s.MaxBytes > 0 && stream.Size() > s.MaxBytes {
		return Recording{}, apperrors.InvalidInput(fmt.Sprintf("s3 object %s/%s exceeds %d bytes", s.Bucket, s.Key, s.MaxBytes))
	}
	return Recording{Name: stream.Name(), Data: stream.Bytes()}, nil
}
