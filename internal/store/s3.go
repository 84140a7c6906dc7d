package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"call-analysis-go/internal/types"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// S3 stores each record as a JSON object under
// <prefix>/<partition key>/<record id>.json.
type S3 struct {
	client objectPutter
	bucket string
	prefix string
}

// NewS3 writes into bucket under prefix; client is usually an *s3.Client.
func NewS3(client objectPutter, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key a record is written to.
func (s *S3) Key(rec types.AnalysisRecord) string {
	return path.Join(s.prefix, rec.PartitionKey, rec.RecordID+".json")
}

func (s *S3) Save(ctx context.Context, rec types.AnalysisRecord) error {
	body, err := json.Marshal(rec.Document())
	if err != nil {
		return fmt.Errorf("s3: encode record: %w", err)
	}
	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(rec)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3: put %s: %w", s.Key(rec), err)
	}
	return nil
}

func (s *S3) Close(context.Context) error { return nil }
