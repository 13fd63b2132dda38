package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dshills/venuetrust/internal/trust"
)

// ObjectPutter is the subset of the S3 client used for archiving.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 archives each report event as one JSON object under
// <prefix>/<venue-id>/<evaluation-time>.json.
type S3 struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3 builds a client from the default AWS credential chain.
func NewS3(ctx context.Context, region, bucket, prefix string) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("publish.NewS3: load SDK config: %w", err)
	}
	return NewS3WithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewS3WithClient wraps an existing client.
func NewS3WithClient(client ObjectPutter, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3) Name() string { return "s3" }

// Key returns the object key a report is written to.
func (s *S3) Key(r *trust.Report) string {
	return path.Join(s.prefix, r.Venue.ID, r.Meta.Now.UTC().Format("20060102T150405Z")+".json")
}

func (s *S3) Publish(ctx context.Context, r *trust.Report) error {
	body, err := json.MarshalIndent(NewEvent(r), "", "  ")
	if err != nil {
		return fmt.Errorf("publish.S3: marshal: %w", err)
	}
	key := s.Key(r)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("publish.S3: put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *S3) Close() error { return nil }
