package source

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of *s3.Client used by S3.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ S3API = (*s3.Client)(nil)

type S3 struct {
	bucket string
	key    string
	client S3API
}

var _ Source = (*S3)(nil)

type S3Option func(*S3)

func WithS3Bucket(bucket string) S3Option {
	return func(s *S3) {
		s.bucket = bucket
	}
}

func WithS3Key(key string) S3Option {
	return func(s *S3) {
		s.key = key
	}
}

func WithS3Client(clt S3API) S3Option {
	return func(s *S3) {
		s.client = clt
	}
}

func NewS3(opts ...S3Option) *S3 {
	ret := new(S3)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *S3) Name() string {
	return "s3://" + s.bucket + "/" + s.key
}

func (s *S3) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.client == nil {
		return nil, ErrNoClient
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	return resp.Body, nil
}

func (s *S3) Meta() map[string]string {
	return map[string]string{
		"source": "s3",
		"bucket": s.bucket,
		"key":    s.key,
	}
}
