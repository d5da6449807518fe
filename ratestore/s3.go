package ratestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

// S3 stores one object per date in an Amazon S3 bucket. Credentials and
// region come from the default AWS configuration chain.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 returns an S3 backend for the given bucket.
func NewS3(ctx context.Context, bucket string) (*S3, error) {
	if bucket == "" {
		return nil, errors.New("s3 storage: bucket not set")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 storage: %w", err)
	}
	log.Debug().Str("bucket", bucket).Msg("using s3 rate storage")
	return &S3{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (s *S3) Get(ctx context.Context, day string) (Record, bool, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectName(day)),
	})
	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("s3 storage: %w", err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("s3 storage: %w", err)
	}
	rec, err := decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("s3 storage: %s: %w", day, err)
	}
	return rec, true, nil
}

func (s *S3) Put(ctx context.Context, day string, rec Record) error {
	data, err := encode(rec)
	if err != nil {
		return fmt.Errorf("s3 storage: %s: %w", day, err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectName(day)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("s3 storage: %w", err)
	}
	return nil
}
