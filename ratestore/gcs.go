package ratestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
)

// GCS stores one object per date in a Google Cloud Storage bucket.
// Credentials come from the application default chain.
type GCS struct {
	bucket *storage.BucketHandle
}

// NewGCS returns a GCS backend for the given bucket.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	if bucket == "" {
		return nil, errors.New("gcs storage: bucket not set")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs storage: %w", err)
	}
	log.Debug().Str("bucket", bucket).Msg("using gcs rate storage")
	return &GCS{bucket: client.Bucket(bucket)}, nil
}

func (s *GCS) Get(ctx context.Context, day string) (Record, bool, error) {
	r, err := s.bucket.Object(objectName(day)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("gcs storage: %w", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("gcs storage: %w", err)
	}
	rec, err := decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("gcs storage: %s: %w", day, err)
	}
	return rec, true, nil
}

func (s *GCS) Put(ctx context.Context, day string, rec Record) error {
	data, err := encode(rec)
	if err != nil {
		return fmt.Errorf("gcs storage: %s: %w", day, err)
	}
	w := s.bucket.Object(objectName(day)).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs storage: %w", err)
	}
	return nil
}
