// Package ratestore persists daily exchange-rate snapshots under
// interchangeable backends: local disk, Amazon S3, Google Cloud Storage,
// or disabled entirely. One record is kept per calendar date, keyed by
// its ISO date string; a record maps currency codes to decimal rate
// strings. The package is pure storage and carries no currency logic.
package ratestore

import (
	"context"
	"fmt"
)

// Record is one date's snapshot: currency code -> decimal rate string.
type Record map[string]string

// Store saves and loads one rate record per calendar date. Get is
// idempotent and side-effect free; Put is safe to retry, overwriting a
// date with the same content is a no-op in effect.
type Store interface {
	// Get returns the record stored for the given ISO date, or ok=false
	// when the backend holds nothing for that date.
	Get(ctx context.Context, day string) (rec Record, ok bool, err error)
	// Put stores the record for the given ISO date, replacing any
	// previous content.
	Put(ctx context.Context, day string, rec Record) error
}

// Kind selects a storage backend at configuration time.
type Kind int

const (
	KindDisabled Kind = iota
	KindLocal
	KindAWS
	KindGCP
)

func (k Kind) String() string {
	switch k {
	case KindDisabled:
		return "disabled"
	case KindLocal:
		return "local"
	case KindAWS:
		return "aws"
	case KindGCP:
		return "gcp"
	default:
		return "unknown"
	}
}

// ParseKind parses a backend name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "disabled":
		return KindDisabled, nil
	case "local":
		return KindLocal, nil
	case "aws":
		return KindAWS, nil
	case "gcp":
		return KindGCP, nil
	default:
		return 0, fmt.Errorf("unknown storage backend: %q", s)
	}
}

// Config selects and locates a backend. Location is the directory for
// the local backend and the bucket name for the object-storage ones.
type Config struct {
	Kind     Kind
	Location string
}

// Open builds the configured backend, wrapped in the in-memory cache
// layer. Backend selection is a configuration-time choice; the program
// never mixes backends at run time.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		inner Store
		err   error
	)
	switch cfg.Kind {
	case KindDisabled:
		return Disabled{}, nil
	case KindLocal:
		inner, err = NewLocal(cfg.Location)
	case KindAWS:
		inner, err = NewS3(ctx, cfg.Location)
	case KindGCP:
		inner, err = NewGCS(ctx, cfg.Location)
	default:
		return nil, fmt.Errorf("unknown storage backend: %v", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}
	return Cached(inner), nil
}

// Disabled is the no-op backend: loads are always absent and saves
// succeed trivially.
type Disabled struct{}

func (Disabled) Get(context.Context, string) (Record, bool, error) { return nil, false, nil }
func (Disabled) Put(context.Context, string, Record) error         { return nil }
