package ratestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Local stores one file per date under a directory.
type Local struct {
	dir string
}

// NewLocal creates the directory if needed and returns the backend.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("local storage: directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}
	log.Debug().Str("dir", dir).Msg("using local rate storage")
	return &Local{dir: dir}, nil
}

func (s *Local) Get(_ context.Context, day string) (Record, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, objectName(day)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("local storage: %w", err)
	}
	rec, err := decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("local storage: %s: %w", day, err)
	}
	return rec, true, nil
}

func (s *Local) Put(_ context.Context, day string, rec Record) error {
	data, err := encode(rec)
	if err != nil {
		return fmt.Errorf("local storage: %s: %w", day, err)
	}
	// Write-then-rename so a concurrent reader never sees a torn file.
	file := filepath.Join(s.dir, objectName(day))
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("local storage: %w", err)
	}
	if err := os.Rename(tmp, file); err != nil {
		return fmt.Errorf("local storage: %w", err)
	}
	return nil
}
