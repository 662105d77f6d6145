package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/campushire/platform/internal/config"
)

const (
	// TypeLocal stores files on the local filesystem.
	TypeLocal = "local"
	// TypeS3 stores files in S3 or an S3-compatible backend.
	TypeS3 = "s3"
)

// SaveOptions controls how a backend persists a file. Category organizes
// files (e.g. "resumes", "lessons"); Extension hints the preferred file
// extension without the leading dot.
type SaveOptions struct {
	Category  string
	BaseName  string
	Extension string
}

// Storage persists binary data and returns a backend-specific key.
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// NewStorage instantiates the configured backend.
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", TypeLocal:
		return NewLocalStorage(cfg.LocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
