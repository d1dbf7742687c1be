// Package storage writes report artifacts to a local directory or an S3
// bucket behind one interface.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"

	DefaultPresignExpiry = 15 * time.Minute
)

var (
	// ErrFileNotFound is returned when a requested object does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidPath is returned for empty, absolute or escaping paths.
	ErrInvalidPath = errors.New("invalid path")

	// ErrUnsupportedType is returned for an unknown storage type.
	ErrUnsupportedType = errors.New("unsupported storage type")
)

// BlobStorage stores report artifacts by relative path.
type BlobStorage interface {
	// Upload stores data from the reader at the specified path.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download retrieves data from the specified path.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the data at the specified path.
	Delete(ctx context.Context, path string) error

	// Exists checks if data exists at the specified path.
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a location a user can open: a file path for local
	// storage, a presigned URL for S3.
	GetURL(ctx context.Context, path string) (string, error)
}

// Config selects and configures a storage backend.
type Config struct {
	Type string `mapstructure:"type" yaml:"type"`

	// BaseDir is the output directory. For S3 it becomes the key prefix.
	BaseDir string `mapstructure:"-" yaml:"-"`

	S3Bucket        string        `mapstructure:"s3_bucket" yaml:"s3_bucket,omitempty"`
	S3Region        string        `mapstructure:"s3_region" yaml:"s3_region,omitempty"`
	S3PresignExpiry time.Duration `mapstructure:"s3_presign_expiry" yaml:"s3_presign_expiry,omitempty"`
}

// New creates the BlobStorage described by cfg. An empty type means local.
func New(ctx context.Context, cfg Config) (BlobStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", TypeLocal:
		return NewLocalStorage(cfg.BaseDir)

	case TypeS3:
		s, err := NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, s3Prefix(cfg.BaseDir))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		if cfg.S3PresignExpiry > 0 {
			s.presignExpiration = cfg.S3PresignExpiry
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, cfg.Type)
	}
}

// cleanKey validates a relative artifact path and returns it in slash form.
func cleanKey(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: path cannot be empty", ErrInvalidPath)
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: absolute paths not allowed", ErrInvalidPath)
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: path traversal detected", ErrInvalidPath)
	}
	return clean, nil
}

func s3Prefix(dir string) string {
	dir = path.Clean(filepath.ToSlash(dir))
	dir = strings.TrimPrefix(dir, "./")
	if dir == "." || dir == "/" {
		return ""
	}
	return strings.Trim(dir, "/")
}

// ContentType guesses a MIME type from the artifact's extension.
func ContentType(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".json":
		return "application/json"
	case ".html":
		return "text/html; charset=utf-8"
	}
	if t := mime.TypeByExtension(path.Ext(p)); t != "" {
		return t
	}
	return "application/octet-stream"
}
