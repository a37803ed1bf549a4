package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when no object exists under a key.
	ErrNotFound = errors.New("storage: object not found")
	// ErrPresignUnsupported is returned by drivers that cannot hand out upload URLs.
	ErrPresignUnsupported = errors.New("storage: presigned upload not supported")
)

// Storage stores message attachments under opaque keys.
type Storage interface {
	// Put stores content from the reader under key.
	// size is the expected content size (-1 if unknown).
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Delete removes the object under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object exists under key.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the address clients use to fetch the object.
	URL(ctx context.Context, key string) (string, error)
}

// Presigner is implemented by drivers that let clients upload directly.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
}

// Config selects and configures the attachment storage driver.
type Config struct {
	Driver string      `mapstructure:"driver"` // "local", "s3"
	Local  LocalConfig `mapstructure:"local"`
	S3     S3Config    `mapstructure:"s3"`
}

// New builds the configured storage driver.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.Local)
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, errors.New("storage: unsupported driver " + cfg.Driver)
	}
}
