package source

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNotFound is returned when the file or object does not exist
	ErrNotFound = errors.New("source not found")
	// ErrUnsupportedProvider is returned for an unknown URI scheme
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// Source is an audio input whose size can be known before it is read
type Source interface {
	// Size returns the length in bytes
	Size(ctx context.Context) (int64, error)
	// Open returns a reader over the full content
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name is the file name sent with the upload
	Name() string
	String() string
}

// Config carries credentials and endpoints for remote sources
type Config struct {
	Endpoint  string // custom endpoint (MinIO, B2, fake-gcs-server, Azurite)
	Region    string
	AccessKey string // S3 access key, Azure account name or GCS credentials file
	SecretKey string
}

// Open resolves a location to a Source. Plain paths are local files.
func Open(ctx context.Context, location string, cfg *Config) (Source, error) {
	if !IsCloudURI(location) {
		return NewLocal(location), nil
	}
	if cfg == nil {
		cfg = &Config{}
	}

	uri, err := ParseURI(location)
	if err != nil {
		return nil, err
	}

	switch uri.Provider {
	case "s3", "minio", "b2":
		return NewS3(ctx, uri, cfg)
	case "gs":
		return NewGCS(ctx, uri, cfg)
	case "azure":
		return NewAzure(uri, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, uri.Provider)
	}
}
