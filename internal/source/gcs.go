package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS is an object in Google Cloud Storage
type GCS struct {
	client *storage.Client
	uri    *URI
}

// NewGCS creates a GCS source. A custom endpoint (fake-gcs-server) is used
// without authentication; AccessKey, if set, names a service account key file.
func NewGCS(ctx context.Context, uri *URI, cfg *Config) (*GCS, error) {
	var opts []option.ClientOption
	switch {
	case cfg.Endpoint != "":
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	case cfg.AccessKey != "":
		opts = append(opts, option.WithCredentialsFile(cfg.AccessKey))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCS{client: client, uri: uri}, nil
}

func (g *GCS) object() *storage.ObjectHandle {
	return g.client.Bucket(g.uri.Bucket).Object(g.uri.Key)
}

func (g *GCS) Size(ctx context.Context) (int64, error) {
	attrs, err := g.object().Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, g.uri)
		}
		return 0, fmt.Errorf("failed to get object attributes: %w", err)
	}
	return attrs.Size, nil
}

func (g *GCS) Open(ctx context.Context) (io.ReadCloser, error) {
	reader, err := g.object().NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, g.uri)
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return reader, nil
}

func (g *GCS) Name() string {
	return g.uri.BaseName()
}

func (g *GCS) String() string {
	return g.uri.String()
}
