package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 is an object in S3 or an S3-compatible store (MinIO, Backblaze B2)
type S3 struct {
	client *s3.Client
	uri    *URI
}

// NewS3 creates an S3 source. Explicit keys win over the default credential chain.
func NewS3(ctx context.Context, uri *URI, cfg *Config) (*S3, error) {
	region := cfg.Region
	if uri.Region != "" {
		region = uri.Region
	}
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" && uri.Endpoint != "" {
		endpoint = "https://" + uri.Endpoint
	}
	if (uri.Provider == "minio" || uri.Provider == "b2") && endpoint == "" {
		return nil, fmt.Errorf("endpoint required for %s", uri.Provider)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		if uri.Provider == "minio" {
			o.UsePathStyle = true
		}
	})

	return &S3{client: client, uri: uri}, nil
}

func (s *S3) Size(ctx context.Context) (int64, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.uri.Bucket),
		Key:    aws.String(s.uri.Key),
	})
	if err != nil {
		return 0, s.wrap("failed to get object metadata", err)
	}
	if out.ContentLength == nil {
		return 0, fmt.Errorf("content length not available for %s", s.uri)
	}
	return *out.ContentLength, nil
}

func (s *S3) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.uri.Bucket),
		Key:    aws.String(s.uri.Key),
	})
	if err != nil {
		return nil, s.wrap("failed to download object", err)
	}
	return out.Body, nil
}

func (s *S3) wrap(msg string, err error) error {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %s", ErrNotFound, s.uri)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *S3) Name() string {
	return s.uri.BaseName()
}

func (s *S3) String() string {
	return s.uri.String()
}
