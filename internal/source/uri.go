package source

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// URI is a parsed object-storage location such as s3://bucket/talks/a.wav
type URI struct {
	Provider string // "s3", "minio", "b2", "gs", "azure"
	Bucket   string // bucket or container
	Key      string // object key, no leading slash
	Region   string // from an amazonaws.com host, if present
	Endpoint string // custom host for S3-compatible stores
	Raw      string
}

var providers = map[string]string{
	"s3":    "s3",
	"minio": "minio",
	"b2":    "b2",
	"gs":    "gs",
	"gcs":   "gs",
	"azure": "azure",
}

// ParseURI parses an object-storage URI.
// Supported forms:
//   - s3://bucket/key
//   - s3://bucket.s3.region.amazonaws.com/key
//   - minio://host.example:9000/bucket/key
//   - b2://bucket/key
//   - gs://bucket/key, gcs://bucket/key
//   - azure://container/blob
func ParseURI(raw string) (*URI, error) {
	if raw == "" {
		return nil, fmt.Errorf("URI cannot be empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid URI: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme == "" {
		return nil, fmt.Errorf("URI must have a scheme (e.g., s3://)")
	}
	provider, ok := providers[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: s3, minio, b2, gs, azure)", ErrUnsupportedProvider, scheme)
	}

	host := parsed.Host
	if host == "" {
		return nil, fmt.Errorf("URI must specify a bucket (e.g., %s://bucket/key)", scheme)
	}

	u := &URI{Provider: provider, Bucket: host, Raw: raw}
	key := strings.TrimPrefix(parsed.Path, "/")

	switch {
	case strings.HasSuffix(host, ".amazonaws.com"):
		// bucket.s3.us-west-2.amazonaws.com or bucket.s3-us-west-2.amazonaws.com
		parts := strings.Split(host, ".")
		u.Bucket = parts[0]
		for i, part := range parts {
			if part == "s3" && i+1 < len(parts) && parts[i+1] != "amazonaws" {
				u.Region = parts[i+1]
				break
			}
			if strings.HasPrefix(part, "s3-") {
				u.Region = strings.TrimPrefix(part, "s3-")
				break
			}
		}
	case (provider == "s3" || provider == "minio") && strings.ContainsAny(host, ".:"):
		// Host is an endpoint; bucket is the first path element
		u.Endpoint = host
		bucket, rest, _ := strings.Cut(key, "/")
		if bucket == "" {
			return nil, fmt.Errorf("URI must specify a bucket after the endpoint host")
		}
		u.Bucket = bucket
		key = rest
	}

	if key == "" {
		return nil, fmt.Errorf("URI must specify an object key (e.g., %s://bucket/file.wav)", scheme)
	}
	u.Key = key

	return u, nil
}

// IsCloudURI reports whether s looks like an object-storage URI
func IsCloudURI(s string) bool {
	scheme, _, ok := strings.Cut(s, "://")
	if !ok {
		return false
	}
	_, known := providers[strings.ToLower(scheme)]
	return known
}

// String returns the original URI
func (u *URI) String() string {
	return u.Raw
}

// BaseName returns the object's file name
func (u *URI) BaseName() string {
	return path.Base(u.Key)
}
