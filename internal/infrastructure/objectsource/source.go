// Package objectsource opens dataset files named by a location string:
// s3://bucket/key, http(s)://host/path, or a local path.
package objectsource

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Config struct {
	HTTPTimeout time.Duration
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// Router dispatches Open calls by location scheme. The S3 client is created
// on first use.
type Router struct {
	cfg  Config
	http *HTTPClient

	mu sync.Mutex
	s3 *S3Client
}

type Option func(*Router)

func WithHTTPClient(c *HTTPClient) Option {
	return func(r *Router) {
		r.http = c
	}
}

func WithS3Client(c *S3Client) Option {
	return func(r *Router) {
		r.s3 = c
	}
}

func NewRouter(cfg Config, opts ...Option) *Router {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	r := &Router{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.http == nil {
		r.http = NewHTTPClient(cfg.HTTPTimeout)
	}
	return r
}

func (r *Router) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(location, "s3://"):
		bucket, key, err := ParseS3URL(location)
		if err != nil {
			return nil, err
		}
		client, err := r.s3Client(ctx)
		if err != nil {
			return nil, err
		}
		return client.Open(ctx, bucket, key)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return r.http.Open(ctx, location)
	default:
		return openFile(location)
	}
}

func (r *Router) s3Client(ctx context.Context) (*S3Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.s3 != nil {
		return r.s3, nil
	}
	client, err := NewS3Client(ctx, r.cfg.S3Region, r.cfg.S3Endpoint, r.cfg.S3PathStyle)
	if err != nil {
		return nil, err
	}
	r.s3 = client
	return client, nil
}

func openFile(path string) (io.ReadCloser, error) {
	path = strings.TrimPrefix(path, "file://")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}
