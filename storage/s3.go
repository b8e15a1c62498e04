package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/c360studio/owlscrubber/config"
)

// ObjectStore reads and writes whole objects on a remote store.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Put(ctx context.Context, bucket, key, localPath string) error
}

// S3Store is an ObjectStore backed by an S3-compatible service.
type S3Store struct {
	client *minio.Client
	region string

	mu      sync.Mutex
	buckets map[string]struct{}
}

// NewS3Store creates a store from the s3 configuration section.
func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{
		client:  client,
		region:  region,
		buckets: make(map[string]struct{}),
	}, nil
}

// Get opens the object. A missing bucket or key yields ErrNotFound.
func (s *S3Store) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classify(bucket, key, err)
	}
	// GetObject is lazy; Stat surfaces a missing object before decoding.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, classify(bucket, key, err)
	}
	return obj, nil
}

// Put uploads the local file at localPath, creating the bucket on first
// use.
func (s *S3Store) Put(ctx context.Context, bucket, key, localPath string) error {
	if err := s.ensureBucket(ctx, bucket); err != nil {
		return fmt.Errorf("ensure bucket %s: %w", bucket, err)
	}
	_, err := s.client.FPutObject(ctx, bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType(key),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *S3Store) ensureBucket(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[bucket]; ok {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
	}
	s.buckets[bucket] = struct{}{}
	return nil
}

func classify(bucket, key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("get s3://%s/%s: %w", bucket, key, ErrNotFound)
	}
	return fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
}

func contentType(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".owl", ".rdf":
		return "application/rdf+xml"
	case ".ttl":
		return "text/turtle"
	case ".nt":
		return "application/n-triples"
	case ".txt", ".tsv":
		return "text/tab-separated-values"
	}
	if t := mime.TypeByExtension(filepath.Ext(key)); t != "" {
		return t
	}
	return "application/octet-stream"
}
