package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	BucketAvatars     = "avatars"
	BucketEventPhotos = "event-photos"
)

// ErrStorageDisabled is returned by uploads when no object store is configured.
var ErrStorageDisabled = errors.New("object storage not configured")

// ObjectStore uploads objects and resolves their public URL.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
}

// MinioStore is an ObjectStore backed by a MinIO/S3 endpoint.
type MinioStore struct {
	client    *minio.Client
	publicURL string
}

// Options configures NewMinioStore.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicURL prefixes object URLs handed to clients; defaults to the endpoint.
	PublicURL string
}

// NewObjectStore builds a MinioStore, or a disabled store when no endpoint is set.
func NewObjectStore(ctx context.Context, opts Options) (ObjectStore, error) {
	if opts.Endpoint == "" {
		log.Printf("object storage disabled: empty endpoint")
		return disabledStore{}, nil
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	for _, bucket := range []string{BucketAvatars, BucketEventPhotos} {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}

	publicURL := opts.PublicURL
	if publicURL == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + opts.Endpoint
	}
	log.Printf("object storage connected endpoint=%s", opts.Endpoint)
	return &MinioStore{client: client, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Upload stores data at bucket/path, replacing any existing object.
func (s *MinioStore) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, path, err)
	}
	return PublicURL(s.publicURL, bucket, path), nil
}

// PublicURL joins base, bucket and object path.
func PublicURL(base, bucket, path string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + strings.TrimLeft(path, "/")
}

type disabledStore struct{}

func (disabledStore) Upload(context.Context, string, string, []byte, string) (string, error) {
	return "", ErrStorageDisabled
}
