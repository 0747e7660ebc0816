// Package storage is the blob-store collaborator boundary: presigned upload
// URLs for the upload transport and best-effort cleanup after project deletion.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// UploadTicket is a presigned PUT the client uploads against directly.
type UploadTicket struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BlobStore abstracts the object store so tests can run without MinIO.
type BlobStore interface {
	PresignUpload(ctx context.Context, userID, filename string) (*UploadTicket, error)
	ObjectURL(key string) string
	// KeyFromURL maps a stored source URL back to its object key, or empty
	// when the URL does not belong to this store.
	KeyFromURL(sourceURL string) string
	// Delete removes a stored object. Callers treat failures as best effort:
	// logged, never surfaced, since the database record is already gone.
	Delete(ctx context.Context, key string) error
}

// MinioConfig holds the object-store connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioBlobStore implements BlobStore using MinIO.
type MinioBlobStore struct {
	client *minio.Client
	config MinioConfig
}

// NewMinioBlobStore connects to MinIO and ensures the bucket exists.
func NewMinioBlobStore(ctx context.Context, config MinioConfig) (*MinioBlobStore, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioBlobStore{client: client, config: config}, nil
}

// PresignUpload issues a one-hour presigned PUT under the user's prefix.
func (s *MinioBlobStore) PresignUpload(ctx context.Context, userID, filename string) (*UploadTicket, error) {
	timestamp := time.Now().Unix()
	fileID := uuid.New().String()[:8]
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("uploads/%s/%d-%s%s", userID, timestamp, fileID, ext)

	expiration := time.Hour
	presigned, err := s.client.PresignedPutObject(ctx, s.config.Bucket, key, expiration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &UploadTicket{
		URL:       presigned.String(),
		Method:    "PUT",
		Key:       key,
		ExpiresAt: time.Now().Add(expiration),
	}, nil
}

// ObjectURL returns the direct URL for a stored object.
func (s *MinioBlobStore) ObjectURL(key string) string {
	protocol := "http"
	if s.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.config.Endpoint, s.config.Bucket, key)
}

// Delete removes the object from the bucket.
func (s *MinioBlobStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.config.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// KeyFromURL extracts the object key from a stored source URL, for cleanup
// after soft deletion. Returns empty when the URL is not ours.
func (s *MinioBlobStore) KeyFromURL(sourceURL string) string {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	prefix := "/" + s.config.Bucket + "/"
	if len(parsed.Path) > len(prefix) && parsed.Path[:len(prefix)] == prefix {
		return parsed.Path[len(prefix):]
	}
	return ""
}
