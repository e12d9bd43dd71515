package supabase

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	storage "github.com/supabase-community/storage-go"

	"github.com/animetoken/anime-token-backend/pkg/config"
)

// ObjectStore is the storage surface the media pipeline depends on.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Remove(ctx context.Context, bucket string, keys ...string) error
	PublicURL(bucket, key string) string
}

// Client wraps the Supabase storage API for the buckets the platform owns.
type Client struct {
	client  *storage.Client
	baseURL string
	cfg     config.StorageConfig
}

// New builds a storage client from the project URL and service role key.
func New(cfg config.StorageConfig) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, errors.New("storage project url is required")
	}
	if cfg.ServiceRoleKey == "" {
		return nil, errors.New("storage service role key is required")
	}
	baseURL := strings.TrimSuffix(cfg.ProjectURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", cfg.ServiceRoleKey, nil)
	return &Client{
		client:  client,
		baseURL: baseURL,
		cfg:     cfg,
	}, nil
}

// Upload writes an object to the given bucket, overwriting any prior object
// at the same key.
func (c *Client) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if bucket == "" || key == "" {
		return errors.New("bucket and key are required")
	}
	upsert := true
	_, err := c.client.UploadFile(bucket, key, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Download reads an object back from the given bucket.
func (c *Client) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	data, err := c.client.DownloadFile(bucket, key)
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// Remove deletes the given objects from a bucket.
func (c *Client) Remove(ctx context.Context, bucket string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := c.client.RemoveFile(bucket, keys); err != nil {
		return fmt.Errorf("remove %d objects from %s: %w", len(keys), bucket, err)
	}
	return nil
}

// PublicURL returns the public object URL for a key in a public bucket.
func (c *Client) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, key)
}

// StagingBucket returns the bucket holding staged draft media.
func (c *Client) StagingBucket() string { return c.cfg.StagingBucket }

// MediaBucket returns the public bucket holding promoted media.
func (c *Client) MediaBucket() string { return c.cfg.MediaBucket }

// MetadataBucket returns the bucket holding on-chain metadata documents.
func (c *Client) MetadataBucket() string { return c.cfg.MetadataBucket }

// ObjectKey builds a collision-safe object key for a slot. The original file
// extension is preserved so content types stay inferable.
func ObjectKey(slot, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// fall back to timestamp-only uniqueness
		return fmt.Sprintf("%s/%d%s", slot, time.Now().UnixNano(), ext)
	}
	return fmt.Sprintf("%s/%d-%s%s", slot, time.Now().UnixNano(), hex.EncodeToString(suffix), ext)
}
