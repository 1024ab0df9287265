package site

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"time"

	"cloud.google.com/go/storage"
)

// Bucket uploads site files to a Google Cloud Storage bucket. It relies on
// Application Default Credentials.
type Bucket struct {
	client *storage.Client
	name   string
	prefix string
}

// NewBucket opens the bucket name, objects are written under prefix.
func NewBucket(ctx context.Context, name, prefix string) (*Bucket, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Bucket{client: client, name: name, prefix: prefix}, nil
}

// Object returns the object name of a site file.
func (b *Bucket) Object(name string) string { return path.Join(b.prefix, name) }

// Upload implements Uploader.
func (b *Bucket) Upload(ctx context.Context, name string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.name).Object(b.Object(name)).NewWriter(ctx)
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.ContentType = ct
	}
	// the summary changes daily
	w.CacheControl = "no-cache"
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("copy to gs://%s/%s: %w", b.name, b.Object(name), err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize gs://%s/%s: %w", b.name, b.Object(name), err)
	}
	return nil
}

// Close releases the storage client.
func (b *Bucket) Close() error { return b.client.Close() }
