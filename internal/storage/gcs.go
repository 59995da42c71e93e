package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

type GCSUploader struct {
	client *gcs.Client
	bucket string
}

func NewGCSUploader(ctx context.Context, bucket string) (*GCSUploader, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSUploader{client: c, bucket: bucket}, nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

func (u *GCSUploader) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	obj := u.client.Bucket(u.bucket).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, objectName), nil
}

// SweepOld deletes objects under prefix older than maxAge. Run periodically;
// object-store retention mirrors the cache TTL so orphaned audio does not
// outlive its cache entry for long.
func (u *GCSUploader) SweepOld(ctx context.Context, prefix string, maxAge time.Duration) (SweepStats, error) {
	var stats SweepStats
	cutoff := time.Now().Add(-maxAge)

	it := u.client.Bucket(u.bucket).Objects(ctx, &gcs.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return stats, err
		}
		stats.Scanned++
		if attrs.Created.After(cutoff) {
			continue
		}
		if err := u.client.Bucket(u.bucket).Object(attrs.Name).Delete(ctx); err != nil {
			return stats, err
		}
		stats.Deleted++
	}
	return stats, nil
}
