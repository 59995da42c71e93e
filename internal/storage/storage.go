// Package storage persists synthesized introduction audio to object
// storage, so clients can stream by URL instead of carrying audio bytes
// through the cache.
package storage

import "context"

// Uploader stores an audio object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
	Close() error
}

// SweepStats reports one retention sweep.
type SweepStats struct {
	Scanned int
	Deleted int
}
