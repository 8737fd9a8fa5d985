// Package filestore defines the staging interface for remote data files.
//
// DuckDB reads Parquet, CSV, and JSON straight from object storage and can
// ATTACH database files by URL. The Store interface covers what the
// reflection tooling needs for that: discovering candidate data files in a
// bucket and turning one into a URL the engine can read.
//
// Callers depend only on this package, never on a provider package:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	files, err := store.ListDataFiles(ctx, "lake", filestore.ListOptions{Prefix: "events/"})
package filestore

import (
	"context"
	"time"
)

// Store is the interface every staging backend implements. Scoped to
// read-side operations; the tooling never writes to the lake.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// ListBuckets returns the buckets accessible with the configured
	// credentials.
	ListBuckets(ctx context.Context) ([]BucketInfo, error)

	// ListDataFiles returns the data files in bucket matching opts. Objects
	// whose format the tooling cannot hand to the engine are skipped unless
	// opts asks for them explicitly.
	ListDataFiles(ctx context.Context, bucket string, opts ListOptions) ([]DataFile, error)

	// Fetch opens a streaming handle to one data file. The caller MUST call
	// Object.Close() after reading.
	Fetch(ctx context.Context, bucket, key string) (Object, error)

	// Stat returns a data file's metadata without downloading it.
	Stat(ctx context.Context, bucket, key string) (*DataFile, error)

	// PresignGetURL returns a time-limited URL for the file at key. The URL
	// can be passed straight to the engine's read functions or ATTACH.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
