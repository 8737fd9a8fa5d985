// Package minio provides a MinIO implementation of filestore.Store.
package minio

import (
	"context"
	"io"
	"strings"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
	"github.com/leonardovida/duckdb-reflect/internal/filestore"
)

// Driver is a MinIO implementation of filestore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
}

// New connects to MinIO using cfg and validates the connection with a Ping
// before returning.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "creating minio client", err)
	}

	d := &Driver{client: client}
	if err := d.Ping(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Ping verifies the server is reachable by listing buckets.
func (d *Driver) Ping(ctx context.Context) error {
	if _, err := d.client.ListBuckets(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close is a no-op; the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// ListBuckets returns all buckets accessible with the configured credentials.
func (d *Driver) ListBuckets(ctx context.Context) ([]filestore.BucketInfo, error) {
	raw, err := d.client.ListBuckets(ctx)
	if err != nil {
		return nil, mapError(err, "listing buckets")
	}

	buckets := make([]filestore.BucketInfo, len(raw))
	for i, b := range raw {
		buckets[i] = filestore.BucketInfo{
			Name:      b.Name,
			CreatedAt: b.CreationDate,
		}
	}
	return buckets, nil
}

// ListDataFiles returns the data files in bucket matching opts. Virtual
// directory entries and objects of unwanted formats are skipped; the Limit
// applies to files kept, not objects scanned.
func (d *Driver) ListDataFiles(ctx context.Context, bucket string, opts filestore.ListOptions) ([]filestore.DataFile, error) {
	listOpts := miniogo.ListObjectsOptions{
		Prefix:    opts.Prefix,
		Recursive: opts.Recursive,
	}

	var files []filestore.DataFile
	for obj := range d.client.ListObjects(ctx, bucket, listOpts) {
		if obj.Err != nil {
			return nil, mapError(obj.Err, "listing data files")
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}

		format := filestore.DetectFormat(obj.Key)
		if !opts.WantsFormat(format) {
			continue
		}

		files = append(files, filestore.DataFile{
			Bucket:       bucket,
			Key:          obj.Key,
			Format:       format,
			Size:         obj.Size,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
		if opts.Limit > 0 && len(files) >= opts.Limit {
			break
		}
	}
	return files, nil
}

// Fetch opens a streaming handle to the file at key inside bucket.
func (d *Driver) Fetch(ctx context.Context, bucket, key string) (filestore.Object, error) {
	obj, err := d.client.GetObject(ctx, bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "fetching object")
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, mapError(err, "statting object after fetch")
	}

	return &object{
		ReadCloser: obj,
		file: &filestore.DataFile{
			Bucket:       bucket,
			Key:          key,
			Format:       filestore.DetectFormat(key),
			Size:         stat.Size,
			ETag:         stat.ETag,
			LastModified: stat.LastModified,
		},
	}, nil
}

// Stat returns a data file's metadata without downloading it.
func (d *Driver) Stat(ctx context.Context, bucket, key string) (*filestore.DataFile, error) {
	stat, err := d.client.StatObject(ctx, bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, "statting object")
	}

	return &filestore.DataFile{
		Bucket:       bucket,
		Key:          stat.Key,
		Format:       filestore.DetectFormat(stat.Key),
		Size:         stat.Size,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}, nil
}

// PresignGetURL returns a time-limited download URL for the file at key.
func (d *Driver) PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := d.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", mapError(err, "generating presigned URL")
	}
	return u.String(), nil
}

// object wraps a MinIO GetObject response and exposes filestore.Object.
type object struct {
	io.ReadCloser
	file *filestore.DataFile
}

func (o *object) File() *filestore.DataFile {
	return o.file
}
