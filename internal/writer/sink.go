package writer

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"

	"github.com/rickgao/consensus-export/internal/config"
)

// Sink stores one named file per call.
type Sink interface {
	// Write stores data under name and returns where it was written.
	Write(ctx context.Context, name string, data []byte) (string, error)
	Close() error
}

// Open returns the sink selected by cfg. A bucket URL takes precedence
// over a local directory. Bucket drivers must be registered by the caller
// via blank import.
func Open(ctx context.Context, cfg config.OutputConfig) (Sink, error) {
	if cfg.BucketURL != "" {
		bucket, err := blob.OpenBucket(ctx, cfg.BucketURL)
		if err != nil {
			return nil, fmt.Errorf("open bucket %s: %w", cfg.BucketURL, err)
		}
		return NewBucketSink(bucket, cfg.BucketURL), nil
	}

	dir := cfg.Dir
	if dir == "" {
		dir = config.DefaultOutputDir
	}
	return NewDirSink(dir)
}

// DirSink writes files into a local directory.
type DirSink struct {
	dir string
}

// NewDirSink creates dir if needed and returns a sink writing into it.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// Write creates or overwrites dir/name.
func (s *DirSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Close is a no-op.
func (s *DirSink) Close() error {
	return nil
}

// BucketSink writes files as objects in a blob bucket.
type BucketSink struct {
	bucket *blob.Bucket
	url    string
}

// NewBucketSink wraps an open bucket. The sink owns the bucket and closes it.
func NewBucketSink(bucket *blob.Bucket, bucketURL string) *BucketSink {
	return &BucketSink{bucket: bucket, url: bucketURL}
}

// Write stores data as object name, overwriting any existing object.
func (s *BucketSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	opts := &blob.WriterOptions{ContentType: "text/csv"}
	if err := s.bucket.WriteAll(ctx, name, data, opts); err != nil {
		return "", fmt.Errorf("write object %s: %w", name, err)
	}
	return objectLocation(s.url, name), nil
}

// Close closes the underlying bucket.
func (s *BucketSink) Close() error {
	return s.bucket.Close()
}

// objectLocation renders bucket URL + key without driver query parameters.
func objectLocation(bucketURL, name string) string {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return name
	}
	u.Path = path.Join("/", u.Path, name)
	u.RawQuery = ""
	return u.String()
}

// checkName rejects names that would escape the sink root.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("empty file name")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}
