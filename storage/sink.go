package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/thanos-io/objstore"
)

// Sink creates the output objects that parquet files are streamed into.
type Sink interface {
	// Create opens a new object. Nothing is visible under name until the
	// object is committed.
	Create(name string) (Object, error)
	// Location describes where objects are stored.
	Location() string
}

// Object is a single output file being written.
type Object interface {
	io.Writer
	// Commit finalizes the object and makes it available.
	Commit(ctx context.Context) error
	// Abort discards whatever has been written.
	Abort() error
}

// DirSink writes objects as files in a local directory.
type DirSink struct {
	dir string
}

// NewDirSink returns a sink writing into dir, creating it if absent.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) Location() string { return s.dir }

func (s *DirSink) Create(name string) (Object, error) {
	p := filepath.Join(s.dir, name)
	f, err := os.Create(p)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", p, err)
	}
	return &fileObject{f: f}, nil
}

type fileObject struct {
	f *os.File
}

func (o *fileObject) Write(p []byte) (int, error) { return o.f.Write(p) }

func (o *fileObject) Commit(_ context.Context) error {
	if err := o.f.Sync(); err != nil {
		o.f.Close()
		return fmt.Errorf("sync %s: %w", o.f.Name(), err)
	}
	return o.f.Close()
}

func (o *fileObject) Abort() error {
	o.f.Close()
	return os.Remove(o.f.Name())
}

// BucketSink buffers each object in memory and uploads it to an object
// storage bucket on commit.
type BucketSink struct {
	bucket objstore.Bucket
	prefix string
}

// NewBucketSink returns a sink uploading objects under prefix in bucket.
func NewBucketSink(bucket objstore.Bucket, prefix string) *BucketSink {
	return &BucketSink{bucket: bucket, prefix: prefix}
}

func (s *BucketSink) Location() string {
	return fmt.Sprintf("%s:%s", s.bucket.Name(), s.prefix)
}

func (s *BucketSink) Create(name string) (Object, error) {
	return &bucketObject{bucket: s.bucket, name: path.Join(s.prefix, name)}, nil
}

type bucketObject struct {
	bucket objstore.Bucket
	name   string
	buf    bytes.Buffer
}

func (o *bucketObject) Write(p []byte) (int, error) { return o.buf.Write(p) }

func (o *bucketObject) Commit(ctx context.Context) error {
	if err := o.bucket.Upload(ctx, o.name, &o.buf); err != nil {
		return fmt.Errorf("upload %s: %w", o.name, err)
	}
	return nil
}

func (o *bucketObject) Abort() error {
	o.buf.Reset()
	return nil
}
