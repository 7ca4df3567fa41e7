// Copyright (c) The FrostDB Authors.
// Licensed under the Apache License 2.0.
// Copyright (c) The Thanos Authors.
// Licensed under the Apache License 2.0.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/thanos-io/objstore"
)

// FileReaderAt is a wrapper around a objstore.Bucket that implements the
// ReaderAt interface, so parquet files can be opened directly from a bucket.
type FileReaderAt struct {
	objstore.Bucket
	name string
	ctx  context.Context
}

// OpenObject returns a ReaderAt over the named object and its size.
func OpenObject(ctx context.Context, bucket objstore.Bucket, name string) (*FileReaderAt, int64, error) {
	attrs, err := bucket.Attributes(ctx, name)
	if err != nil {
		return nil, 0, fmt.Errorf("stat %s: %w", name, err)
	}
	return &FileReaderAt{
		Bucket: bucket,
		name:   name,
		ctx:    ctx,
	}, attrs.Size, nil
}

// ReadAt implements the io.ReaderAt interface.
func (b *FileReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	rc, err := b.GetRange(b.ctx, b.name, off, int64(len(p)))
	if err != nil {
		return 0, err
	}
	defer func() {
		rc.Close()
	}()

	total := 0
	for total < len(p) { // Read does not guarantee the buffer will be full, but ReadAt does
		n, err = rc.Read(p[total:])
		total += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				// If io.EOF is returned it means we read the end of the file and simply return the total.
				break
			}
			return total, err
		}
	}

	return total, nil
}
