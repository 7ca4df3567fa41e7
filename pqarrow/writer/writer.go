// Package writer hands finalized arrow records to the parquet encoder of
// arrow-go, one row group per record.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// Compression is the codec applied to every column chunk.
type Compression int

const (
	Uncompressed Compression = iota
	Gzip
	Snappy
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "GZIP"
	case Snappy:
		return "SNAPPY"
	default:
		return "UNCOMPRESSED"
	}
}

// ParseCompression parses UNCOMPRESSED, GZIP or SNAPPY, case insensitively.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToUpper(s) {
	case "UNCOMPRESSED", "NONE", "":
		return Uncompressed, nil
	case "GZIP":
		return Gzip, nil
	case "SNAPPY":
		return Snappy, nil
	default:
		return 0, fmt.Errorf("unsupported compression %q", s)
	}
}

func (c Compression) codec() compress.Compression {
	switch c {
	case Gzip:
		return compress.Codecs.Gzip
	case Snappy:
		return compress.Codecs.Snappy
	default:
		return compress.Codecs.Uncompressed
	}
}

// Options configures the parquet encoding.
type Options struct {
	Compression Compression
	// PageSize is the target data page size in bytes.
	PageSize  int64
	Allocator memory.Allocator
}

// FileWriter writes a single parquet file.
type FileWriter struct {
	fw        *pqarrow.FileWriter
	rowGroups int
	rows      int64
}

// NewFileWriter starts a parquet file with the given arrow schema. The
// schema's metadata is stored as the file's key/value metadata, and the
// arrow schema itself is stored so readers can restore it exactly.
func NewFileWriter(schema *arrow.Schema, w io.Writer, opts Options) (*FileWriter, error) {
	mem := opts.Allocator
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	props := []parquet.WriterProperty{
		parquet.WithCompression(opts.Compression.codec()),
		parquet.WithAllocator(mem),
		// Column indexes let readers inspect page min/max without decoding.
		parquet.WithPageIndexEnabled(true),
	}
	if opts.PageSize > 0 {
		props = append(props, parquet.WithDataPageSize(opts.PageSize))
	}

	fw, err := pqarrow.NewFileWriter(
		schema,
		w,
		parquet.NewWriterProperties(props...),
		pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()),
	)
	if err != nil {
		return nil, fmt.Errorf("create parquet writer: %w", err)
	}
	return &FileWriter{fw: fw}, nil
}

// WriteRecord writes rec as exactly one row group. Empty records are skipped.
func (w *FileWriter) WriteRecord(rec arrow.Record) error {
	rows := rec.NumRows()
	if rows == 0 {
		return nil
	}
	tbl := array.NewTableFromRecords(rec.Schema(), []arrow.Record{rec})
	defer tbl.Release()

	if err := w.fw.WriteTable(tbl, rows); err != nil {
		return fmt.Errorf("write row group: %w", err)
	}
	w.rowGroups++
	w.rows += rows
	return nil
}

// RowGroups is the number of row groups written so far.
func (w *FileWriter) RowGroups() int { return w.rowGroups }

// Rows is the number of rows written so far.
func (w *FileWriter) Rows() int64 { return w.rows }

// Close writes the file footer. It does not close the underlying writer.
func (w *FileWriter) Close() error {
	if err := w.fw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
