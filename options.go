package pqwriter

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/goccy/go-json"
	"github.com/thanos-io/objstore"
	"go.opentelemetry.io/otel/trace"

	"github.com/polarsignals/pqwriter/errs"
	"github.com/polarsignals/pqwriter/layout"
	"github.com/polarsignals/pqwriter/pqarrow/writer"
)

type Option func(*Writer) error

// Compression is the codec used for every column chunk.
type Compression = writer.Compression

const (
	Uncompressed = writer.Uncompressed
	Gzip         = writer.Gzip
	Snappy       = writer.Snappy
)

// ParseCompression parses UNCOMPRESSED, GZIP or SNAPPY.
func ParseCompression(s string) (Compression, error) {
	c, err := writer.ParseCompression(s)
	if err != nil {
		return 0, errs.Writerf("", "%v", err)
	}
	return c, nil
}

// FlushRule decides when a batch of rows is written out as a row group.
type FlushRule int

const (
	// FlushNRows flushes every N completed rows.
	FlushNRows FlushRule = iota
	// FlushBufferSize flushes once buffered data exceeds N bytes.
	FlushBufferSize
)

func (r FlushRule) String() string {
	if r == FlushBufferSize {
		return "BUFFERSIZE"
	}
	return "NROWS"
}

func ParseFlushRule(s string) (FlushRule, error) {
	switch strings.ToUpper(s) {
	case "NROWS", "":
		return FlushNRows, nil
	case "BUFFERSIZE":
		return FlushBufferSize, nil
	default:
		return 0, errs.Writerf("", "unknown flush rule %q", s)
	}
}

const (
	// rowGroupBudget is divided by the number of expected fields to derive
	// the default row group size.
	rowGroupBudget  = 250000
	defaultPageSize = 512 * 1024 * 1024
)

// WithDatasetName sets the dataset name output files are named after. It is
// required.
func WithDatasetName(name string) Option {
	return func(w *Writer) error {
		if name == "" {
			return errs.Writerf("", "dataset name must not be empty")
		}
		w.dataset = name
		return nil
	}
}

// WithOutputDirectory sets the directory output files are written to. It is
// created if it does not exist. With WithBucket it is the object prefix.
func WithOutputDirectory(dir string) Option {
	return func(w *Writer) error {
		w.outputDir = dir
		return nil
	}
}

// WithBucket uploads output files to an object storage bucket instead of
// the local filesystem.
func WithBucket(bucket objstore.Bucket) Option {
	return func(w *Writer) error {
		w.bucket = bucket
		return nil
	}
}

func WithCompression(c Compression) Option {
	return func(w *Writer) error {
		w.compression = c
		return nil
	}
}

// WithFlushRule sets the flush rule and its threshold. Only FlushNRows is
// implemented.
func WithFlushRule(rule FlushRule, n int) Option {
	return func(w *Writer) error {
		if rule != FlushNRows {
			return errs.NotImplemented("flush rule %s", rule)
		}
		return WithRowGroupSize(n)(w)
	}
}

// WithRowGroupSize sets the number of rows per row group.
func WithRowGroupSize(rows int) Option {
	return func(w *Writer) error {
		if rows <= 0 {
			return errs.Writerf("", "row group size must be positive, got %d", rows)
		}
		w.rowGroupSize = rows
		return nil
	}
}

// WithPageSize sets the target data page size in bytes.
func WithPageSize(bytes int64) Option {
	return func(w *Writer) error {
		if bytes <= 0 {
			return errs.Writerf("", "page size must be positive, got %d", bytes)
		}
		w.pageSize = bytes
		return nil
	}
}

// WithMetadata stores doc as the file's "metadata" key/value entry. doc must
// be a JSON object with a top-level "metadata" node.
func WithMetadata(doc map[string]any) Option {
	return func(w *Writer) error {
		if _, ok := doc["metadata"]; !ok {
			return errs.Writerf("", `metadata document must have a top-level "metadata" node`)
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return errs.Writerf("", "encode metadata: %v", err)
		}
		w.metadata = string(data)
		return nil
	}
}

// WithMetadataJSON is WithMetadata for an encoded document.
func WithMetadataJSON(data []byte) Option {
	return func(w *Writer) error {
		doc, err := layout.Decode(data)
		if err != nil {
			return errs.Writerf("", "invalid metadata: %v", err)
		}
		m, ok := doc.(map[string]any)
		if !ok {
			return errs.Writerf("", "metadata must be a JSON object, got %T", doc)
		}
		return WithMetadata(m)(w)
	}
}

func WithAllocator(mem memory.Allocator) Option {
	return func(w *Writer) error {
		w.mem = mem
		return nil
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(w *Writer) error {
		w.tracer = tracer
		return nil
	}
}

func defaultRowGroupSize(expected int) int {
	if expected == 0 {
		return rowGroupBudget
	}
	return max(1, rowGroupBudget/expected)
}

func fileName(dataset string, seq int) string {
	return fmt.Sprintf("%s_%04d.parquet", dataset, seq)
}
