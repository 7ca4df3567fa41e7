// Package pqwriter writes rows of a declaratively described, nested layout to
// parquet files.
//
// A Writer is created for a compiled layout. Callers fill every field path
// of a row with Fill, close the row with EndRow, and call Finish once all
// rows have been written. Fields skipped in a row are written as nulls.
//
// A Writer is not safe for concurrent use. Any error returned by Fill,
// EndRow or Finish leaves the Writer unusable; callers discard it, create a
// new Writer and replay the row.
package pqwriter

import (
	"context"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/thanos-io/objstore"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/polarsignals/pqwriter/errs"
	"github.com/polarsignals/pqwriter/layout"
	"github.com/polarsignals/pqwriter/pqarrow/builder"
	"github.com/polarsignals/pqwriter/pqarrow/writer"
	"github.com/polarsignals/pqwriter/storage"
	"github.com/polarsignals/pqwriter/value"
)

// MetadataKey is the file key/value metadata entry holding the metadata
// document.
const MetadataKey = "metadata"

// Writer assembles rows in memory and writes them as row groups of a single
// parquet file.
type Writer struct {
	logger  log.Logger
	tracer  trace.Tracer
	metrics *writerMetrics
	mem     memory.Allocator

	schema       *layout.Schema
	dataset      string
	outputDir    string
	bucket       objstore.Bucket
	compression  Compression
	rowGroupSize int
	pageSize     int64
	metadata     string

	arrowMeta *arrow.Metadata
	sink      storage.Sink
	obj       storage.Object
	file      *writer.FileWriter
	fileName  string
	index     *builder.Index
	tracker   *rowTracker

	rowsInBatch int
	rows        int64
	err         error
	finished    bool
}

// Stats summarizes what a Writer has written.
type Stats struct {
	Rows      int64
	RowGroups int
	File      string
}

// New creates a Writer for schema and opens its output file. The dataset
// name is required, see WithDatasetName.
func New(
	logger log.Logger,
	reg prometheus.Registerer,
	schema *layout.Schema,
	options ...Option,
) (*Writer, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if schema == nil {
		return nil, errs.Writerf("", "layout must be set")
	}

	w := &Writer{
		logger:       logger,
		tracer:       noop.NewTracerProvider().Tracer(""),
		mem:          memory.DefaultAllocator,
		schema:       schema,
		outputDir:    "./",
		compression:  Uncompressed,
		rowGroupSize: defaultRowGroupSize(schema.NumExpected()),
		pageSize:     defaultPageSize,
	}

	for _, option := range options {
		if err := option(w); err != nil {
			return nil, err
		}
	}

	if w.dataset == "" {
		return nil, errs.Writerf("", "dataset name must be set")
	}

	if w.bucket != nil {
		w.sink = storage.NewBucketSink(w.bucket, w.outputDir)
	} else {
		sink, err := storage.NewDirSink(w.outputDir)
		if err != nil {
			return nil, errs.Writerf("", "%v", err)
		}
		w.sink = sink
	}

	if w.metadata != "" {
		md := arrow.NewMetadata([]string{MetadataKey}, []string{w.metadata})
		w.arrowMeta = &md
	}

	w.metrics = newWriterMetrics(reg, w.dataset)
	w.tracker = newRowTracker(schema.Expected())

	if err := w.open(); err != nil {
		return nil, err
	}

	level.Info(w.logger).Log(
		"msg", "writer initialized",
		"dataset", w.dataset,
		"file", w.fileName,
		"location", w.sink.Location(),
		"compression", w.compression,
		"row_group_size", w.rowGroupSize,
		"page_size", w.pageSize,
	)
	return w, nil
}

func (w *Writer) open() error {
	w.fileName = fileName(w.dataset, 0)
	obj, err := w.sink.Create(w.fileName)
	if err != nil {
		return errs.Writerf("", "%v", err)
	}
	fw, err := writer.NewFileWriter(w.schema.ArrowSchema(w.arrowMeta), obj, writer.Options{
		Compression: w.compression,
		PageSize:    w.pageSize,
		Allocator:   w.mem,
	})
	if err != nil {
		obj.Abort()
		return errs.Writerf("", "%v", err)
	}
	w.obj = obj
	w.file = fw
	w.index = builder.NewIndex(w.mem, w.schema, w.arrowMeta)
	return nil
}

// Schema returns the compiled layout.
func (w *Writer) Schema() *layout.Schema { return w.schema }

// ExpectedFields returns the paths that must be filled once per row.
func (w *Writer) ExpectedFields() []string { return w.schema.Expected() }

// FillKind returns the shape of value path accepts.
func (w *Writer) FillKind(path string) (layout.FillKind, bool) { return w.schema.FillKind(path) }

// RowGroupSize is the number of rows written per row group.
func (w *Writer) RowGroupSize() int { return w.rowGroupSize }

func (w *Writer) Stats() Stats {
	return Stats{Rows: w.rows, RowGroups: w.file.RowGroups(), File: w.fileName}
}

// Fill appends v at path for the current row. Struct fields that are
// themselves structs or struct lists are filled through their own path after
// the enclosing struct.
func (w *Writer) Fill(path string, v value.Value) error {
	return w.FillContext(context.Background(), path, v)
}

// FillContext is Fill with a context. A fill that completes a row may flush a
// row group, and the flush span is started from ctx.
func (w *Writer) FillContext(ctx context.Context, path string, v value.Value) error {
	if err := w.usable(); err != nil {
		return err
	}
	if p, ok := w.schema.Lookup(path); ok && p.Parent != "" {
		if parent, child := w.tracker.count(p.Parent), w.tracker.count(path); parent <= child {
			return w.fail(errs.Writerf(path, "filled before its parent %q (parent filled %d times, field %d times)", p.Parent, parent, child))
		}
	}
	if err := w.index.Fill(path, v); err != nil {
		return w.fail(err)
	}
	w.metrics.fills.Inc()

	if w.tracker.fill(path) {
		return w.rowComplete(ctx)
	}
	return nil
}

// EndRow closes the current row. Expected paths that were not filled get a
// null. A path filled more than once is an error.
func (w *Writer) EndRow() error {
	return w.EndRowContext(context.Background())
}

// EndRowContext is EndRow with a context used for the flush span.
func (w *Writer) EndRowContext(ctx context.Context) error {
	if err := w.usable(); err != nil {
		return err
	}
	return w.endRow(ctx)
}

func (w *Writer) endRow(ctx context.Context) error {
	expected := w.schema.Expected()
	for _, path := range expected {
		if c := w.tracker.count(path); c > 1 {
			return w.fail(errs.Writerf(path, "filled %d times, expected 1", c))
		}
	}

	for _, path := range expected {
		if w.tracker.count(path) != 0 {
			continue
		}
		p, _ := w.schema.Lookup(path)
		if p.Parent != "" && w.tracker.count(p.Parent) == 0 {
			// Covered by the null of the parent.
			continue
		}
		if p.Parent == "" {
			for _, child := range w.schema.Children(path) {
				if w.tracker.count(child) != 0 {
					return w.fail(errs.Writerf(path, "cannot append null: nested field %q was filled", child))
				}
			}
		}
		if err := w.index.AppendNull(path); err != nil {
			return w.fail(err)
		}
		w.metrics.nulls.Inc()
		level.Debug(w.logger).Log("msg", "appended null for skipped field", "field", path)
	}

	counted := w.tracker.counted
	w.tracker.reset()
	if !counted {
		return w.rowComplete(ctx)
	}
	return nil
}

func (w *Writer) rowComplete(ctx context.Context) error {
	w.rowsInBatch++
	w.rows++
	w.metrics.rows.Inc()
	if w.rowsInBatch%w.rowGroupSize == 0 {
		return w.flush(ctx)
	}
	return nil
}

func (w *Writer) flush(ctx context.Context) error {
	_, span := w.tracer.Start(ctx, "Writer/Flush")
	defer span.End()
	start := time.Now()

	rec, err := w.index.NewRecord()
	w.index.Release()
	w.index = builder.NewIndex(w.mem, w.schema, w.arrowMeta)
	if err != nil {
		return w.fail(err)
	}
	defer rec.Release()

	span.SetAttributes(attribute.Int64("rows", rec.NumRows()))
	if rec.NumRows() != int64(w.rowsInBatch) {
		return w.fail(errs.Writerf("", "batch holds %d rows, %d rows were completed", rec.NumRows(), w.rowsInBatch))
	}
	if err := w.file.WriteRecord(rec); err != nil {
		return w.fail(errs.Writerf("", "%v", err))
	}

	if rec.NumRows() > 0 {
		w.metrics.rowGroups.Inc()
		w.metrics.flushDuration.Observe(time.Since(start).Seconds())
		level.Debug(w.logger).Log("msg", "row group flushed", "file", w.fileName, "rows", rec.NumRows(), "duration", time.Since(start))
	}
	w.rowsInBatch = 0
	return nil
}

// Finish closes a pending row, flushes the remaining rows and finalizes the
// output file. The pending row is closed with the same rules as EndRow, so
// fills for several rows without EndRow between them fail here with a count
// greater than 1 for the refilled paths.
func (w *Writer) Finish(ctx context.Context) error {
	if err := w.usable(); err != nil {
		return err
	}
	ctx, span := w.tracer.Start(ctx, "Writer/Finish")
	defer span.End()

	if w.tracker.pending() {
		if err := w.endRow(ctx); err != nil {
			return err
		}
	}
	if err := w.flush(ctx); err != nil {
		return err
	}
	w.index.Release()
	w.index = nil

	if err := w.file.Close(); err != nil {
		return w.fail(errs.Writerf("", "%v", err))
	}
	if err := w.obj.Commit(ctx); err != nil {
		return w.fail(errs.Writerf("", "%v", err))
	}
	w.finished = true

	span.SetAttributes(
		attribute.Int64("rows", w.rows),
		attribute.Int("row_groups", w.file.RowGroups()),
	)
	level.Info(w.logger).Log("msg", "writer finished", "file", w.fileName, "rows", w.rows, "row_groups", w.file.RowGroups())
	return nil
}

// Abort releases the buffered rows and discards the output file. It is the
// way to dispose of a Writer after an error.
func (w *Writer) Abort() error {
	if w.finished {
		return nil
	}
	w.finished = true
	if w.index != nil {
		w.index.Release()
		w.index = nil
	}
	return w.obj.Abort()
}

func (w *Writer) usable() error {
	if w.err != nil {
		return errs.Poisoned(w.err)
	}
	if w.finished {
		return errs.Writerf("", "writer already finished")
	}
	return nil
}

func (w *Writer) fail(err error) error {
	w.err = err
	w.metrics.observeError(err)
	level.Error(w.logger).Log("msg", "writer failed", "kind", errs.KindOf(err), "err", err)
	return err
}
