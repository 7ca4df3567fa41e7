package writer

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/require"
)

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{
		"UNCOMPRESSED": Uncompressed,
		"gzip":         Gzip,
		"Snappy":       Snappy,
	} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseCompression("brotli")
	require.Error(t, err)
}

func TestWriteRecords(t *testing.T) {
	mem := memory.NewGoAllocator()
	md := arrow.NewMetadata([]string{"metadata"}, []string{`{"metadata":{"run":1}}`})
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "a", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	}, &md)

	record := func(vals ...int32) arrow.Record {
		b := array.NewRecordBuilder(mem, schema)
		defer b.Release()
		b.Field(0).(*array.Int32Builder).AppendValues(vals, nil)
		return b.NewRecord()
	}

	var buf bytes.Buffer
	w, err := NewFileWriter(schema, &buf, Options{Compression: Snappy, PageSize: 1 << 20, Allocator: mem})
	require.NoError(t, err)

	for _, vals := range [][]int32{{1, 2, 3}, {}, {4}} {
		rec := record(vals...)
		require.NoError(t, w.WriteRecord(rec))
		rec.Release()
	}
	require.NoError(t, w.Close())
	require.Equal(t, 2, w.RowGroups())
	require.Equal(t, int64(4), w.Rows())

	rdr, err := file.NewParquetReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer rdr.Close()
	require.Equal(t, 2, rdr.NumRowGroups())
	kv := rdr.MetaData().KeyValueMetadata().FindValue("metadata")
	require.NotNil(t, kv)
	require.Equal(t, `{"metadata":{"run":1}}`, *kv)

	tbl, err := pqarrow.ReadTable(context.Background(), bytes.NewReader(buf.Bytes()), parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	require.NoError(t, err)
	defer tbl.Release()
	require.Equal(t, int64(4), tbl.NumRows())
}
