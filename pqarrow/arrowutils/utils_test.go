package arrowutils

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/require"
)

func buildRecord(t *testing.T, mem memory.Allocator) arrow.Record {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "ids", Type: arrow.ListOf(arrow.PrimitiveTypes.Int32), Nullable: true},
		{Name: "s", Type: arrow.StructOf(
			arrow.Field{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
			arrow.Field{Name: "ok", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		), Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	ids := b.Field(0).(*array.ListBuilder)
	ids.Append(true)
	ids.ValueBuilder().(*array.Int32Builder).AppendValues([]int32{1, 2}, nil)
	ids.AppendNull()

	s := b.Field(1).(*array.StructBuilder)
	s.Append(true)
	s.FieldBuilder(0).(*array.StringBuilder).Append("a b")
	s.FieldBuilder(1).(*array.BooleanBuilder).AppendNull()
	s.AppendNull()

	return b.NewRecord()
}

func TestFormatValue(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rec := buildRecord(t, mem)
	defer rec.Release()

	require.Equal(t, "[1 2]", FormatValue(rec.Column(0), 0))
	require.Equal(t, "null", FormatValue(rec.Column(0), 1))
	require.Equal(t, `{name:"a b" ok:null}`, FormatValue(rec.Column(1), 0))
	require.Equal(t, "null", FormatValue(rec.Column(1), 1))

	require.Equal(t, []any{int32(1), int32(2)}, GetValue(rec.Column(0), 0))
	require.Equal(t, map[string]any{"name": "a b", "ok": nil}, GetValue(rec.Column(1), 0))
	require.Nil(t, GetValue(rec.Column(1), 1))
}

func TestReadFile(t *testing.T) {
	mem := memory.NewGoAllocator()
	rec := buildRecord(t, mem)
	defer rec.Release()

	var buf bytes.Buffer
	fw, err := pqarrow.NewFileWriter(rec.Schema(), &buf, parquet.NewWriterProperties(), pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()))
	require.NoError(t, err)
	require.NoError(t, fw.Write(rec))
	require.NoError(t, fw.Close())

	tbl, err := ReadFile(context.Background(), bytes.NewReader(buf.Bytes()), mem)
	require.NoError(t, err)
	defer tbl.Release()

	var rows []string
	require.NoError(t, ForEachRow(tbl, func(rec arrow.Record, i int) error {
		rows = append(rows, FormatValue(rec.Column(0), i)+" "+FormatValue(rec.Column(1), i))
		return nil
	}))
	require.Equal(t, []string{`[1 2] {name:"a b" ok:null}`, "null null"}, rows)
}
