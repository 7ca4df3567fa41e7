package builder

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/polarsignals/pqwriter/errs"
	"github.com/polarsignals/pqwriter/layout"
	"github.com/polarsignals/pqwriter/value"
)

func newIndex(t *testing.T, mem memory.Allocator, doc string) *Index {
	t.Helper()
	s, err := layout.Parse([]byte(doc))
	require.NoError(t, err)
	return NewIndex(mem, s, nil)
}

func TestFillValues(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	idx := newIndex(t, mem, `{"fields": [
		{"name": "a", "type": "int32"},
		{"name": "l", "type": "list2d", "contains": {"type": "int32"}},
		{"name": "s", "type": "string"}
	]}`)
	defer idx.Release()

	require.NoError(t, idx.Fill("a", value.Of(int32(42))))
	require.NoError(t, idx.Fill("l", value.List2D[int32]{{1, 2, 3}, nil}))
	require.NoError(t, idx.Fill("s", value.Of("hello")))
	require.Equal(t, 1, idx.Rows())

	rec, err := idx.NewRecord()
	require.NoError(t, err)
	defer rec.Release()

	require.Equal(t, int64(1), rec.NumRows())
	require.Equal(t, "[42]", rec.Column(0).String())
	require.Equal(t, "[[[1 2 3] []]]", rec.Column(1).String())
	require.Equal(t, `["hello"]`, rec.Column(2).String())
}

func TestFillTypeMismatchDoesNotMutate(t *testing.T) {
	idx := newIndex(t, memory.NewGoAllocator(), `{"fields": [
		{"name": "a", "type": "int32"},
		{"name": "l", "type": "list2d", "contains": {"type": "int32"}},
		{"name": "s", "type": "struct", "fields": [
			{"name": "x", "type": "int32"},
			{"name": "y", "type": "list1d", "contains": {"type": "double"}}
		]}
	]}`)
	defer idx.Release()

	err := idx.Fill("a", value.Of(int64(1)))
	require.ErrorIs(t, err, errs.ErrDataType)
	require.Contains(t, err.Error(), "expected int32, got int64")
	require.Equal(t, 0, idx.Len("a"))

	err = idx.Fill("l", value.List1D[int32]{1})
	require.ErrorIs(t, err, errs.ErrDataType)
	require.Contains(t, err.Error(), "expected list2d<int32>, got list1d<int32>")
	require.Equal(t, 0, idx.Len("l"))

	err = idx.Fill("l", value.List2D[uint32]{{1}})
	require.ErrorIs(t, err, errs.ErrDataType)

	// The first field is valid, the second is not: nothing is appended.
	err = idx.Fill("s", value.FieldBuffer{value.Of(int32(1)), value.List1D[float32]{1}})
	require.ErrorIs(t, err, errs.ErrDataType)
	require.Equal(t, 0, idx.Len("s"))
	n, ok := idx.Node("s.x")
	require.True(t, ok)
	require.Equal(t, 0, n.Len())

	err = idx.Fill("s", value.FieldBuffer{value.Of(int32(1))})
	require.ErrorIs(t, err, errs.ErrDataBuffer)
	require.Equal(t, 0, idx.Len("s"))

	err = idx.Fill("s", value.Of(int32(1)))
	require.ErrorIs(t, err, errs.ErrDataType)
}

func TestFillUnknownAndIndirectPaths(t *testing.T) {
	idx := newIndex(t, memory.NewGoAllocator(), `{"fields": [
		{"name": "s", "type": "struct", "fields": [{"name": "x", "type": "int32"}]}
	]}`)
	defer idx.Release()

	err := idx.Fill("nope", value.Of(int32(1)))
	require.ErrorIs(t, err, errs.ErrUnknownField)

	err = idx.Fill("s.x", value.Of(int32(1)))
	require.ErrorIs(t, err, errs.ErrWriter)
	require.NotErrorIs(t, err, errs.ErrUnknownField)
}

const innerStructLayout = `{"fields": [
	{"name": "s", "type": "struct", "fields": [
		{"name": "x", "type": "int32"},
		{"name": "inner", "type": "struct", "fields": [{"name": "y", "type": "int32"}]},
		{"name": "many", "type": "list1d", "contains": {"type": "struct", "fields": [{"name": "z", "type": "int64"}]}}
	]}
]}`

func TestFillOuterBeforeInner(t *testing.T) {
	idx := newIndex(t, memory.NewGoAllocator(), innerStructLayout)
	defer idx.Release()

	err := idx.Fill("s.inner", value.FieldBuffer{value.Of(int32(2))})
	require.ErrorIs(t, err, errs.ErrWriter)
	require.Equal(t, 0, idx.Len("s.inner"))

	require.NoError(t, idx.Fill("s", value.FieldBuffer{value.Of(int32(1))}))
	require.Equal(t, 1, idx.Len("s"))
	require.Equal(t, 0, idx.Len("s.inner"))

	require.NoError(t, idx.Fill("s.inner", value.FieldMap{"y": value.Of(int32(2))}))
	require.NoError(t, idx.AppendNull("s.many"))

	// A second inner fill for the same parent entry is misaligned.
	require.ErrorIs(t, idx.Fill("s.inner", value.FieldBuffer{value.Of(int32(3))}), errs.ErrWriter)

	rec, err := idx.NewRecord()
	require.NoError(t, err)
	defer rec.Release()

	s := rec.Column(0).(*array.Struct)
	require.Equal(t, 1, s.Len())
	require.Equal(t, int32(1), s.Field(0).(*array.Int32).Value(0))
	inner := s.Field(1).(*array.Struct)
	require.True(t, inner.IsValid(0))
	require.Equal(t, int32(2), inner.Field(0).(*array.Int32).Value(0))
	require.True(t, s.Field(2).IsNull(0))
}

func TestAppendNull(t *testing.T) {
	idx := newIndex(t, memory.NewGoAllocator(), innerStructLayout)
	defer idx.Release()

	// Child null without its parent entry.
	require.ErrorIs(t, idx.AppendNull("s.inner"), errs.ErrWriter)

	// A null parent nulls the children as well.
	require.NoError(t, idx.AppendNull("s"))
	require.Equal(t, 1, idx.Len("s"))
	require.Equal(t, 1, idx.Len("s.inner"))
	require.Equal(t, 1, idx.Len("s.many"))

	// Parent null while its nested fields are out of step.
	require.NoError(t, idx.Fill("s", value.FieldBuffer{value.Of(int32(1))}))
	require.NoError(t, idx.Fill("s.inner", value.FieldBuffer{value.Of(int32(2))}))
	require.ErrorIs(t, idx.AppendNull("s"), errs.ErrWriter)

	require.ErrorIs(t, idx.AppendNull("s.x"), errs.ErrWriter)
	require.ErrorIs(t, idx.AppendNull("x"), errs.ErrUnknownField)
}

func TestFillStructList(t *testing.T) {
	idx := newIndex(t, memory.NewGoAllocator(), `{"fields": [
		{"name": "points", "type": "list2d", "contains": {"type": "struct", "fields": [
			{"name": "px", "type": "double"},
			{"name": "tags", "type": "list1d", "contains": {"type": "string"}}
		]}}
	]}`)
	defer idx.Release()

	require.ErrorIs(t, idx.Fill("points", value.StructList1D{}), errs.ErrDataType)
	require.ErrorIs(t, idx.Fill("points", value.StructList2D{{value.FieldMap{"nope": value.Of(1.0)}}}), errs.ErrDataBuffer)
	require.Equal(t, 0, idx.Len("points"))

	require.NoError(t, idx.Fill("points", value.StructList2D{
		{
			value.FieldBuffer{value.Of(1.5), value.List1D[string]{"a", "b"}},
			value.FieldMap{"px": value.Of(2.5)},
		},
		{},
	}))

	rec, err := idx.NewRecord()
	require.NoError(t, err)
	defer rec.Release()

	outer := rec.Column(0).(*array.List)
	require.Equal(t, 1, outer.Len())
	mid := outer.ListValues().(*array.List)
	require.Equal(t, 2, mid.Len())
	start, end := mid.ValueOffsets(1)
	require.Equal(t, start, end)

	elems := mid.ListValues().(*array.Struct)
	require.Equal(t, 2, elems.Len())
	require.Equal(t, 2.5, elems.Field(0).(*array.Float64).Value(1))
	tags := elems.Field(1).(*array.List)
	require.True(t, tags.IsValid(0))
	require.True(t, tags.IsNull(1))
}

func TestNewRecordMisaligned(t *testing.T) {
	idx := newIndex(t, memory.NewGoAllocator(), `{"fields": [
		{"name": "a", "type": "bool"},
		{"name": "b", "type": "bool"}
	]}`)
	defer idx.Release()

	require.NoError(t, idx.Fill("a", value.Of(true)))
	_, err := idx.NewRecord()
	require.ErrorIs(t, err, errs.ErrWriter)
}
