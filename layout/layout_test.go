package layout

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"

	"github.com/polarsignals/pqwriter/errs"
	"github.com/polarsignals/pqwriter/value"
)

const nestedLayout = `{
	"fields": [
		{"name": "flag", "type": "bool"},
		{"name": "grid", "type": "list2d", "contains": {"type": "int32"}},
		{"name": "s", "type": "struct", "fields": [
			{"name": "x", "type": "int32"},
			{"name": "inner", "type": "struct", "fields": [
				{"name": "y", "type": "float"}
			]},
			{"name": "many", "type": "list1d", "contains": {"type": "struct", "fields": [
				{"name": "z", "type": "uint16"}
			]}}
		]},
		{"name": "points", "type": "list1d", "contains": {"type": "struct", "fields": [
			{"name": "px", "type": "double"},
			{"name": "tags", "type": "list1d", "contains": {"type": "string"}}
		]}}
	]
}`

func TestCompileNested(t *testing.T) {
	s, err := Parse([]byte(nestedLayout))
	require.NoError(t, err)

	require.Equal(t, []string{"flag", "grid", "s", "s.inner", "s.many", "points"}, s.Expected())

	kinds := map[string]FillKind{
		"flag":    FillValue,
		"grid":    FillValueList2D,
		"s":       FillStruct,
		"points":  FillStructList1D,
		"s.inner": FillStruct,
		"s.many":  FillStructList1D,
	}
	for path, want := range kinds {
		got, ok := s.FillKind(path)
		require.True(t, ok, path)
		require.Equal(t, want, got, path)
	}

	// Reachable but filled through the parent.
	p, ok := s.Lookup("s.x")
	require.True(t, ok)
	require.False(t, p.Fillable())
	p, ok = s.Lookup("s.inner.y")
	require.True(t, ok)
	require.Equal(t, "s", p.Column)
	_, ok = s.FillKind("points.px")
	require.False(t, ok)

	p, _ = s.Lookup("s.many")
	require.Equal(t, "s", p.Parent)
	require.Equal(t, []string{"s.inner", "s.many"}, s.Children("s"))

	require.Equal(t, `flag: bool
grid: list2d<int32>
s: struct{x:int32, inner:struct{y:float32}, many:list1d<struct{z:uint16}>}
points: list1d<struct{px:float64, tags:list1d<string>}>`, s.String())
}

func TestCompileDeterministic(t *testing.T) {
	a, err := Parse([]byte(nestedLayout))
	require.NoError(t, err)
	b, err := Parse([]byte(nestedLayout))
	require.NoError(t, err)
	require.Equal(t, a.Expected(), b.Expected())
	require.Equal(t, a.String(), b.String())
	require.True(t, a.ArrowSchema(nil).Equal(b.ArrowSchema(nil)))
}

func TestNestedListsFold(t *testing.T) {
	s, err := Parse([]byte(`{"fields": [
		{"name": "l", "type": "list1d", "contains": {"type": "list2d", "contains": {"type": "int64"}}}
	]}`))
	require.NoError(t, err)
	k, _ := s.FillKind("l")
	require.Equal(t, FillValueList3D, k)
	require.Equal(t, "l: list3d<int64>", s.String())
}

func TestCompileErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"missing fields":          `{}`,
		"empty fields":            `{"fields": []}`,
		"fields not array":        `{"fields": {}}`,
		"unknown scalar":          `{"fields": [{"name": "a", "type": "int128"}]}`,
		"missing type":            `{"fields": [{"name": "a"}]}`,
		"missing name":            `{"fields": [{"type": "int32"}]}`,
		"dotted name":             `{"fields": [{"name": "a.b", "type": "int32"}]}`,
		"duplicate name":          `{"fields": [{"name": "a", "type": "int32"}, {"name": "a", "type": "bool"}]}`,
		"contains without type":   `{"fields": [{"name": "a", "type": "list1d", "contains": {}}]}`,
		"list without contains":   `{"fields": [{"name": "a", "type": "list1d"}]}`,
		"struct without fields":   `{"fields": [{"name": "a", "type": "struct"}]}`,
		"list4d token":            `{"fields": [{"name": "a", "type": "list4d", "contains": {"type": "int32"}}]}`,
		"four list levels":        `{"fields": [{"name": "a", "type": "list2d", "contains": {"type": "list2d", "contains": {"type": "int32"}}}]}`,
		"struct two deep in list": `{"fields": [{"name": "a", "type": "list1d", "contains": {"type": "struct", "fields": [{"name": "b", "type": "struct", "fields": [{"name": "c", "type": "int32"}]}]}}]}`,
		"struct list in list":     `{"fields": [{"name": "a", "type": "list1d", "contains": {"type": "struct", "fields": [{"name": "b", "type": "list1d", "contains": {"type": "struct", "fields": [{"name": "c", "type": "int32"}]}}]}}]}`,
		"struct three deep":       `{"fields": [{"name": "a", "type": "struct", "fields": [{"name": "b", "type": "struct", "fields": [{"name": "c", "type": "struct", "fields": [{"name": "d", "type": "int32"}]}]}]}]}`,
		"deep list in struct":     `{"fields": [{"name": "a", "type": "struct", "fields": [{"name": "b", "type": "list3d", "contains": {"type": "list1d", "contains": {"type": "int32"}}}]}]}`,
		"not json":                `{"fields": [`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			require.ErrorIs(t, err, errs.ErrSchema)
		})
	}
}

func TestArrowSchema(t *testing.T) {
	s, err := Parse([]byte(nestedLayout))
	require.NoError(t, err)

	md := arrow.NewMetadata([]string{"metadata"}, []string{`{"metadata":{}}`})
	as := s.ArrowSchema(&md)
	require.Equal(t, 4, as.NumFields())
	for _, f := range as.Fields() {
		require.True(t, f.Nullable, f.Name)
	}
	require.True(t, arrow.TypeEqual(arrow.ListOf(arrow.ListOf(arrow.PrimitiveTypes.Int32)), as.Field(1).Type))

	st := as.Field(2).Type.(*arrow.StructType)
	require.Equal(t, 3, st.NumFields())
	require.Equal(t, arrow.FLOAT32, st.Field(1).Type.(*arrow.StructType).Field(0).Type.ID())

	v, ok := as.Metadata().GetValue("metadata")
	require.True(t, ok)
	require.Equal(t, `{"metadata":{}}`, v)
}

func TestParquetSchema(t *testing.T) {
	s, err := Parse([]byte(nestedLayout))
	require.NoError(t, err)
	// flag, grid, s.x, s.inner.y, s.many.z, points.px, points.tags
	require.Len(t, s.ParquetSchema("test").Columns(), 7)
}

func TestValueFromJSON(t *testing.T) {
	s, err := Parse([]byte(nestedLayout))
	require.NoError(t, err)

	decode := func(path, data string) (value.Value, error) {
		doc, err := Decode([]byte(data))
		require.NoError(t, err)
		p, ok := s.Lookup(path)
		require.True(t, ok)
		return ValueFromJSON(path, p.Type, doc)
	}

	v, err := decode("grid", `[[1, 2, 3], []]`)
	require.NoError(t, err)
	require.Equal(t, value.List2D[int32]{{1, 2, 3}, {}}, v)

	v, err = decode("s", `[7]`)
	require.NoError(t, err)
	require.Equal(t, value.FieldBuffer{value.Of(int32(7))}, v)

	v, err = decode("s.inner", `{"y": 1.5}`)
	require.NoError(t, err)
	require.Equal(t, value.FieldMap{"y": value.Of(float32(1.5))}, v)

	v, err = decode("points", `[[2.5, ["a"]], [null, []]]`)
	require.NoError(t, err)
	require.Equal(t, value.StructList1D{
		value.FieldBuffer{value.Of(2.5), value.List1D[string]{"a"}},
		value.FieldBuffer{nil, value.List1D[string]{}},
	}, v)

	_, err = decode("grid", `[1, 2]`)
	require.ErrorIs(t, err, errs.ErrDataType)

	_, err = decode("s", `[1, 2]`)
	require.ErrorIs(t, err, errs.ErrDataBuffer)

	_, err = decode("s.many", `[{"nope": 1}]`)
	require.ErrorIs(t, err, errs.ErrDataBuffer)

	_, err = decode("flag", `1`)
	require.ErrorIs(t, err, errs.ErrDataType)

	doc, err := Decode([]byte(`300`))
	require.NoError(t, err)
	_, err = ValueFromJSON("b", Scalar{Kind: value.Int8}, doc)
	require.ErrorIs(t, err, errs.ErrDataType)
}
