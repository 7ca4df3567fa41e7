package arrowutils

import (
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

const NullValueStr = "null"

// GetValue returns the value at index i in arr. If the value is null, nil is
// returned. Lists are returned as []any and structs as map[string]any.
func GetValue(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}

	switch a := arr.(type) {
	case *array.List:
		start, end := a.ValueOffsets(i)
		out := make([]any, 0, end-start)
		ForEachValueInList(i, a, func(_ int, values arrow.Array, j int) {
			out = append(out, GetValue(values, j))
		})
		return out
	case *array.Struct:
		st := a.DataType().(*arrow.StructType)
		out := make(map[string]any, a.NumField())
		for k := 0; k < a.NumField(); k++ {
			out[st.Field(k).Name] = GetValue(a.Field(k), i)
		}
		return out
	default:
		return a.GetOneForMarshal(i)
	}
}

// FormatValue renders the value at index i in arr. Lists render as [a b],
// structs as {name:value ...}, strings quoted and nulls as null.
func FormatValue(arr arrow.Array, i int) string {
	if arr.IsNull(i) {
		return NullValueStr
	}
	switch a := arr.(type) {
	case *array.List:
		start, end := a.ValueOffsets(i)
		vals := make([]string, 0, end-start)
		ForEachValueInList(i, a, func(_ int, values arrow.Array, j int) {
			vals = append(vals, FormatValue(values, j))
		})
		return "[" + strings.Join(vals, " ") + "]"
	case *array.Struct:
		st := a.DataType().(*arrow.StructType)
		fields := make([]string, 0, a.NumField())
		for k := 0; k < a.NumField(); k++ {
			fields = append(fields, st.Field(k).Name+":"+FormatValue(a.Field(k), i))
		}
		return "{" + strings.Join(fields, " ") + "}"
	case *array.String:
		return strconv.Quote(a.Value(i))
	default:
		return arr.ValueStr(i)
	}
}
