package layout

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/polarsignals/pqwriter/errs"
	"github.com/polarsignals/pqwriter/value"
)

// ValueFromJSON converts a decoded JSON value into the Value a field of type
// t accepts. Struct payloads may be JSON arrays (FieldBuffer, non-struct
// fields in layout order) or objects (FieldMap). JSON null inside a struct
// payload becomes an explicit null.
func ValueFromJSON(path string, t ColumnType, v any) (value.Value, error) {
	if v == nil {
		return nil, errs.DataType(path, t.String(), "null")
	}
	elem, depth := terminal(t)
	switch elem := elem.(type) {
	case Scalar:
		return leafFromJSON(path, elem.Kind, depth, v)
	case Struct:
		return structListFromJSON(path, elem, depth, v)
	default:
		return nil, errs.Schemaf(path, "unsupported column type %s", t)
	}
}

func structListFromJSON(path string, s Struct, depth int, v any) (value.Value, error) {
	switch depth {
	case 0:
		return structFromJSON(path, s, v)
	case 1:
		l, err := slice(path, v, func(x any) (value.Struct, error) { return structFromJSON(path, s, x) })
		return value.StructList1D(l), err
	case 2:
		l, err := slice(path, v, func(x any) ([]value.Struct, error) {
			return slice(path, x, func(y any) (value.Struct, error) { return structFromJSON(path, s, y) })
		})
		return value.StructList2D(l), err
	case 3:
		l, err := slice(path, v, func(x any) ([][]value.Struct, error) {
			return slice(path, x, func(y any) ([]value.Struct, error) {
				return slice(path, y, func(z any) (value.Struct, error) { return structFromJSON(path, s, z) })
			})
		})
		return value.StructList3D(l), err
	default:
		return nil, errs.Schemaf(path, "list depth %d not supported", depth)
	}
}

func structFromJSON(path string, s Struct, v any) (value.Struct, error) {
	switch v := v.(type) {
	case []any:
		fields := FlatFields(s)
		if len(v) != len(fields) {
			return nil, errs.DataBuffer(path, "expected %d field values, got %d", len(fields), len(v))
		}
		buf := make(value.FieldBuffer, len(v))
		for i, f := range fields {
			if v[i] == nil {
				continue
			}
			fv, err := ValueFromJSON(join(path, f.Name), f.Type, v[i])
			if err != nil {
				return nil, err
			}
			buf[i] = fv
		}
		return buf, nil
	case map[string]any:
		m := make(value.FieldMap, len(v))
		for name, raw := range v {
			f, ok := fieldByName(s, name)
			if !ok {
				return nil, errs.DataBuffer(path, "struct has no field %q", name)
			}
			if raw == nil {
				m[name] = nil
				continue
			}
			fv, err := ValueFromJSON(join(path, name), f.Type, raw)
			if err != nil {
				return nil, err
			}
			m[name] = fv
		}
		return m, nil
	default:
		return nil, errs.DataType(path, "struct", fmt.Sprintf("%T", v))
	}
}

// FlatFields returns the fields of s that are filled together with s, i.e.
// all fields that are neither structs nor struct lists.
func FlatFields(s Struct) []Field {
	out := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if _, ok := structOf(f.Type); !ok {
			out = append(out, f)
		}
	}
	return out
}

func fieldByName(s Struct, name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func leafFromJSON(path string, k value.Kind, depth int, v any) (value.Value, error) {
	switch k {
	case value.Bool:
		return leafOf(path, depth, v, toBool)
	case value.Int8:
		return leafOf(path, depth, v, toInt[int8])
	case value.Int16:
		return leafOf(path, depth, v, toInt[int16])
	case value.Int32:
		return leafOf(path, depth, v, toInt[int32])
	case value.Int64:
		return leafOf(path, depth, v, toInt[int64])
	case value.Uint8:
		return leafOf(path, depth, v, toUint[uint8])
	case value.Uint16:
		return leafOf(path, depth, v, toUint[uint16])
	case value.Uint32:
		return leafOf(path, depth, v, toUint[uint32])
	case value.Uint64:
		return leafOf(path, depth, v, toUint[uint64])
	case value.Float32:
		return leafOf(path, depth, v, toFloat[float32])
	case value.Float64:
		return leafOf(path, depth, v, toFloat[float64])
	case value.String:
		return leafOf(path, depth, v, toString)
	default:
		return nil, errs.Schemaf(path, "unsupported kind %s", k)
	}
}

func leafOf[T value.Primitive](path string, depth int, v any, conv func(any) (T, error)) (value.Value, error) {
	wrap := func(x any) (T, error) {
		t, err := conv(x)
		if err != nil {
			var zero T
			return zero, &errs.Error{Kind: errs.KindDataType, Path: path, Msg: "invalid value", Err: err}
		}
		return t, nil
	}
	switch depth {
	case 0:
		x, err := wrap(v)
		return value.Of(x), err
	case 1:
		l, err := slice(path, v, wrap)
		return value.List1D[T](l), err
	case 2:
		l, err := slice(path, v, func(x any) ([]T, error) { return slice(path, x, wrap) })
		return value.List2D[T](l), err
	case 3:
		l, err := slice(path, v, func(x any) ([][]T, error) {
			return slice(path, x, func(y any) ([]T, error) { return slice(path, y, wrap) })
		})
		return value.List3D[T](l), err
	default:
		return nil, errs.Schemaf(path, "list depth %d not supported", depth)
	}
}

func slice[T any](path string, v any, conv func(any) (T, error)) ([]T, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, errs.DataType(path, "array", fmt.Sprintf("%T", v))
	}
	out := make([]T, 0, len(arr))
	for _, x := range arr {
		t, err := conv(x)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func toBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected bool, got %T", v)
	}
	return b, nil
}

func toString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func toInt[T int8 | int16 | int32 | int64](v any) (T, error) {
	var n int64
	switch v := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected integer: %w", err)
		}
		n = i
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		n = int64(v)
	case int:
		n = int64(v)
	case int64:
		n = v
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
	if int64(T(n)) != n {
		return 0, fmt.Errorf("%d overflows %s", n, value.Of(T(0)).TypeName())
	}
	return T(n), nil
}

func toUint[T uint8 | uint16 | uint32 | uint64](v any) (T, error) {
	var n uint64
	switch v := v.(type) {
	case json.Number:
		u, err := strconv.ParseUint(string(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected unsigned integer: %w", err)
		}
		n = u
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return 0, fmt.Errorf("expected unsigned integer, got %v", v)
		}
		n = uint64(v)
	case int:
		if v < 0 {
			return 0, fmt.Errorf("expected unsigned integer, got %d", v)
		}
		n = uint64(v)
	default:
		return 0, fmt.Errorf("expected unsigned integer, got %T", v)
	}
	if uint64(T(n)) != n {
		return 0, fmt.Errorf("%d overflows %s", n, value.Of(T(0)).TypeName())
	}
	return T(n), nil
}

func toFloat[T float32 | float64](v any) (T, error) {
	switch v := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0, fmt.Errorf("expected number: %w", err)
		}
		return T(f), nil
	case float64:
		return T(v), nil
	case int:
		return T(v), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
