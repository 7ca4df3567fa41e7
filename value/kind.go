package value

// Kind is the element type of a value or of a layout column.
type Kind int

const (
	Invalid Kind = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	String
	KindStruct
)

var kindNames = [...]string{
	Invalid:    "invalid",
	Bool:       "bool",
	Int8:       "int8",
	Int16:      "int16",
	Int32:      "int32",
	Int64:      "int64",
	Uint8:      "uint8",
	Uint16:     "uint16",
	Uint32:     "uint32",
	Uint64:     "uint64",
	Float32:    "float32",
	Float64:    "float64",
	String:     "string",
	KindStruct: "struct",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[Invalid]
	}
	return kindNames[k]
}

// ParseKind resolves a scalar type token. "float" and "double" are accepted
// as aliases of float32 and float64.
func ParseKind(token string) (Kind, bool) {
	switch token {
	case "float":
		return Float32, true
	case "double":
		return Float64, true
	case "struct", "invalid":
		return Invalid, false
	}
	for k, name := range kindNames {
		if name == token {
			return Kind(k), true
		}
	}
	return Invalid, false
}

// Primitive is the closed set of Go types a leaf value may carry.
type Primitive interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64 | string
}

func kindOf[T Primitive]() Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	case string:
		return String
	default:
		panic("unreachable")
	}
}
