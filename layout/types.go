package layout

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/parquet-go/parquet-go"

	"github.com/polarsignals/pqwriter/value"
)

// ColumnType is a node of a compiled layout: Scalar, List or Struct.
type ColumnType interface {
	fmt.Stringer
	// ArrowType is the arrow type the column is buffered as.
	ArrowType() arrow.DataType
	// ParquetNode is the parquet-go node equivalent of the column.
	ParquetNode() parquet.Node
	isColumnType()
}

// Scalar is a primitive leaf.
type Scalar struct {
	Kind value.Kind
}

// List is a list of 1 to 3 dimensions. Elem is never a List itself; nested
// list layouts are folded into a single List with the summed depth.
type List struct {
	Depth int
	Elem  ColumnType
}

// Struct is an ordered set of named fields.
type Struct struct {
	Fields []Field
}

// Field is a named ColumnType. Top-level fields are the layout's columns.
type Field struct {
	Name string
	Type ColumnType
}

func (Scalar) isColumnType() {}
func (List) isColumnType()   {}
func (Struct) isColumnType() {}

func (s Scalar) String() string { return s.Kind.String() }

func (l List) String() string { return fmt.Sprintf("list%dd<%s>", l.Depth, l.Elem) }

func (s Struct) String() string {
	var sb strings.Builder
	sb.WriteString("struct{")
	for i, f := range s.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(":")
		sb.WriteString(f.Type.String())
	}
	sb.WriteString("}")
	return sb.String()
}

func (s Scalar) ArrowType() arrow.DataType {
	switch s.Kind {
	case value.Bool:
		return arrow.FixedWidthTypes.Boolean
	case value.Int8:
		return arrow.PrimitiveTypes.Int8
	case value.Int16:
		return arrow.PrimitiveTypes.Int16
	case value.Int32:
		return arrow.PrimitiveTypes.Int32
	case value.Int64:
		return arrow.PrimitiveTypes.Int64
	case value.Uint8:
		return arrow.PrimitiveTypes.Uint8
	case value.Uint16:
		return arrow.PrimitiveTypes.Uint16
	case value.Uint32:
		return arrow.PrimitiveTypes.Uint32
	case value.Uint64:
		return arrow.PrimitiveTypes.Uint64
	case value.Float32:
		return arrow.PrimitiveTypes.Float32
	case value.Float64:
		return arrow.PrimitiveTypes.Float64
	case value.String:
		return arrow.BinaryTypes.String
	default:
		panic(fmt.Sprintf("layout: no arrow type for kind %s", s.Kind))
	}
}

func (l List) ArrowType() arrow.DataType {
	t := l.Elem.ArrowType()
	for i := 0; i < l.Depth; i++ {
		t = arrow.ListOf(t)
	}
	return t
}

func (s Struct) ArrowType() arrow.DataType {
	return arrow.StructOf(arrowFields(s.Fields)...)
}

func arrowFields(fields []Field) []arrow.Field {
	out := make([]arrow.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, arrow.Field{Name: f.Name, Type: f.Type.ArrowType(), Nullable: true})
	}
	return out
}

func (s Scalar) ParquetNode() parquet.Node {
	var node parquet.Node
	switch s.Kind {
	case value.Bool:
		node = parquet.Leaf(parquet.BooleanType)
	case value.Int8:
		node = parquet.Int(8)
	case value.Int16:
		node = parquet.Int(16)
	case value.Int32:
		node = parquet.Int(32)
	case value.Int64:
		node = parquet.Int(64)
	case value.Uint8:
		node = parquet.Uint(8)
	case value.Uint16:
		node = parquet.Uint(16)
	case value.Uint32:
		node = parquet.Uint(32)
	case value.Uint64:
		node = parquet.Uint(64)
	case value.Float32:
		node = parquet.Leaf(parquet.FloatType)
	case value.Float64:
		node = parquet.Leaf(parquet.DoubleType)
	case value.String:
		node = parquet.String()
	default:
		panic(fmt.Sprintf("layout: no parquet node for kind %s", s.Kind))
	}
	return parquet.Optional(node)
}

func (l List) ParquetNode() parquet.Node {
	node := l.Elem.ParquetNode()
	for i := 0; i < l.Depth; i++ {
		node = parquet.Optional(parquet.List(node))
	}
	return node
}

func (s Struct) ParquetNode() parquet.Node {
	group := parquet.Group{}
	for _, f := range s.Fields {
		group[f.Name] = f.Type.ParquetNode()
	}
	return parquet.Optional(group)
}

// terminal unwraps lists and returns the element type and total depth.
func terminal(t ColumnType) (ColumnType, int) {
	depth := 0
	for {
		l, ok := t.(List)
		if !ok {
			return t, depth
		}
		depth += l.Depth
		t = l.Elem
	}
}

// structOf returns the struct type of a struct or struct-list column.
func structOf(t ColumnType) (Struct, bool) {
	elem, _ := terminal(t)
	s, ok := elem.(Struct)
	return s, ok
}
