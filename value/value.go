// Package value defines the closed set of payloads accepted by Writer.Fill.
//
// Leaf payloads are scalars and 1 to 3 dimensional slices of a Primitive type.
// Struct payloads are FieldBuffer or FieldMap, and lists of struct payloads
// are StructList1D, StructList2D and StructList3D. No other implementations of
// Value exist.
package value

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/array"
)

// Value is a payload for a single fill call.
type Value interface {
	// Kind is the element kind. KindStruct for struct payloads.
	Kind() Kind
	// Depth is the list nesting depth, 0 for scalars and plain structs.
	Depth() int
	// TypeName renders the value's shape, e.g. "list2d<int32>".
	TypeName() string

	sealed()
}

// Leaf is a non-struct value that knows how to append itself to a list chain
// ending in a primitive builder. The caller guarantees len(lists) == Depth()
// and that leaf holds elements of Kind().
type Leaf interface {
	Value
	AppendTo(lists []*array.ListBuilder, leaf array.Builder)
}

func typeName(k Kind, depth int) string {
	if depth == 0 {
		return k.String()
	}
	return fmt.Sprintf("list%dd<%s>", depth, k)
}

// TypeName renders a kind at a given list depth the same way Value.TypeName does.
func TypeName(k Kind, depth int) string { return typeName(k, depth) }

type appender[T Primitive] interface {
	Append(T)
	AppendValues([]T, []bool)
}

func leafAppender[T Primitive](b array.Builder) appender[T] {
	a, ok := b.(appender[T])
	if !ok {
		panic(fmt.Sprintf("value: builder %T cannot hold %s", b, kindOf[T]()))
	}
	return a
}

// Scalar is a single primitive value.
type Scalar[T Primitive] struct {
	V T
}

// Of wraps v into a Scalar.
func Of[T Primitive](v T) Scalar[T] { return Scalar[T]{V: v} }

func (Scalar[T]) Kind() Kind         { return kindOf[T]() }
func (Scalar[T]) Depth() int         { return 0 }
func (s Scalar[T]) TypeName() string { return typeName(s.Kind(), 0) }
func (Scalar[T]) sealed()            {}

func (s Scalar[T]) AppendTo(_ []*array.ListBuilder, leaf array.Builder) {
	leafAppender[T](leaf).Append(s.V)
}

// List1D is a one dimensional list. A nil slice is an empty list.
type List1D[T Primitive] []T

func (List1D[T]) Kind() Kind         { return kindOf[T]() }
func (List1D[T]) Depth() int         { return 1 }
func (l List1D[T]) TypeName() string { return typeName(l.Kind(), 1) }
func (List1D[T]) sealed()            {}

func (l List1D[T]) AppendTo(lists []*array.ListBuilder, leaf array.Builder) {
	lists[0].Append(true)
	leafAppender[T](leaf).AppendValues(l, nil)
}

// List2D is a two dimensional list. Nil inner slices are empty lists.
type List2D[T Primitive] [][]T

func (List2D[T]) Kind() Kind         { return kindOf[T]() }
func (List2D[T]) Depth() int         { return 2 }
func (l List2D[T]) TypeName() string { return typeName(l.Kind(), 2) }
func (List2D[T]) sealed()            {}

func (l List2D[T]) AppendTo(lists []*array.ListBuilder, leaf array.Builder) {
	a := leafAppender[T](leaf)
	lists[0].Append(true)
	for _, inner := range l {
		lists[1].Append(true)
		a.AppendValues(inner, nil)
	}
}

// List3D is a three dimensional list.
type List3D[T Primitive] [][][]T

func (List3D[T]) Kind() Kind         { return kindOf[T]() }
func (List3D[T]) Depth() int         { return 3 }
func (l List3D[T]) TypeName() string { return typeName(l.Kind(), 3) }
func (List3D[T]) sealed()            {}

func (l List3D[T]) AppendTo(lists []*array.ListBuilder, leaf array.Builder) {
	a := leafAppender[T](leaf)
	lists[0].Append(true)
	for _, mid := range l {
		lists[1].Append(true)
		for _, inner := range mid {
			lists[2].Append(true)
			a.AppendValues(inner, nil)
		}
	}
}
