package builder

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/polarsignals/pqwriter/layout"
	"github.com/polarsignals/pqwriter/value"
)

// Node is one addressable position in the builder tree of a column.
type Node interface {
	// Len is the number of entries appended at this node's outermost level.
	Len() int
	// AppendNull appends a single null at the outermost level.
	AppendNull()
	// Type is the layout type the node was built from.
	Type() layout.ColumnType
}

// ScalarNode wraps a primitive builder.
type ScalarNode struct {
	b    array.Builder
	kind value.Kind
	typ  layout.ColumnType
}

// ListNode wraps the chain of list builders of a 1 to 3 dimensional list,
// outermost first. Elem is a *ScalarNode or a *StructNode.
type ListNode struct {
	levels []*array.ListBuilder
	elem   Node
	typ    layout.ColumnType
}

// StructNode wraps a struct builder and its fields.
type StructNode struct {
	b      *array.StructBuilder
	names  []string
	fields []Node
	// flat holds the positions in fields of the non-struct fields, which are
	// filled together with the struct itself.
	flat   []int
	byName map[string]int
	typ    layout.ColumnType
}

func (n *ScalarNode) Len() int                { return n.b.Len() }
func (n *ScalarNode) AppendNull()             { n.b.AppendNull() }
func (n *ScalarNode) Type() layout.ColumnType { return n.typ }

func (n *ListNode) Len() int                { return n.levels[0].Len() }
func (n *ListNode) AppendNull()             { n.levels[0].AppendNull() }
func (n *ListNode) Type() layout.ColumnType { return n.typ }

// Depth is the number of list levels.
func (n *ListNode) Depth() int { return len(n.levels) }

// Elem returns the innermost node.
func (n *ListNode) Elem() Node { return n.elem }

func (n *StructNode) Len() int { return n.b.Len() }

// AppendNull appends a null struct. Arrow appends a null to every field as
// well, so nested builders stay aligned.
func (n *StructNode) AppendNull()             { n.b.AppendNull() }
func (n *StructNode) Type() layout.ColumnType { return n.typ }

// Field returns the node of a named field.
func (n *StructNode) Field(name string) (Node, bool) {
	i, ok := n.byName[name]
	if !ok {
		return nil, false
	}
	return n.fields[i], true
}

// newNode builds the typed node tree over a builder created by
// array.NewBuilder for t.ArrowType().
func newNode(t layout.ColumnType, b array.Builder) Node {
	switch t := t.(type) {
	case layout.Scalar:
		return &ScalarNode{b: b, kind: t.Kind, typ: t}
	case layout.List:
		n := &ListNode{levels: make([]*array.ListBuilder, 0, t.Depth), typ: t}
		for i := 0; i < t.Depth; i++ {
			lb := b.(*array.ListBuilder)
			n.levels = append(n.levels, lb)
			b = lb.ValueBuilder()
		}
		n.elem = newNode(t.Elem, b)
		return n
	case layout.Struct:
		sb := b.(*array.StructBuilder)
		n := &StructNode{
			b:      sb,
			names:  make([]string, len(t.Fields)),
			fields: make([]Node, len(t.Fields)),
			byName: make(map[string]int, len(t.Fields)),
			typ:    t,
		}
		for i, f := range t.Fields {
			n.names[i] = f.Name
			n.fields[i] = newNode(f.Type, sb.FieldBuilder(i))
			n.byName[f.Name] = i
			if !isStructLike(n.fields[i]) {
				n.flat = append(n.flat, i)
			}
		}
		return n
	default:
		panic(fmt.Sprintf("builder: unsupported column type %T", t))
	}
}

// isStructLike reports whether n is a struct or a list of structs.
func isStructLike(n Node) bool {
	return structOf(n) != nil
}

func structOf(n Node) *StructNode {
	switch n := n.(type) {
	case *StructNode:
		return n
	case *ListNode:
		sn, _ := n.elem.(*StructNode)
		return sn
	default:
		return nil
	}
}
