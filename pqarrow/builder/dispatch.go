package builder

import (
	"fmt"

	"github.com/polarsignals/pqwriter/errs"
	"github.com/polarsignals/pqwriter/value"
)

// check validates v against the shape of n without mutating any builder.
func check(path string, n Node, v value.Value) error {
	switch n := n.(type) {
	case *ScalarNode:
		return checkLeaf(path, n, 0, n.kind, v)
	case *ListNode:
		switch elem := n.elem.(type) {
		case *ScalarNode:
			return checkLeaf(path, n, n.Depth(), elem.kind, v)
		case *StructNode:
			return checkStructList(path, n, elem, v)
		}
	case *StructNode:
		s, ok := v.(value.Struct)
		if !ok || v.Depth() != 0 {
			return errs.DataType(path, n.typ.String(), v.TypeName())
		}
		return checkStruct(path, n, s)
	}
	return errs.Writerf(path, "unsupported builder node %T", n)
}

func checkLeaf(path string, n Node, depth int, kind value.Kind, v value.Value) error {
	if _, ok := v.(value.Leaf); !ok || v.Kind() != kind || v.Depth() != depth {
		return errs.DataType(path, n.Type().String(), v.TypeName())
	}
	return nil
}

func checkStructList(path string, n *ListNode, elem *StructNode, v value.Value) error {
	if v.Kind() != value.KindStruct || v.Depth() != n.Depth() {
		return errs.DataType(path, n.typ.String(), v.TypeName())
	}
	var err error
	each(v, func(s value.Struct) {
		if err == nil {
			err = checkStruct(path, elem, s)
		}
	})
	return err
}

func checkStruct(path string, n *StructNode, s value.Struct) error {
	buf, err := fieldBuffer(path, n, s)
	if err != nil {
		return err
	}
	for j, i := range n.flat {
		if buf[j] == nil {
			continue
		}
		if err := check(path+"."+n.names[i], n.fields[i], buf[j]); err != nil {
			return err
		}
	}
	return nil
}

// fieldBuffer returns the values of n's non-struct fields in layout order.
func fieldBuffer(path string, n *StructNode, s value.Struct) (value.FieldBuffer, error) {
	switch s := s.(type) {
	case value.FieldBuffer:
		if len(s) != len(n.flat) {
			return nil, errs.DataBuffer(path, "expected %d field values, got %d", len(n.flat), len(s))
		}
		return s, nil
	case value.FieldMap:
		buf := make(value.FieldBuffer, len(n.flat))
		pos := make(map[int]int, len(n.flat))
		for j, i := range n.flat {
			pos[i] = j
		}
		for name, v := range s {
			i, ok := n.byName[name]
			if !ok {
				return nil, errs.DataBuffer(path, "struct has no field %q", name)
			}
			j, ok := pos[i]
			if !ok {
				return nil, errs.DataBuffer(path, "field %q is a struct and must be filled at %q", name, path+"."+name)
			}
			buf[j] = v
		}
		return buf, nil
	default:
		return nil, errs.DataType(path, "struct", fmt.Sprintf("%T", s))
	}
}

// each calls fn for every struct of a struct list, in order.
func each(v value.Value, fn func(value.Struct)) {
	switch v := v.(type) {
	case value.StructList1D:
		for _, s := range v {
			fn(s)
		}
	case value.StructList2D:
		for _, l := range v {
			for _, s := range l {
				fn(s)
			}
		}
	case value.StructList3D:
		for _, ll := range v {
			for _, l := range ll {
				for _, s := range l {
					fn(s)
				}
			}
		}
	}
}

// apply appends a value that check has accepted.
func apply(n Node, v value.Value) {
	switch n := n.(type) {
	case *ScalarNode:
		v.(value.Leaf).AppendTo(nil, n.b)
	case *ListNode:
		switch elem := n.elem.(type) {
		case *ScalarNode:
			v.(value.Leaf).AppendTo(n.levels, elem.b)
		case *StructNode:
			applyStructList(n, elem, v)
		}
	case *StructNode:
		applyStruct(n, v.(value.Struct))
	}
}

func applyStructList(n *ListNode, elem *StructNode, v value.Value) {
	switch v := v.(type) {
	case value.StructList1D:
		n.levels[0].Append(true)
		for _, s := range v {
			applyStruct(elem, s)
		}
	case value.StructList2D:
		n.levels[0].Append(true)
		for _, l := range v {
			n.levels[1].Append(true)
			for _, s := range l {
				applyStruct(elem, s)
			}
		}
	case value.StructList3D:
		n.levels[0].Append(true)
		for _, ll := range v {
			n.levels[1].Append(true)
			for _, l := range ll {
				n.levels[2].Append(true)
				for _, s := range l {
					applyStruct(elem, s)
				}
			}
		}
	}
}

// applyStruct opens a struct slot and fills its non-struct fields. Struct
// and struct-list fields are left one entry behind; they are filled through
// their own path or nulled at the end of the row.
func applyStruct(n *StructNode, s value.Struct) {
	buf, _ := fieldBuffer("", n, s)
	n.b.Append(true)
	for j, i := range n.flat {
		if buf[j] == nil {
			n.fields[i].AppendNull()
			continue
		}
		apply(n.fields[i], buf[j])
	}
}
