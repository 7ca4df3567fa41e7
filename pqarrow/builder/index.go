package builder

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/polarsignals/pqwriter/errs"
	"github.com/polarsignals/pqwriter/layout"
	"github.com/polarsignals/pqwriter/value"
)

// Index maps every addressable field path of a schema to the node holding
// its builder. An Index covers exactly one batch: after NewRecord the caller
// releases it and creates a new one.
type Index struct {
	schema *layout.Schema
	rb     *RecordBuilder
	nodes  map[string]Node
}

// NewIndex allocates the builders for one batch of rows.
func NewIndex(mem memory.Allocator, schema *layout.Schema, md *arrow.Metadata) *Index {
	idx := &Index{
		schema: schema,
		rb:     NewRecordBuilder(mem, schema.ArrowSchema(md)),
		nodes:  make(map[string]Node),
	}
	for i, c := range schema.Columns() {
		idx.register(c.Name, newNode(c.Type, idx.rb.Field(i)))
	}
	return idx
}

func (idx *Index) register(path string, n Node) {
	idx.nodes[path] = n
	sn := structOf(n)
	if sn == nil {
		return
	}
	for i, name := range sn.names {
		idx.register(path+"."+name, sn.fields[i])
	}
}

// Node returns the node at path.
func (idx *Index) Node(path string) (Node, bool) {
	n, ok := idx.nodes[path]
	return n, ok
}

// Len returns the number of entries appended to path's outermost builder.
func (idx *Index) Len(path string) int {
	n, ok := idx.nodes[path]
	if !ok {
		return 0
	}
	return n.Len()
}

// Rows is the number of rows buffered so far, as seen by the first column.
func (idx *Index) Rows() int {
	cols := idx.schema.Columns()
	if len(cols) == 0 {
		return 0
	}
	return idx.nodes[cols[0].Name].Len()
}

// Fill appends v at path. The value is validated completely before any
// builder is touched, so a failed Fill leaves the builders unchanged.
func (idx *Index) Fill(path string, v value.Value) error {
	p, n, err := idx.lookup(path)
	if err != nil {
		return err
	}
	if v == nil {
		return errs.DataType(path, p.Type.String(), "null")
	}
	if p.Parent != "" {
		if err := idx.checkChildAlignment(p); err != nil {
			return err
		}
	}
	if err := check(path, n, v); err != nil {
		return err
	}
	apply(n, v)
	return nil
}

// AppendNull appends a null at path. A null at a column also nulls its
// nested fields, so the caller must only null a column whose children have
// not been filled for the current row.
func (idx *Index) AppendNull(path string) error {
	p, n, err := idx.lookup(path)
	if err != nil {
		return err
	}
	if p.Parent != "" {
		if err := idx.checkChildAlignment(p); err != nil {
			return err
		}
	} else {
		for _, child := range idx.schema.Children(path) {
			if got, want := idx.nodes[child].Len(), n.Len(); got != want {
				return errs.Writerf(path, "cannot append null: nested field %q has %d entries, parent has %d", child, got, want)
			}
		}
	}
	n.AppendNull()
	return nil
}

func (idx *Index) lookup(path string) (layout.Path, Node, error) {
	p, ok := idx.schema.Lookup(path)
	if !ok {
		return layout.Path{}, nil, errs.UnknownField(path)
	}
	if !p.Fillable() {
		return layout.Path{}, nil, errs.Writerf(path, "field is filled through its parent struct")
	}
	return p, idx.nodes[path], nil
}

// checkChildAlignment verifies that the parent struct of p already holds the
// current row and p does not.
func (idx *Index) checkChildAlignment(p layout.Path) error {
	parent := idx.nodes[p.Parent].Len()
	child := idx.nodes[p.Name].Len()
	if child+1 != parent {
		return errs.Writerf(p.Name, "misaligned with parent %q: %d entries, parent has %d; fill the parent first", p.Parent, child, parent)
	}
	return nil
}

// NewRecord finalizes the buffered rows into a record. The index must not be
// filled afterwards.
func (idx *Index) NewRecord() (arrow.Record, error) {
	rec, err := idx.rb.NewRecord()
	if err != nil {
		return nil, errs.Writerf("", "building record: %v", err)
	}
	return rec, nil
}

// Release frees the builders.
func (idx *Index) Release() {
	idx.rb.Release()
	idx.nodes = nil
}
