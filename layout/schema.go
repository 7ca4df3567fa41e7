package layout

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/parquet-go/parquet-go"
)

// Path describes one addressable field path of a schema.
type Path struct {
	Name string
	// Column is the top-level column the path belongs to.
	Column string
	// Parent is the enclosing fillable path, empty for columns.
	Parent string
	Type   ColumnType
	// Kind is zero for paths that are reachable but only filled through
	// their parent, e.g. the scalar fields of a struct.
	Kind FillKind
}

// Fillable reports whether callers fill the path directly.
func (p Path) Fillable() bool { return p.Kind != 0 }

// Schema is a compiled layout. It is immutable and safe to share.
type Schema struct {
	columns  []Field
	expected []string
	paths    map[string]Path
	children map[string][]string
}

func newSchema(columns []Field) (*Schema, error) {
	s := &Schema{
		columns:  columns,
		paths:    make(map[string]Path),
		children: make(map[string][]string),
	}
	for _, c := range columns {
		kind, err := Classify(c.Name, c.Type, true)
		if err != nil {
			return nil, err
		}
		s.add(Path{Name: c.Name, Column: c.Name, Type: c.Type, Kind: kind})

		st, ok := structOf(c.Type)
		if !ok {
			continue
		}
		for _, f := range st.Fields {
			path := join(c.Name, f.Name)
			sub, ok := structOf(f.Type)
			if !ok {
				s.add(Path{Name: path, Column: c.Name, Type: f.Type})
				continue
			}
			// Classify already rejected struct fields inside struct-list
			// elements, so c is a top-level struct here.
			subKind, err := Classify(path, f.Type, false)
			if err != nil {
				return nil, err
			}
			s.add(Path{Name: path, Column: c.Name, Parent: c.Name, Type: f.Type, Kind: subKind})
			s.children[c.Name] = append(s.children[c.Name], path)
			for _, leaf := range sub.Fields {
				s.add(Path{Name: join(path, leaf.Name), Column: c.Name, Type: leaf.Type})
			}
		}
	}
	return s, nil
}

func (s *Schema) add(p Path) {
	s.paths[p.Name] = p
	if p.Fillable() {
		s.expected = append(s.expected, p.Name)
	}
}

// Columns returns the top-level fields in layout order.
func (s *Schema) Columns() []Field { return s.columns }

// Expected returns every path that must be filled exactly once per row:
// each column followed by the independently filled struct fields of
// top-level structs, in layout order.
func (s *Schema) Expected() []string {
	out := make([]string, len(s.expected))
	copy(out, s.expected)
	return out
}

// NumExpected is len(Expected()) without the copy.
func (s *Schema) NumExpected() int { return len(s.expected) }

// Lookup returns the addressable path with the given name.
func (s *Schema) Lookup(name string) (Path, bool) {
	p, ok := s.paths[name]
	return p, ok
}

// FillKind returns the kind of a fillable path.
func (s *Schema) FillKind(name string) (FillKind, bool) {
	p, ok := s.paths[name]
	if !ok || !p.Fillable() {
		return 0, false
	}
	return p.Kind, true
}

// Children returns the independently filled sub-paths of a column.
func (s *Schema) Children(column string) []string { return s.children[column] }

// ArrowSchema returns the arrow schema rows are buffered in. All fields are
// nullable.
func (s *Schema) ArrowSchema(md *arrow.Metadata) *arrow.Schema {
	return arrow.NewSchema(arrowFields(s.columns), md)
}

// ParquetSchema returns the equivalent parquet-go schema. Group fields are
// ordered by name as parquet-go requires.
func (s *Schema) ParquetSchema(name string) *parquet.Schema {
	root := parquet.Group{}
	for _, c := range s.columns {
		root[c.Name] = c.Type.ParquetNode()
	}
	return parquet.NewSchema(name, root)
}

func (s *Schema) String() string {
	var sb strings.Builder
	for i, c := range s.columns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(c.Name)
		sb.WriteString(": ")
		sb.WriteString(c.Type.String())
	}
	return sb.String()
}
