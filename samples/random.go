package samples

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/polarsignals/pqwriter/layout"
	"github.com/polarsignals/pqwriter/value"
)

// Filler is the part of pqwriter.Writer the generator drives.
type Filler interface {
	Fill(path string, v value.Value) error
	EndRow() error
}

// Generator produces random values matching layout column types.
type Generator struct {
	rng *rand.Rand
	// MaxLen bounds the number of elements of each list level.
	MaxLen int
	// SkipRate is the probability of leaving a column unfilled so that the
	// writer stores a null for it.
	SkipRate float64
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewSource(seed)),
		MaxLen: 4,
	}
}

// Row fills every expected path of schema once and ends the row. Fields of a
// skipped column are skipped as well.
func (g *Generator) Row(f Filler, schema *layout.Schema) error {
	skipped := map[string]bool{}
	for _, path := range schema.Expected() {
		p, _ := schema.Lookup(path)
		if p.Parent != "" && skipped[p.Parent] {
			continue
		}
		if g.SkipRate > 0 && g.rng.Float64() < g.SkipRate {
			skipped[path] = true
			continue
		}
		v, err := g.Value(p.Type)
		if err != nil {
			return fmt.Errorf("generate %s: %w", path, err)
		}
		if err := f.Fill(path, v); err != nil {
			return err
		}
	}
	return f.EndRow()
}

// Value returns a random payload for a fillable field of type t.
func (g *Generator) Value(t layout.ColumnType) (value.Value, error) {
	switch t := t.(type) {
	case layout.Scalar:
		return g.leaf(t.Kind, 0)
	case layout.List:
		switch elem := t.Elem.(type) {
		case layout.Scalar:
			return g.leaf(elem.Kind, t.Depth)
		case layout.Struct:
			return g.structList(elem, t.Depth)
		}
	case layout.Struct:
		return g.structValue(t)
	}
	return nil, fmt.Errorf("unsupported column type %s", t)
}

func (g *Generator) structValue(s layout.Struct) (value.FieldBuffer, error) {
	fields := layout.FlatFields(s)
	buf := make(value.FieldBuffer, len(fields))
	for i, f := range fields {
		v, err := g.Value(f.Type)
		if err != nil {
			return nil, err
		}
		buf[i] = v
	}
	return buf, nil
}

func (g *Generator) structList(s layout.Struct, depth int) (value.Value, error) {
	var err error
	gen := func() value.Struct {
		buf, e := g.structValue(s)
		if e != nil && err == nil {
			err = e
		}
		return buf
	}
	var v value.Value
	switch depth {
	case 1:
		v = value.StructList1D(list(g, gen))
	case 2:
		v = value.StructList2D(list(g, func() []value.Struct { return list(g, gen) }))
	case 3:
		v = value.StructList3D(list(g, func() [][]value.Struct {
			return list(g, func() []value.Struct { return list(g, gen) })
		}))
	default:
		return nil, fmt.Errorf("list depth %d not supported", depth)
	}
	return v, err
}

func (g *Generator) leaf(k value.Kind, depth int) (value.Value, error) {
	r := g.rng
	switch k {
	case value.Bool:
		return leaf(g, depth, func() bool { return r.Intn(2) == 1 })
	case value.Int8:
		return leaf(g, depth, func() int8 { return int8(r.Intn(math.MaxUint8+1) + math.MinInt8) })
	case value.Int16:
		return leaf(g, depth, func() int16 { return int16(r.Intn(math.MaxUint16+1) + math.MinInt16) })
	case value.Int32:
		return leaf(g, depth, func() int32 { return int32(r.Uint32()) })
	case value.Int64:
		return leaf(g, depth, func() int64 { return int64(r.Uint64()) })
	case value.Uint8:
		return leaf(g, depth, func() uint8 { return uint8(r.Intn(math.MaxUint8 + 1)) })
	case value.Uint16:
		return leaf(g, depth, func() uint16 { return uint16(r.Intn(math.MaxUint16 + 1)) })
	case value.Uint32:
		return leaf(g, depth, r.Uint32)
	case value.Uint64:
		return leaf(g, depth, r.Uint64)
	case value.Float32:
		return leaf(g, depth, r.Float32)
	case value.Float64:
		return leaf(g, depth, r.NormFloat64)
	case value.String:
		return leaf(g, depth, func() string {
			id, err := uuid.NewRandomFromReader(r)
			if err != nil {
				return ""
			}
			return id.String()
		})
	default:
		return nil, fmt.Errorf("unsupported kind %s", k)
	}
}

func leaf[T value.Primitive](g *Generator, depth int, gen func() T) (value.Value, error) {
	switch depth {
	case 0:
		return value.Of(gen()), nil
	case 1:
		return value.List1D[T](list(g, gen)), nil
	case 2:
		return value.List2D[T](list(g, func() []T { return list(g, gen) })), nil
	case 3:
		return value.List3D[T](list(g, func() [][]T {
			return list(g, func() []T { return list(g, gen) })
		})), nil
	default:
		return nil, fmt.Errorf("list depth %d not supported", depth)
	}
}

func list[T any](g *Generator, gen func() T) []T {
	out := make([]T, g.rng.Intn(g.MaxLen+1))
	for i := range out {
		out[i] = gen()
	}
	return out
}
