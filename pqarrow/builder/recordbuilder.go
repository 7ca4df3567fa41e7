package builder

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// The code in this file is based heavily on Apache arrow's array.RecordBuilder.
// Unlike the upstream version, NewRecord reports misaligned columns as an
// error instead of panicking, since column lengths are driven by callers.

// RecordBuilder eases the process of building a Record, iteratively, from
// a known Schema.
type RecordBuilder struct {
	mem    memory.Allocator
	schema *arrow.Schema
	fields []array.Builder
}

// NewRecordBuilder returns a builder, using the provided memory allocator and a schema.
func NewRecordBuilder(mem memory.Allocator, schema *arrow.Schema) *RecordBuilder {
	b := &RecordBuilder{
		mem:    mem,
		schema: schema,
		fields: make([]array.Builder, len(schema.Fields())),
	}

	for i, f := range schema.Fields() {
		b.fields[i] = array.NewBuilder(b.mem, f.Type)
	}

	return b
}

// Release releases the field builders. The builder must not be used afterwards.
func (b *RecordBuilder) Release() {
	for _, f := range b.fields {
		f.Release()
	}
	b.fields = nil
}

func (b *RecordBuilder) Schema() *arrow.Schema     { return b.schema }
func (b *RecordBuilder) Fields() []array.Builder   { return b.fields }
func (b *RecordBuilder) Field(i int) array.Builder { return b.fields[i] }

// NewRecord creates a new record from the memory buffers and resets the
// RecordBuilder so it can be used to build a new record.
//
// The returned Record must be Release()'d after use.
func (b *RecordBuilder) NewRecord() (arrow.Record, error) {
	cols := make([]arrow.Array, len(b.fields))
	rows := int64(0)

	defer func(cols []arrow.Array) {
		for _, col := range cols {
			if col == nil {
				continue
			}
			col.Release()
		}
	}(cols)

	for i, f := range b.fields {
		cols[i] = f.NewArray()
		irow := int64(cols[i].Len())
		if i > 0 && irow != rows {
			return nil, fmt.Errorf("field %q has %d rows, want %d", b.schema.Field(i).Name, irow, rows)
		}
		rows = irow
	}

	return array.NewRecord(b.schema, cols, rows), nil
}
