package arrowutils

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ReadFile reads a whole parquet file into a table. Files carrying a stored
// arrow schema are restored with their original types.
func ReadFile(ctx context.Context, r parquet.ReaderAtSeeker, mem memory.Allocator) (arrow.Table, error) {
	pr, err := file.NewParquetReader(r, file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer pr.Close()

	fr, err := pqarrow.NewFileReader(pr, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("open arrow reader: %w", err)
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return tbl, nil
}

// ForEachRow calls fn for every row of tbl with the record holding the row
// and the row's index within it.
func ForEachRow(tbl arrow.Table, fn func(rec arrow.Record, i int) error) error {
	tr := array.NewTableReader(tbl, -1)
	defer tr.Release()
	for tr.Next() {
		rec := tr.Record()
		for i := 0; i < int(rec.NumRows()); i++ {
			if err := fn(rec, i); err != nil {
				return err
			}
		}
	}
	return tr.Err()
}

// ForEachValueInList calls iterator with the position and index into the
// list's values of every element of the list at index.
func ForEachValueInList(index int, arr *array.List, iterator func(int, arrow.Array, int)) {
	start, end := arr.ValueOffsets(index)
	values := arr.ListValues()
	for j := start; j < end; j++ {
		iterator(int(j-start), values, int(j))
	}
}
