package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/spf13/cobra"
)

var rowgroupCmd = &cobra.Command{
	Use:     "rowgroup",
	Example: "parquet-tool rowgroup </path/to/parquet-file> <row_group_index>",
	Short:   "Dump the column index for a row group",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rg, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		return rowgroup(cmd.Context(), cmd.OutOrStdout(), args[0], rg)
	},
}

func rowgroup(ctx context.Context, out io.Writer, file string, rg int) error {
	f, closer, err := openParquetFile(ctx, file)
	if err != nil {
		return err
	}
	defer closer.Close()

	groups := f.RowGroups()
	if rg < 0 || rg >= len(groups) {
		return fmt.Errorf("row group %d out of range, file has %d", rg, len(groups))
	}

	t := newTable("Column", "Page", "Min", "Max", "Nulls")
	columns := f.Schema().Columns()
	for i, chunk := range groups[rg].ColumnChunks() {
		index, err := chunk.ColumnIndex()
		if err != nil {
			if errors.Is(err, parquet.ErrMissingColumnIndex) {
				continue
			}
			return fmt.Errorf("column index of %s: %w", joinPath(columns[i]), err)
		}
		if index == nil {
			continue
		}
		for j := 0; j < index.NumPages(); j++ {
			t.Row(
				joinPath(columns[i]),
				strconv.Itoa(j),
				fmt.Sprintf("%v", index.MinValue(j)),
				fmt.Sprintf("%v", index.MaxValue(j)),
				fmt.Sprintf("%v", index.NullCount(j)),
			)
		}
	}
	fmt.Fprintln(out, t)
	return nil
}
