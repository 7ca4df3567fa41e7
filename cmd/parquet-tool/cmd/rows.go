package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/cobra"

	"github.com/polarsignals/pqwriter/pqarrow/arrowutils"
)

var rowsCmd = &cobra.Command{
	Use:     "rows",
	Example: "parquet-tool rows <file.parquet> [row_start] [num_rows]",
	Short:   "print out row(s) of a file",
	Args:    cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, num := 0, 10
		var err error
		if len(args) > 1 {
			if start, err = strconv.Atoi(args[1]); err != nil {
				return err
			}
		}
		if len(args) > 2 {
			if num, err = strconv.Atoi(args[2]); err != nil {
				return err
			}
		}
		return rows(cmd.Context(), cmd.OutOrStdout(), args[0], start, num)
	},
}

func rows(ctx context.Context, out io.Writer, file string, start, num int) error {
	r, closer, err := openFile(ctx, file)
	if err != nil {
		return err
	}
	defer closer.Close()

	tbl, err := arrowutils.ReadFile(ctx, r, memory.DefaultAllocator)
	if err != nil {
		return err
	}
	defer tbl.Release()

	headers := []string{"row"}
	for _, f := range tbl.Schema().Fields() {
		headers = append(headers, f.Name)
	}
	t := newTable(headers...)

	row := 0
	if err := arrowutils.ForEachRow(tbl, func(rec arrow.Record, i int) error {
		defer func() { row++ }()
		if row < start || row >= start+num {
			return nil
		}
		cells := []string{strconv.Itoa(row)}
		for _, col := range rec.Columns() {
			cells = append(cells, arrowutils.FormatValue(col, i))
		}
		t.Row(cells...)
		return nil
	}); err != nil {
		return err
	}
	fmt.Fprintln(out, t)
	return nil
}
