package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Example: "parquet-tool stats <file.parquet>",
	Short:   "print total stats of a parquet file",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

type stats struct {
	Type                  string
	NumVal                int64
	Encoding              string
	TotalCompressedSize   int64
	TotalUncompressedSize int64
	TotalByteSize         int64
}

func runStats(ctx context.Context, out io.Writer, file string) error {
	pf, closer, err := openParquetFile(ctx, file)
	if err != nil {
		return err
	}
	defer closer.Close()

	meta := pf.Metadata()

	s := map[string]stats{}
	for _, rg := range meta.RowGroups {
		for _, ds := range rg.Columns {
			col := strings.Join(ds.MetaData.PathInSchema, ".")
			enc := ""
			for _, e := range ds.MetaData.Encoding {
				enc += e.String() + " "
			}

			prev := s[col]
			s[col] = stats{
				Type:                  ds.MetaData.Type.String(),
				NumVal:                prev.NumVal + ds.MetaData.NumValues,
				Encoding:              enc,
				TotalCompressedSize:   prev.TotalCompressedSize + ds.MetaData.TotalCompressedSize,
				TotalUncompressedSize: prev.TotalUncompressedSize + ds.MetaData.TotalUncompressedSize,
				TotalByteSize:         prev.TotalByteSize + rg.TotalByteSize,
			}
		}
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Col", "Type", "NumVal", "Encoding", "TotalCompressedSize", "TotalUncompressedSize", "Compression", "%"})
	for _, k := range slices.Sorted(maps.Keys(s)) {
		row := s[k]
		table.Append(
			[]string{
				k,
				row.Type,
				fmt.Sprintf("%d", row.NumVal),
				row.Encoding,
				humanize.Bytes(uint64(row.TotalCompressedSize)),
				humanize.Bytes(uint64(row.TotalUncompressedSize)),
				fmt.Sprintf("%.2f", float64(row.TotalUncompressedSize-row.TotalCompressedSize)/float64(row.TotalCompressedSize)*100),
				fmt.Sprintf("%.2f", float64(row.TotalUncompressedSize)/float64(row.TotalByteSize)*100),
			})
	}
	table.Render()

	return nil
}
