package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:     "dump",
	Example: "parquet-tool dump <file.parquet>",
	Short:   "dump the schema and row groups of a file",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dump(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func dump(ctx context.Context, out io.Writer, file string) error {
	pf, closer, err := openParquetFile(ctx, file)
	if err != nil {
		return err
	}
	defer closer.Close()

	fmt.Fprintln(out, "schema:", pf.Schema())
	meta := pf.Metadata()
	fmt.Fprintln(out, "Num Rows:", meta.NumRows)
	fmt.Fprintln(out, "Created By:", meta.CreatedBy)
	for _, kv := range meta.KeyValueMetadata {
		fmt.Fprintf(out, "Key %q: %s\n", kv.Key, humanize.Bytes(uint64(len(kv.Value))))
	}

	for i, rg := range meta.RowGroups {
		fmt.Fprintln(out, "\t Row group:", i)
		fmt.Fprintln(out, "\t\t Row Count:", rg.NumRows)
		fmt.Fprintln(out, "\t\t Row size:", humanize.Bytes(uint64(rg.TotalByteSize)))
		fmt.Fprintln(out, "\t\t Columns:")
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Col", "Type", "NumVal", "Encoding", "Codec", "TotalCompressedSize", "TotalUncompressedSize", "Compression", "%"})
		for _, ds := range rg.Columns {
			table.Append(
				[]string{
					strings.Join(ds.MetaData.PathInSchema, "/"),
					ds.MetaData.Type.String(),
					fmt.Sprintf("%d", ds.MetaData.NumValues),
					fmt.Sprintf("%s", ds.MetaData.Encoding),
					ds.MetaData.Codec.String(),
					humanize.Bytes(uint64(ds.MetaData.TotalCompressedSize)),
					humanize.Bytes(uint64(ds.MetaData.TotalUncompressedSize)),
					fmt.Sprintf("%.2f", float64(ds.MetaData.TotalUncompressedSize-ds.MetaData.TotalCompressedSize)/float64(ds.MetaData.TotalCompressedSize)*100),
					fmt.Sprintf("%.2f", float64(ds.MetaData.TotalCompressedSize)/float64(rg.TotalByteSize)*100),
				})
		}
		table.Render()
	}

	return nil
}
