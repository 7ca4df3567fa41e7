package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/polarsignals/pqwriter"
)

var metaCmd = &cobra.Command{
	Use:     "meta",
	Example: "parquet-tool meta <file.parquet>",
	Short:   "Print the metadata document stored in a file",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return meta(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func meta(ctx context.Context, out io.Writer, name string) error {
	r, closer, err := openFile(ctx, name)
	if err != nil {
		return err
	}
	defer closer.Close()

	pr, err := file.NewParquetReader(r)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer pr.Close()

	v := pr.MetaData().KeyValueMetadata().FindValue(pqwriter.MetadataKey)
	if v == nil {
		return fmt.Errorf("%s has no %q key", name, pqwriter.MetadataKey)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(*v), "", "  "); err != nil {
		return fmt.Errorf("invalid metadata: %w", err)
	}
	fmt.Fprintln(out, buf.String())
	return nil
}
