package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:     "layout",
	Example: "parquet-tool layout <layout.json|scalars|structs>",
	Short:   "Print the fill paths of a layout and the parquet schema it compiles to",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showLayout(cmd.OutOrStdout(), args[0])
	},
}

func showLayout(out io.Writer, name string) error {
	schema, err := loadLayout(name)
	if err != nil {
		return err
	}

	t := newTable("Path", "Fill", "Type")
	for _, path := range schema.Expected() {
		p, _ := schema.Lookup(path)
		t.Row(path, p.Kind.String(), p.Type.String())
	}
	fmt.Fprintln(out, t)
	fmt.Fprintln(out, schema.ParquetSchema("schema"))
	return nil
}
