package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var bucketDir string

var rootCmd = &cobra.Command{
	Use:   "parquet-tool",
	Short: "Write and explore parquet files",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&bucketDir, "bucket-dir", "", "read and write files in a filesystem object store rooted at this directory")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(rowsCmd)
	rootCmd.AddCommand(rowgroupCmd)
}
