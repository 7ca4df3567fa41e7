package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/thanos-io/objstore/providers/filesystem"

	"github.com/polarsignals/pqwriter"
	"github.com/polarsignals/pqwriter/layout"
	"github.com/polarsignals/pqwriter/samples"
)

type generateFlags struct {
	dataset      string
	outDir       string
	compression  string
	pageSize     string
	metadata     string
	rows         int
	rowGroupSize int
	seed         int64
	skipRate     float64
	debug        bool
}

var genFlags generateFlags

var generateCmd = &cobra.Command{
	Use:     "generate",
	Example: "parquet-tool generate <layout.json|scalars|structs> --rows 1000 --compression SNAPPY",
	Short:   "Write random rows for a layout",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
		if genFlags.debug {
			logger = level.NewFilter(logger, level.AllowDebug())
		} else {
			logger = level.NewFilter(logger, level.AllowInfo())
		}
		return generate(cmd.Context(), cmd.OutOrStdout(), logger, args[0], genFlags)
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genFlags.dataset, "dataset", "generated", "dataset name, files are named <dataset>_0000.parquet")
	f.StringVar(&genFlags.outDir, "out", "./", "output directory")
	f.StringVar(&genFlags.compression, "compression", "UNCOMPRESSED", "UNCOMPRESSED, GZIP or SNAPPY")
	f.StringVar(&genFlags.pageSize, "page-size", "512MiB", "data page size")
	f.StringVar(&genFlags.metadata, "metadata", "", "JSON file with a top level \"metadata\" node")
	f.IntVar(&genFlags.rows, "rows", 100, "number of rows to write")
	f.IntVar(&genFlags.rowGroupSize, "row-group-size", 0, "rows per row group, derived from the layout when 0")
	f.Int64Var(&genFlags.seed, "seed", 0, "random seed")
	f.Float64Var(&genFlags.skipRate, "skip-rate", 0, "probability of leaving a field unfilled")
	f.BoolVar(&genFlags.debug, "debug", false, "log at debug level")
}

// loadLayout resolves the name of a canned layout or reads a layout file.
func loadLayout(name string) (*layout.Schema, error) {
	switch name {
	case "scalars":
		return layout.Parse([]byte(samples.Scalars))
	case "structs":
		return layout.Parse([]byte(samples.Structs))
	default:
		return layout.ParseFile(name)
	}
}

func generate(ctx context.Context, out io.Writer, logger log.Logger, layoutName string, flags generateFlags) error {
	schema, err := loadLayout(layoutName)
	if err != nil {
		return err
	}
	compression, err := pqwriter.ParseCompression(flags.compression)
	if err != nil {
		return err
	}
	pageSize, err := humanize.ParseBytes(flags.pageSize)
	if err != nil {
		return fmt.Errorf("invalid page size: %w", err)
	}

	opts := []pqwriter.Option{
		pqwriter.WithDatasetName(flags.dataset),
		pqwriter.WithCompression(compression),
		pqwriter.WithPageSize(int64(pageSize)),
	}
	if flags.rowGroupSize > 0 {
		opts = append(opts, pqwriter.WithRowGroupSize(flags.rowGroupSize))
	}
	if flags.metadata != "" {
		md, err := os.ReadFile(flags.metadata)
		if err != nil {
			return err
		}
		opts = append(opts, pqwriter.WithMetadataJSON(md))
	}
	if bucketDir != "" {
		bkt, err := filesystem.NewBucket(bucketDir)
		if err != nil {
			return err
		}
		defer bkt.Close()
		opts = append(opts, pqwriter.WithBucket(bkt))
	} else {
		opts = append(opts, pqwriter.WithOutputDirectory(flags.outDir))
	}

	w, err := pqwriter.New(logger, prometheus.NewRegistry(), schema, opts...)
	if err != nil {
		return err
	}

	g := samples.NewGenerator(flags.seed)
	g.SkipRate = flags.skipRate
	for i := 0; i < flags.rows; i++ {
		if err := g.Row(w, schema); err != nil {
			w.Abort()
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	if err := w.Finish(ctx); err != nil {
		w.Abort()
		return err
	}

	stats := w.Stats()
	fmt.Fprintf(out, "wrote %d rows in %d row groups to %s\n", stats.Rows, stats.RowGroups, stats.File)
	return nil
}
