package logictest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cockroachdb/datadriven"
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/polarsignals/pqwriter"
	"github.com/polarsignals/pqwriter/layout"
	"github.com/polarsignals/pqwriter/pqarrow/arrowutils"
	"github.com/polarsignals/pqwriter/value"
)

const (
	// layout compiles the layout given as input and starts a new writer for
	// it. Any previous writer is discarded. The output lists the paths that
	// must be filled per row, with their fill kinds.
	// Example usage: layout [row_group_size=<n>]
	layoutCmd = "layout"
	// fill fills the path given by the path argument with the JSON value
	// given as input.
	// Example usage: fill path=s.inner
	fillCmd = "fill"
	// fields prints every expected path of the active layout with its fill
	// kind and column type.
	// Example usage: fields
	fieldsCmd = "fields"
	// end_row closes the current row.
	endRowCmd = "end_row"
	// finish finishes the writer and prints every row of the written file,
	// one row per line, followed by the number of row groups.
	finishCmd = "finish"
)

type Runner struct {
	dir    string
	mem    memory.Allocator
	seq    int
	schema *layout.Schema
	writer *pqwriter.Writer
}

func NewRunner(dir string, mem memory.Allocator) *Runner {
	return &Runner{dir: dir, mem: mem}
}

// RunCmd parses and runs datadriven command with the associated arguments, and
// returns the result.
func (r *Runner) RunCmd(ctx context.Context, c *datadriven.TestData) string {
	result, err := r.handleCmd(ctx, c)
	if err != nil {
		return err.Error()
	}
	return result
}

func (r *Runner) handleCmd(ctx context.Context, c *datadriven.TestData) (string, error) {
	switch c.Cmd {
	case layoutCmd:
		return r.handleLayout(c)
	case fillCmd:
		return r.handleFill(c)
	case fieldsCmd:
		return r.handleFields()
	case endRowCmd:
		if r.writer == nil {
			return "", fmt.Errorf("end_row: no active writer")
		}
		return "", r.writer.EndRow()
	case finishCmd:
		return r.handleFinish(ctx)
	}
	return "", fmt.Errorf("unknown command %s", c.Cmd)
}

// Close discards the active writer, if any.
func (r *Runner) Close() {
	if r.writer != nil {
		r.writer.Abort()
		r.writer = nil
	}
}

func (r *Runner) handleLayout(c *datadriven.TestData) (string, error) {
	r.Close()

	opts := []pqwriter.Option{}
	for _, arg := range c.CmdArgs {
		switch arg.Key {
		case "row_group_size":
			if len(arg.Vals) != 1 {
				return "", fmt.Errorf("layout: unexpected row_group_size values %v", arg.Vals)
			}
			n, err := strconv.Atoi(arg.Vals[0])
			if err != nil {
				return "", fmt.Errorf("layout: %w", err)
			}
			opts = append(opts, pqwriter.WithRowGroupSize(n))
		default:
			return "", fmt.Errorf("layout: unknown argument %s", arg.Key)
		}
	}

	schema, err := layout.Parse([]byte(c.Input))
	if err != nil {
		return "", err
	}

	r.seq++
	opts = append(opts,
		pqwriter.WithDatasetName(fmt.Sprintf("logic%d", r.seq)),
		pqwriter.WithOutputDirectory(r.dir),
		pqwriter.WithAllocator(r.mem),
	)
	w, err := pqwriter.New(log.NewNopLogger(), prometheus.NewRegistry(), schema, opts...)
	if err != nil {
		return "", err
	}
	r.schema = schema
	r.writer = w

	var b strings.Builder
	for _, path := range schema.Expected() {
		kind, _ := schema.FillKind(path)
		fmt.Fprintf(&b, "%s %s\n", path, kind)
	}
	return b.String(), nil
}

func (r *Runner) handleFields() (string, error) {
	if r.writer == nil {
		return "", fmt.Errorf("fields: no active writer")
	}
	var b strings.Builder
	for _, path := range r.writer.ExpectedFields() {
		p, _ := r.schema.Lookup(path)
		fmt.Fprintf(&b, "%s %s %s\n", path, p.Kind, p.Type)
	}
	return b.String(), nil
}

func (r *Runner) handleFill(c *datadriven.TestData) (string, error) {
	if r.writer == nil {
		return "", fmt.Errorf("fill: no active writer")
	}
	var path string
	for _, arg := range c.CmdArgs {
		if arg.Key == "path" {
			if len(arg.Vals) != 1 {
				return "", fmt.Errorf("fill: unexpected path values %v", arg.Vals)
			}
			path = arg.Vals[0]
		}
	}
	if path == "" {
		return "", fmt.Errorf("fill: path not specified")
	}

	doc, err := layout.Decode([]byte(c.Input))
	if err != nil {
		return "", err
	}
	v, err := r.fillValue(path, doc)
	if err != nil {
		return "", err
	}
	return "", r.writer.Fill(path, v)
}

// fillValue converts the JSON input for path. Paths missing from the layout
// are passed on as raw scalars so the writer reports them.
func (r *Runner) fillValue(path string, doc any) (value.Value, error) {
	p, ok := r.schema.Lookup(path)
	if !ok {
		return value.Of(0.0), nil
	}
	return layout.ValueFromJSON(path, p.Type, doc)
}

func (r *Runner) handleFinish(ctx context.Context) (string, error) {
	if r.writer == nil {
		return "", fmt.Errorf("finish: no active writer")
	}
	w := r.writer
	r.writer = nil
	if err := w.Finish(ctx); err != nil {
		w.Abort()
		return "", err
	}

	f, err := os.Open(filepath.Join(r.dir, w.Stats().File))
	if err != nil {
		return "", err
	}
	defer f.Close()
	tbl, err := arrowutils.ReadFile(ctx, f, r.mem)
	if err != nil {
		return "", fmt.Errorf("finish: read back: %w", err)
	}
	defer tbl.Release()

	var b strings.Builder
	if err := arrowutils.ForEachRow(tbl, func(rec arrow.Record, i int) error {
		for j, col := range rec.Columns() {
			if j > 0 {
				b.WriteString(" ")
			}
			b.WriteString(rec.ColumnName(j))
			b.WriteString("=")
			b.WriteString(arrowutils.FormatValue(col, i))
		}
		b.WriteString("\n")
		return nil
	}); err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "rows=%d row_groups=%d\n", tbl.NumRows(), w.Stats().RowGroups)
	return b.String(), nil
}
