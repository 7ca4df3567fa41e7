package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/parquet-go/parquet-go"
	"github.com/thanos-io/objstore/providers/filesystem"

	"github.com/polarsignals/pqwriter/storage"
)

var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4"))

var EvenRowStyle = lipgloss.NewStyle().
	Bold(false).
	Foreground(lipgloss.Color("#FAFAFA"))

var OddRowStyle = lipgloss.NewStyle().
	Bold(false).
	Foreground(lipgloss.Color("#a6a4a4"))

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == 0:
				return HeaderStyle
			case row%2 == 0:
				return EvenRowStyle
			default:
				return OddRowStyle
			}
		}).
		Headers(headers...)
}

// readerAtCloser is an opened parquet file, either local or inside the object store
// rooted at --bucket-dir. Closing a bucket file closes the bucket.
type readerAtCloser interface {
	io.ReaderAt
	io.Closer
}

func openFile(ctx context.Context, name string) (*io.SectionReader, io.Closer, error) {
	var (
		f    readerAtCloser
		size int64
	)
	if bucketDir != "" {
		bkt, err := filesystem.NewBucket(bucketDir)
		if err != nil {
			return nil, nil, err
		}
		r, n, err := storage.OpenObject(ctx, bkt, name)
		if err != nil {
			bkt.Close()
			return nil, nil, err
		}
		f, size = r, n
	} else {
		osf, err := os.Open(name)
		if err != nil {
			return nil, nil, err
		}
		stats, err := osf.Stat()
		if err != nil {
			osf.Close()
			return nil, nil, err
		}
		f, size = osf, stats.Size()
	}
	return io.NewSectionReader(f, 0, size), f, nil
}

func openParquetFile(ctx context.Context, name string) (*parquet.File, io.Closer, error) {
	r, closer, err := openFile(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	pf, err := parquet.OpenFile(r, r.Size())
	if err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}
	return pf, closer, nil
}

func joinPath(path []string) string { return strings.Join(path, ".") }
