package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"
)

func generateFile(t *testing.T, layoutName string, flags generateFlags) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, generate(context.Background(), &out, log.NewNopLogger(), layoutName, flags))
	require.Contains(t, out.String(), "wrote ")
	return filepath.Join(flags.outDir, flags.dataset+"_0000.parquet")
}

func TestGenerateAndInspect(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	md := filepath.Join(dir, "meta.json")
	require.NoError(t, os.WriteFile(md, []byte(`{"metadata": {"foo": "bar"}}`), 0o644))

	file := generateFile(t, "structs", generateFlags{
		dataset:      "gen",
		outDir:       dir,
		compression:  "SNAPPY",
		pageSize:     "1MiB",
		metadata:     md,
		rows:         25,
		rowGroupSize: 10,
		seed:         3,
		skipRate:     0.2,
	})

	var out bytes.Buffer
	require.NoError(t, dump(ctx, &out, file))
	require.Contains(t, out.String(), "Num Rows: 25")
	require.Contains(t, out.String(), "Row group: 2")
	require.Contains(t, out.String(), "SNAPPY")

	out.Reset()
	require.NoError(t, meta(ctx, &out, file))
	require.JSONEq(t, `{"metadata": {"foo": "bar"}}`, out.String())

	out.Reset()
	require.NoError(t, runStats(ctx, &out, file))
	require.Contains(t, out.String(), "basic_struct.int_field")

	out.Reset()
	require.NoError(t, rows(ctx, &out, file, 0, 3))
	require.Contains(t, out.String(), "struct_with_struct_list")

	out.Reset()
	require.NoError(t, rowgroup(ctx, &out, file, 0))
	require.Contains(t, out.String(), "basic_struct.int_field")
	require.Error(t, rowgroup(ctx, &out, file, 5))
}

func TestShowLayout(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, showLayout(&out, "structs"))
	require.Contains(t, out.String(), "struct_with_struct.struct_field")
	require.Contains(t, out.String(), "STRUCT_LIST_2D")

	require.Error(t, showLayout(&out, filepath.Join(t.TempDir(), "missing.json")))
}

func TestGenerateErrors(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()
	base := generateFlags{dataset: "gen", outDir: dir, compression: "UNCOMPRESSED", pageSize: "1MiB", rows: 1}

	f := base
	f.compression = "LZ4"
	require.Error(t, generate(context.Background(), &out, log.NewNopLogger(), "scalars", f))

	f = base
	f.pageSize = "lots"
	require.Error(t, generate(context.Background(), &out, log.NewNopLogger(), "scalars", f))
}

func TestGenerateToBucket(t *testing.T) {
	ctx := context.Background()
	bucketDir = t.TempDir()
	defer func() { bucketDir = "" }()

	var out bytes.Buffer
	require.NoError(t, generate(ctx, &out, log.NewNopLogger(), "scalars", generateFlags{
		dataset:     "bkt",
		compression: "GZIP",
		pageSize:    "512KiB",
		rows:        5,
	}))
	_, err := os.Stat(filepath.Join(bucketDir, "bkt_0000.parquet"))
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, dump(ctx, &out, "bkt_0000.parquet"))
	require.Contains(t, out.String(), "Num Rows: 5")
}
