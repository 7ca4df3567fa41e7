package main

import "github.com/polarsignals/pqwriter/cmd/parquet-tool/cmd"

func main() {
	cmd.Execute()
}
