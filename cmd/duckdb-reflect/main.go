// duckdb-reflect inspects DuckDB catalogs: schemas, tables, columns, and
// constraints, over the CLI or an HTTP API.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
