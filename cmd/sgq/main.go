// Package main is the entry point for the sgq CLI tool.
package main

import (
	"os"

	"github.com/subhero24/sql-graph-query/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
