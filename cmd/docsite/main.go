// Package main provides the docsite CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/docsite/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
