// Package main provides the sqlnorm command-line interface.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlnorm/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
