// Package main provides the einlint command.
package main

import (
	"os"

	"github.com/leapstack-labs/einlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
