// Package main provides the entry point for the ipvsim CLI.
package main

import (
	"os"

	"github.com/djdv/go-lruipv/internal/cli"
)

// Build information set via ldflags
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if err := cli.NewRootCmd(version, commit, buildDate).Execute(); err != nil {
		os.Exit(1)
	}
}
