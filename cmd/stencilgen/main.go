package main

import (
	"os"

	"github.com/stencilgen/stencilgen/internal/cli"
)

// Injected via ldflags at release build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
