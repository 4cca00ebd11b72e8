package main

import (
	"os"

	"arbor.dev/arbor/internal/cli"
	"arbor.dev/arbor/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		output.NewSplog().Error(err)
		os.Exit(1)
	}
}
