// Package main is the entry point for the accordo CLI.
// It coordinates parallel coding agents through a shared board:
// resource claims with leases, findings, messages, tasks, and
// questions.
package main

import (
	"fmt"
	"os"

	"github.com/Iron-Ham/accordo/internal/cmd"
)

// Build information. Populated at build time by GoReleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
