package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmalherbe/deepdiff/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = date

	rootCmd := &cobra.Command{
		Use:   "deepdiff LEFT RIGHT",
		Short: "Layered filesystem comparison utility",
		Long: `deepdiff compares two directory trees or files through layered stages:
structure (which paths exist where), content (fingerprint comparison)
and text (line-level diffs). Targets may also be git refs written as
git:REF, compared from an extracted snapshot of the ref's tree.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.ExactArgs(2),
		RunE:          cli.RunCompare,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)
	cli.AddCompareFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
