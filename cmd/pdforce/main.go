// Package main provides the entry point for the pdforce CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ferroclast/pdforce/cmd/pdforce/commands"
	"github.com/ferroclast/pdforce/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "pdforce",
		Short: "pdforce - password recovery for encrypted PDF documents",
		Long: `pdforce searches for the password protecting an encrypted PDF using
curated guesses, brute force, and dictionary candidates, in parallel,
with resumable progress.

Commands:
  crack     Search for the password of an encrypted PDF`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewCrackCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		if err.Error() != "" {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		os.Exit(commands.ExitCode(err))
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "pdforce %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
