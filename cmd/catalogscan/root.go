package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for catalogscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogscan",
		Short: "Summarize and chart streaming catalog datasets",
		Long: `catalogscan reads a delimited catalog export (CSV, TSV, optionally gzip or
zstd compressed) and reports the distribution of content types, the top
genres and countries and the range of release years. Charts are written as
PNG images and every run is kept in a local history for later comparison.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
