// Package cli implements the fluvsynth command-line interface: generating
// analog realizations, computing their metric records, sweeping parameter
// grids, and inspecting stored runs.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion records build metadata injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the fluvsynth CLI.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "fluvsynth",
		Short:        "fluvsynth generates fluvial analog rasters and their statistics",
		Long:         "fluvsynth synthesizes seeded 2-D fluvial sedimentary analogs (meandering, braided, anastomosing), composites stacked packages with erosional truncation, and characterizes the results with variogram, spectral, and topology metrics.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("fluvsynth %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newMetricsCmd())
	root.AddCommand(newSweepCmd())
	root.AddCommand(newParamsCmd())
	root.AddCommand(newRunsCmd())

	return root.ExecuteContext(context.Background())
}
