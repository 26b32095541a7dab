package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoroll/pkg/buildinfo"
)

// Execute runs the pianoroll CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (plot, serve),
// configures logging based on the --verbose flag, and executes the command
// tree. The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "pianoroll",
		Short:        "pianoroll renders MIDI files as piano-roll plots",
		Long:         `pianoroll is a CLI tool for visualizing MIDI files as piano rolls: one row per pitch, a bar/beat grid, and a colored rectangle per note, rendered to SVG, HTML or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPlotCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
