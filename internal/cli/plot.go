package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoroll/pkg/errors"
	"github.com/matzehuels/pianoroll/pkg/pipeline"
	"github.com/matzehuels/pianoroll/pkg/score"
)

// plotOpts holds the command-line flags for the plot command.
type plotOpts struct {
	configFlags
	output     string  // explicit output path (single input only)
	format     string  // artifact format: svg, html, png
	liveReload bool    // inject the live-reload script into HTML output
	show       bool    // open the first artifact in the system viewer
	pngScale   float64 // PNG supersampling factor
}

// newPlotCmd creates the plot command for batch-rendering MIDI files.
//
// Each input file produces one artifact next to it (input extension replaced
// by the format) unless --output names an explicit path. Files that fail to
// parse or lay out are reported and skipped; the remaining files still
// render.
func newPlotCmd() *cobra.Command {
	opts := plotOpts{
		format:   pipeline.FormatHTML,
		pngScale: pipeline.DefaultPNGScale,
	}

	cmd := &cobra.Command{
		Use:   "plot [file...]",
		Short: "Render MIDI files as piano-roll plots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			if opts.output != "" && len(args) > 1 {
				return fmt.Errorf("--output requires a single input file, got %d", len(args))
			}
			return runPlot(cmd, args, &opts)
		},
	}

	opts.configFlags.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input only)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: html (default), svg, png")
	cmd.Flags().BoolVar(&opts.liveReload, "live-reload", false, "make HTML artifacts refresh themselves periodically")
	cmd.Flags().BoolVar(&opts.show, "show", false, "open the first artifact in the system viewer")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "PNG supersampling factor")

	return cmd
}

func runPlot(cmd *cobra.Command, files []string, opts *plotOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := opts.config(cmd)
	if err != nil {
		return err
	}
	sizing, err := opts.sizing()
	if err != nil {
		return err
	}
	runner, err := pipeline.NewRunner(pipeline.Options{
		Config:     cfg,
		Preset:     sizing,
		LiveReload: opts.liveReload,
		PNGScale:   opts.pngScale,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	if opts.liveReload && opts.format != pipeline.FormatHTML {
		printWarning("--live-reload only applies to %s output", pipeline.FormatHTML)
	}

	var spinner *Spinner
	if len(files) > 1 {
		spinner = newSpinner(ctx, fmt.Sprintf("rendering %d files", len(files)))
		spinner.Start()
		defer spinner.Stop()
	}

	failed := 0
	for _, file := range files {
		if err := plotFile(ctx, runner, file, opts); err != nil {
			// Input-correctness failure: report it and keep going with
			// the remaining files.
			failed++
			if spinner != nil {
				spinner.Stop()
				spinner = nil
			}
			printError("%s: %s", file, errors.UserMessage(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func plotFile(ctx context.Context, runner *pipeline.Runner, file string, opts *plotOpts) error {
	logger := loggerFromContext(ctx)
	track := newProgress(logger)

	sc, err := score.ReadFile(file)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = pipeline.ArtifactPath(file, opts.format)
	}

	if opts.show {
		_, err = runner.Show(sc, out)
	} else {
		_, err = runner.Save(sc, out)
	}
	if err != nil {
		return err
	}

	track.done(fmt.Sprintf("Plotted %s to %s", file, out))
	printSuccess("%s %s %s", file, StyleDim.Render("→"), StyleHighlight.Render(out))
	return nil
}
