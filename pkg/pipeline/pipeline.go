// Package pipeline provides the parse → layout → render pipeline for
// pianoroll.
//
// The pipeline consists of three stages:
//
//  1. Parse: decode a Standard MIDI File into the score data model
//  2. Layout: compute the piano-roll geometry for the score
//  3. Render: emit the layout as an SVG, HTML or PNG artifact
//
// The CLI and the preview server both run through a Runner so behavior stays
// identical across entry points.
//
// # Usage
//
//	runner, err := pipeline.NewRunner(pipeline.Options{Config: layout.DefaultConfig()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sc, err := score.ReadFile("song.mid")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := runner.Save(sc, "song.html"); err != nil {
//	    log.Fatal(err)
//	}
package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/pkg/browser"

	"github.com/matzehuels/pianoroll/pkg/errors"
	"github.com/matzehuels/pianoroll/pkg/layout"
	"github.com/matzehuels/pianoroll/pkg/preset"
	"github.com/matzehuels/pianoroll/pkg/render/sink"
	"github.com/matzehuels/pianoroll/pkg/score"
)

// Format constants for output artifacts.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatPNG:  true,
}

// DefaultPNGScale is the default PNG supersampling factor.
const DefaultPNGScale = 2.0

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: svg, html, png)", format)
	}
	return nil
}

// FormatForPath derives the output format from a file extension.
func FormatForPath(path string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := ValidateFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

// ArtifactPath returns the artifact path for an input file: the input
// extension replaced by the format.
func ArtifactPath(input, format string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

// Options configures a Runner.
type Options struct {
	// Config is the layout configuration, captured once per Runner.
	Config layout.Config

	// Preset controls artifact sizing. Zero value means preset.Default().
	Preset preset.Preset

	// LiveReload makes HTML artifacts refresh themselves periodically.
	LiveReload bool

	// PNGScale is the PNG supersampling factor (DefaultPNGScale when zero).
	PNGScale float64

	// Logger receives progress output. Discarded when nil.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Preset.Width == 0 {
		o.Preset = preset.Default()
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Runner executes the pipeline with a fixed configuration.
//
// All layout computation is stateless; the only mutable field is the show
// counter, which tracks Show invocations so the viewer is opened exactly
// once. It never influences layout output.
type Runner struct {
	plotter    *layout.Plotter
	preset     preset.Preset
	liveReload bool
	pngScale   float64
	logger     *log.Logger

	showCount atomic.Uint64
}

// NewRunner validates the configuration and builds a Runner.
func NewRunner(opts Options) (*Runner, error) {
	opts.setDefaults()
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		plotter:    layout.NewPlotter(opts.Config),
		preset:     opts.Preset,
		liveReload: opts.LiveReload,
		pngScale:   opts.PNGScale,
		logger:     opts.Logger,
	}, nil
}

// Plot computes the piano-roll layout for a score.
func (r *Runner) Plot(sc *score.Score) (*layout.Layout, error) {
	l, err := r.plotter.Plot(sc)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("computed layout",
		"notes", len(l.Notes),
		"bars", len(l.BarBands),
		"window", l.Bounds.TimeEnd-l.Bounds.TimeStart)
	return l, nil
}

// Render emits an already-computed layout in the given format.
func (r *Runner) Render(l *layout.Layout, format string) ([]byte, error) {
	opts := []sink.Option{sink.WithPreset(r.preset)}
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, opts...), nil
	case FormatHTML:
		if r.liveReload {
			opts = append(opts, sink.WithLiveReload())
			if r.preset.StopReloadButton {
				opts = append(opts, sink.WithStopReloadButton())
			}
		}
		return sink.RenderHTML(l, opts...), nil
	case FormatPNG:
		return sink.RenderPNG(l, append(opts, sink.WithScale(r.pngScale))...)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: svg, html, png)", format)
}

// Save plots the score and writes the artifact to path, with the format
// derived from the path's extension.
func (r *Runner) Save(sc *score.Score, path string) (*layout.Layout, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	l, err := r.Plot(sc)
	if err != nil {
		return nil, err
	}
	data, err := r.Render(l, format)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	r.logger.Debug("wrote artifact", "path", path, "bytes", len(data))
	return l, nil
}

// Show saves the artifact and opens it in the system viewer on the very
// first call only. Later calls just refresh the file, which is enough when
// live reload is on: the already-open page picks the change up by itself.
func (r *Runner) Show(sc *score.Score, path string) (*layout.Layout, error) {
	l, err := r.Save(sc, path)
	if err != nil {
		return nil, err
	}
	if r.showCount.Add(1) == 1 {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if err := browser.OpenFile(abs); err != nil {
			r.logger.Warn("could not open viewer", "path", abs, "err", err)
		}
	}
	return l, nil
}
