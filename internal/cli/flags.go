package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoroll/pkg/layout"
	"github.com/matzehuels/pianoroll/pkg/preset"
)

// configFlags binds the layout configuration surface to a command's flag
// set, shared between plot and serve so both expose identical knobs.
//
// Optional overrides (pitch range, bar range, time range) are detected via
// cobra's Changed tracking rather than sentinel values, since zero is a
// valid pitch, bar and second.
type configFlags struct {
	qpm              float64
	pitchRangeStart  int
	pitchRangeStop   int
	barRangeStart    int
	barRangeStop     int
	timeRangeStart   float64
	timeRangeStop    float64
	maxLengthBars    int
	maxLengthSeconds float64
	timeScale        float64
	coloring         string
	showVelocity     bool
	timeSignature    string
	barFillAlphas    []float64
	noBarGrid        bool
	noBeatGrid       bool
	presetName       string
	presetFile       string
}

func (f *configFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64Var(&f.qpm, "qpm", 0, "tempo override in quarter notes per minute")
	flags.IntVar(&f.pitchRangeStart, "pitch-range-start", 0, "lowest visible pitch")
	flags.IntVar(&f.pitchRangeStop, "pitch-range-stop", 0, "highest visible pitch")
	flags.IntVar(&f.barRangeStart, "bar-range-start", 0, "window start, in bars")
	flags.IntVar(&f.barRangeStop, "bar-range-stop", 0, "window end, in bars")
	flags.Float64Var(&f.timeRangeStart, "time-range-start", 0, "window start, in seconds (overrides bar units)")
	flags.Float64Var(&f.timeRangeStop, "time-range-stop", 0, "window end, in seconds (overrides bar units)")
	flags.IntVar(&f.maxLengthBars, "max-length-bars", layout.DefaultMaxLengthBars, "maximum visible window length, in bars")
	flags.Float64Var(&f.maxLengthSeconds, "max-length-seconds", 0, "maximum visible window length, in seconds (overrides bars)")
	flags.Float64Var(&f.timeScale, "time-scale", 1, "time scaling factor applied to note times")
	flags.StringVar(&f.coloring, "coloring", "pitch", "note coloring strategy: pitch, instrument")
	flags.BoolVar(&f.showVelocity, "show-velocity", false, "map note velocity onto rectangle height")
	flags.StringVar(&f.timeSignature, "time-signature", "", `time signature override, as "N/D"`)
	flags.Float64SliceVar(&f.barFillAlphas, "bar-fill-alphas", layout.DefaultBarFillAlphas(), "cyclic fill alphas for bar bands")
	flags.BoolVar(&f.noBarGrid, "no-bar-grid", false, "hide the bar grid")
	flags.BoolVar(&f.noBeatGrid, "no-beat-grid", false, "hide the beat grid")
	flags.StringVar(&f.presetName, "preset", "default", "sizing preset: default, 4k")
	flags.StringVar(&f.presetFile, "preset-file", "", "TOML preset file (overrides --preset)")
}

// config assembles the layout configuration from the bound flags.
func (f *configFlags) config(cmd *cobra.Command) (layout.Config, error) {
	cfg := layout.DefaultConfig()
	cfg.QPM = f.qpm
	cfg.MaxLengthBars = f.maxLengthBars
	cfg.MaxLengthSeconds = f.maxLengthSeconds
	cfg.TimeScale = f.timeScale
	cfg.ShowVelocity = f.showVelocity
	cfg.TimeSignature = f.timeSignature
	cfg.BarFillAlphas = f.barFillAlphas
	cfg.ShowBarGrid = !f.noBarGrid
	cfg.ShowBeatGrid = !f.noBeatGrid

	coloring, err := layout.ParseColoring(f.coloring)
	if err != nil {
		return layout.Config{}, err
	}
	cfg.Coloring = coloring

	changed := cmd.Flags().Changed
	if changed("pitch-range-start") {
		cfg.PitchRangeStart = &f.pitchRangeStart
	}
	if changed("pitch-range-stop") {
		cfg.PitchRangeStop = &f.pitchRangeStop
	}
	if changed("bar-range-start") {
		cfg.BarRangeStart = &f.barRangeStart
	}
	if changed("bar-range-stop") {
		cfg.BarRangeStop = &f.barRangeStop
	}
	if changed("time-range-start") {
		cfg.TimeRangeStart = &f.timeRangeStart
	}
	if changed("time-range-stop") {
		cfg.TimeRangeStop = &f.timeRangeStop
	}
	return cfg, nil
}

// sizing resolves the preset from the bound flags.
func (f *configFlags) sizing() (preset.Preset, error) {
	if f.presetFile != "" {
		return preset.Load(f.presetFile)
	}
	return preset.Named(f.presetName)
}
