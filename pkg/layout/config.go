// Package layout implements the piano-roll layout engine.
//
// The engine turns a decoded score plus a Config into geometric primitives
// (note rectangles, pitch bands, bar bands, beat lines and window bounds)
// that render sinks draw without any further musical arithmetic. All
// computation here is pure: a Plotter holds an immutable Config and Plot is
// a function of (score, config) only.
package layout

import (
	"github.com/matzehuels/pianoroll/pkg/errors"
)

// MIDI pitch sentinels.
const (
	MinPitch = 0
	MaxPitch = 127
)

// DefaultMaxLengthBars is the default visible window length in bars.
// Longer scores are left-truncated so the trailing bars stay visible.
const DefaultMaxLengthBars = 8

// DefaultBarFillAlphas is the default alternating fill cycle for bar bands.
func DefaultBarFillAlphas() []float64 { return []float64{0.25, 0.05} }

// Coloring selects the note-coloring strategy.
type Coloring int

const (
	// ColoringPitch colors notes by pitch class.
	ColoringPitch Coloring = iota
	// ColoringInstrument colors notes by instrument index.
	ColoringInstrument
)

// String returns the flag-friendly name of the strategy.
func (c Coloring) String() string {
	switch c {
	case ColoringPitch:
		return "pitch"
	case ColoringInstrument:
		return "instrument"
	}
	return "unknown"
}

// ParseColoring converts a flag value into a Coloring.
func ParseColoring(name string) (Coloring, error) {
	switch name {
	case "pitch", "PITCH":
		return ColoringPitch, nil
	case "instrument", "INSTRUMENT":
		return ColoringInstrument, nil
	}
	return 0, errors.New(errors.ErrCodeUnknownColoring, "unknown coloring %q (must be pitch or instrument)", name)
}

// Config controls a single layout computation. It is supplied once at
// Plotter construction and never re-validated per call.
//
// Pointer fields are optional overrides: nil means "derive from the score".
// Zero is a meaningful value for several of them (pitch 0, bar 0, second 0),
// which is why sentinels are not used.
type Config struct {
	// QPM overrides the tempo resolved from the score when positive.
	// It is taken as-is, without validation against the score's marks.
	QPM float64

	// PitchRangeStart/Stop override the visible pitch band.
	PitchRangeStart *int
	PitchRangeStop  *int

	// BarRangeStart/Stop override the visible window, in bar units.
	BarRangeStart *int
	BarRangeStop  *int

	// TimeRangeStart/Stop override the visible window in explicit seconds
	// and take precedence over the bar-unit overrides.
	TimeRangeStart *float64
	TimeRangeStop  *float64

	// MaxLengthBars caps the visible window length, in bars.
	// Defaults to DefaultMaxLengthBars when zero.
	MaxLengthBars int

	// MaxLengthSeconds, when positive, caps the window in seconds instead
	// of bars.
	MaxLengthSeconds float64

	// TimeScale multiplies note times before layout. Defaults to 1.
	TimeScale float64

	// Coloring selects the note color strategy.
	Coloring Coloring

	// ShowVelocity maps note velocity onto rectangle height.
	ShowVelocity bool

	// TimeSignature overrides the score's time signature, as "N/D".
	TimeSignature string

	// BarFillAlphas is the cyclic fill-alpha sequence for bar bands.
	// Defaults to DefaultBarFillAlphas when empty.
	BarFillAlphas []float64

	// ShowBarGrid and ShowBeatGrid toggle bar band and beat line output.
	ShowBarGrid  bool
	ShowBeatGrid bool
}

// DefaultConfig returns the configuration used when no flags are given:
// pitch coloring, an 8-bar window and both grids visible.
func DefaultConfig() Config {
	return Config{
		MaxLengthBars: DefaultMaxLengthBars,
		TimeScale:     1,
		Coloring:      ColoringPitch,
		BarFillAlphas: DefaultBarFillAlphas(),
		ShowBarGrid:   true,
		ShowBeatGrid:  true,
	}
}

// normalized returns a copy with numeric zero values replaced by defaults.
// Boolean fields are kept as given; callers start from DefaultConfig.
func (c Config) normalized() Config {
	if c.MaxLengthBars <= 0 {
		c.MaxLengthBars = DefaultMaxLengthBars
	}
	if c.TimeScale <= 0 {
		c.TimeScale = 1
	}
	if len(c.BarFillAlphas) == 0 {
		c.BarFillAlphas = DefaultBarFillAlphas()
	}
	return c
}

// Validate rejects configurations that cannot produce a sensible layout.
func (c Config) Validate() error {
	for _, a := range c.BarFillAlphas {
		if a < 0 || a > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "bar fill alpha %g outside [0, 1]", a)
		}
	}
	if c.MaxLengthBars < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max length bars must not be negative, got %d", c.MaxLengthBars)
	}
	if c.MaxLengthSeconds < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max length seconds must not be negative, got %g", c.MaxLengthSeconds)
	}
	if c.TimeScale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "time scale must not be negative, got %g", c.TimeScale)
	}
	if c.TimeSignature != "" {
		if _, err := ParseTimeSignature(c.TimeSignature); err != nil {
			return err
		}
	}
	return nil
}
