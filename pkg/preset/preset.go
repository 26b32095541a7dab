// Package preset provides output sizing and typography presets for the
// render sinks.
//
// A Preset controls only how large the artifact is drawn, never what the
// layout contains. Presets can be loaded from TOML files, with unset keys
// keeping their default values:
//
//	width = 3840
//	row_height = 100
//	title_font_size = 65
package preset

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pianoroll/pkg/errors"
)

// Preset holds artifact sizing and typography settings.
type Preset struct {
	// Width is the artifact width in pixels.
	Width int `toml:"width"`

	// Height is the artifact height in pixels, used when RowHeight is zero.
	Height int `toml:"height"`

	// RowHeight, when positive, sizes the artifact as one row of this many
	// pixels per visible pitch instead of the fixed Height.
	RowHeight int `toml:"row_height"`

	// Font sizes in pixels.
	TitleFontSize     float64 `toml:"title_font_size"`
	AxisLabelFontSize float64 `toml:"axis_label_font_size"`
	LabelFontSize     float64 `toml:"label_font_size"`

	// StopReloadButton adds a stop button to live-reloading HTML pages.
	StopReloadButton bool `toml:"stop_reload_button"`
}

// Default returns the standard 1200x400 preset.
func Default() Preset {
	return Preset{
		Width:             1200,
		Height:            400,
		TitleFontSize:     14,
		AxisLabelFontSize: 12,
		LabelFontSize:     10,
		StopReloadButton:  true,
	}
}

// FourK returns a preset sized for 4K video frames: full 3840 width with
// 100px pitch rows and typography scaled to match.
func FourK() Preset {
	return Preset{
		Width:             3840,
		RowHeight:         100,
		TitleFontSize:     65,
		AxisLabelFontSize: 55,
		LabelFontSize:     40,
		StopReloadButton:  false,
	}
}

// Named resolves a preset by name. Valid names are "default" and "4k".
func Named(name string) (Preset, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "4k":
		return FourK(), nil
	}
	return Preset{}, errors.New(errors.ErrCodeInvalidConfig, "unknown preset %q (must be default or 4k)", name)
}

// Load reads a TOML preset file on top of the defaults, so partial files
// only override the keys they mention.
func Load(path string) (Preset, error) {
	p := Default()
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Preset{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "preset file %s", path)
	}
	return p, nil
}

// PlotHeight returns the artifact height for the given number of visible
// pitch rows.
func (p Preset) PlotHeight(rows int) int {
	if p.RowHeight > 0 && rows > 0 {
		return rows * p.RowHeight
	}
	return p.Height
}
