package layout

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/pianoroll/pkg/errors"
)

// palette is the fixed ordered note palette: the eighteen CSS purple-group
// colors. Color ids index into it modulo its length.
var palette = []string{
	"#E6E6FA", // lavender
	"#D8BFD8", // thistle
	"#DDA0DD", // plum
	"#EE82EE", // violet
	"#DA70D6", // orchid
	"#FF00FF", // fuchsia
	"#FF00FF", // magenta
	"#BA55D3", // medium orchid
	"#9370DB", // medium purple
	"#8A2BE2", // blue violet
	"#9400D3", // dark violet
	"#9932CC", // dark orchid
	"#8B008B", // dark magenta
	"#800080", // purple
	"#4B0082", // indigo
	"#483D8B", // dark slate blue
	"#6A5ACD", // slate blue
	"#7B68EE", // medium slate blue
}

// lightenAmount is added to the HSL lightness of every resolved color.
// Purely a rendering hint; color identity lives in the id.
const lightenAmount = 0.1

// PaletteSize returns the number of colors in the note palette.
func PaletteSize() int { return len(palette) }

// ColorIndex maps a note and its instrument index to a palette id under the
// given strategy. The mapping is a pure function: identical inputs always
// produce the same id.
func ColorIndex(strategy Coloring, instrument, pitch int) (int, error) {
	switch strategy {
	case ColoringPitch:
		return floorMod(pitch-36, len(palette)), nil
	case ColoringInstrument:
		return floorMod((instrument+1)*5, len(palette)), nil
	}
	return 0, errors.New(errors.ErrCodeUnknownColoring, "unknown coloring strategy %d", strategy)
}

// ColorHex resolves a palette id to its lightened hex value.
func ColorHex(id int) string {
	c, err := colorful.Hex(palette[floorMod(id, len(palette))])
	if err != nil {
		return palette[0]
	}
	h, s, l := c.Hsl()
	return colorful.Hsl(h, s, math.Min(1, l+lightenAmount)).Hex()
}

// floorMod returns a mod m with the sign of m, so negative pitches below the
// anchor still land inside the palette.
func floorMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
