package layout

import (
	"math"
	"strconv"
)

// timeEps is the boundary tolerance for bar arithmetic. A note end within
// timeEps of a bar boundary counts as lying exactly on it, and the same
// tolerance terminates band iteration. One rule, used by every code path.
const timeEps = 1e-9

// pitchBandFillAlpha shades every even pitch row; odd rows stay transparent.
const pitchBandFillAlpha = 0.15

// Grid holds the bar/beat durations and the visible time window.
type Grid struct {
	SecondsPerBeat float64
	SecondsPerBar  float64
	Start          float64
	End            float64
}

// ComputeGrid converts tempo and time signature into bar/beat durations and
// derives the visible window from the note extremes and the config.
//
// Window end: an explicit override (seconds, then bar units) wins; otherwise
// the smallest bar multiple >= lastNoteEnd, without an extra trailing bar
// when the end already sits on a boundary (within timeEps). Window start: an
// explicit override wins; otherwise the window is capped at the configured
// maximum length (bars, or seconds when MaxLengthSeconds is set) but never
// starts before the bar containing the first note. A score without notes
// shows a single empty bar.
func ComputeGrid(qpm float64, ts TimeSignature, firstNoteStart, lastNoteEnd float64, hasNotes bool, cfg Config) Grid {
	g := Grid{}
	g.SecondsPerBeat = 60.0 / qpm * 4.0 / float64(ts.Denominator)
	g.SecondsPerBar = g.SecondsPerBeat * float64(ts.Numerator)

	switch {
	case cfg.TimeRangeStop != nil:
		g.End = *cfg.TimeRangeStop
	case cfg.BarRangeStop != nil:
		g.End = float64(*cfg.BarRangeStop) * g.SecondsPerBar
	case !hasNotes:
		g.End = g.SecondsPerBar
	default:
		g.End = ceilToBar(lastNoteEnd, g.SecondsPerBar)
	}

	switch {
	case cfg.TimeRangeStart != nil:
		g.Start = *cfg.TimeRangeStart
	case cfg.BarRangeStart != nil:
		g.Start = float64(*cfg.BarRangeStart) * g.SecondsPerBar
	case !hasNotes:
		g.Start = 0
	default:
		maxLen := float64(cfg.MaxLengthBars) * g.SecondsPerBar
		if cfg.MaxLengthSeconds > 0 {
			maxLen = cfg.MaxLengthSeconds
		}
		g.Start = math.Max(g.End-maxLen, floorToBar(firstNoteStart, g.SecondsPerBar))
	}
	return g
}

// ceilToBar returns the smallest multiple of secondsPerBar >= t. Values
// within timeEps of a boundary snap to it instead of opening a new bar.
func ceilToBar(t, secondsPerBar float64) float64 {
	return math.Ceil((t-timeEps)/secondsPerBar) * secondsPerBar
}

// floorToBar returns the largest multiple of secondsPerBar <= t, with the
// same boundary snapping as ceilToBar.
func floorToBar(t, secondsPerBar float64) float64 {
	return math.Floor((t+timeEps)/secondsPerBar) * secondsPerBar
}

// BarBands generates one shaded band per bar inside [Start, End], with fill
// alphas cycling through the given list by absolute bar ordinal, so the
// shading pattern is stable when the window is left-truncated.
func (g Grid) BarBands(alphas []float64) []BarBand {
	if len(alphas) == 0 {
		alphas = DefaultBarFillAlphas()
	}
	var bands []BarBand
	for i := 0; ; i++ {
		t := g.Start + float64(i)*g.SecondsPerBar
		if t >= g.End-timeEps {
			break
		}
		ordinal := int(math.Round(t / g.SecondsPerBar))
		bands = append(bands, BarBand{
			Start:     t,
			End:       math.Min(t+g.SecondsPerBar, g.End),
			FillAlpha: alphas[floorMod(ordinal, len(alphas))],
		})
	}
	return bands
}

// BeatLines generates the decorative beat boundaries inside [Start, End].
func (g Grid) BeatLines() []BeatLine {
	var lines []BeatLine
	for i := 0; ; i++ {
		t := g.Start + float64(i)*g.SecondsPerBeat
		if t >= g.End-timeEps {
			break
		}
		lines = append(lines, BeatLine{Time: t})
	}
	return lines
}

// PitchBands generates one horizontal row per pitch in the range, shading
// even pitches and labeling each row with its pitch number.
func PitchBands(r PitchRange) []PitchBand {
	bands := make([]PitchBand, 0, r.Span())
	for p := r.Min; p <= r.Max; p++ {
		alpha := 0.0
		if p%2 == 0 {
			alpha = pitchBandFillAlpha
		}
		bands = append(bands, PitchBand{Pitch: p, FillAlpha: alpha, Label: strconv.Itoa(p)})
	}
	return bands
}
