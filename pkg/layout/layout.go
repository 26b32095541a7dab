package layout

import (
	"fmt"

	"github.com/matzehuels/pianoroll/pkg/score"
)

// NoteRect is a single note rectangle in plot coordinates: seconds on the
// horizontal axis, pitch rows on the vertical axis. Top carries the pitch
// and Bottom extends one row down (or less, when velocity height is on),
// mirroring the inverted row convention of the vertical axis.
type NoteRect struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64

	// ColorID indexes the note palette; Color is the resolved, lightened
	// hex value. Both are rendering hints, never layout inputs.
	ColorID int
	Color   string

	Meta NoteMeta
}

// NoteMeta carries the source note data renderers surface in tooltips.
type NoteMeta struct {
	Instrument int
	Program    int
	Pitch      int
	Velocity   int
	Duration   float64
}

// PitchBand is one horizontal pitch row with its background shading.
type PitchBand struct {
	Pitch     int
	FillAlpha float64
	Label     string
}

// BarBand is one shaded vertical bar span.
type BarBand struct {
	Start     float64
	End       float64
	FillAlpha float64
}

// BeatLine is a decorative vertical line at a beat boundary.
type BeatLine struct {
	Time float64
}

// Bounds is the visible plot window.
type Bounds struct {
	TimeStart float64
	TimeEnd   float64
	PitchMin  int
	PitchMax  int
}

// Layout is the complete, immutable result of one plot computation.
// It is produced fresh on every call and never mutated afterwards.
//
// Notes are NOT clipped to the window: a left-truncated window changes
// Bounds only, and rectangles outside [TimeStart, TimeEnd] stay in the
// list. Visibility is a rendering concern, not a data-filtering one.
type Layout struct {
	Notes      []NoteRect
	PitchBands []PitchBand
	BarBands   []BarBand
	BeatLines  []BeatLine
	Bounds     Bounds
	Grid       Grid
	QPM        float64
	Signature  TimeSignature
	Title      string
}

// Plotter computes piano-roll layouts for a fixed configuration.
// The configuration is captured at construction and read-only afterwards;
// a Plotter is safe for concurrent Plot calls.
type Plotter struct {
	cfg Config
}

// NewPlotter creates a Plotter, filling numeric zero values in cfg with
// their documented defaults.
func NewPlotter(cfg Config) *Plotter {
	return &Plotter{cfg: cfg.normalized()}
}

// Config returns the normalized configuration the plotter operates with.
func (p *Plotter) Config() Config { return p.cfg }

// Plot lays out the score as a piano roll.
//
// Resolution failures (tempo, time signature, coloring) abort immediately;
// no partial layout is ever returned.
func (p *Plotter) Plot(sc *score.Score) (*Layout, error) {
	cfg := p.cfg

	qpm, err := ResolveTempo(sc.Tempos, cfg.QPM)
	if err != nil {
		return nil, err
	}
	signature, err := ResolveTimeSignature(sc.TimeSignatures, cfg.TimeSignature)
	if err != nil {
		return nil, err
	}

	// Single pass over all notes: build the rectangles and gather the
	// window and pitch extremes at the same time.
	var notes []NoteRect
	observedMin, observedMax := MaxPitch, MinPitch
	var firstStart, lastEnd float64
	hasNotes := false
	for idx, inst := range sc.Instruments {
		for _, n := range inst.Notes {
			colorID, err := ColorIndex(cfg.Coloring, idx, n.Pitch)
			if err != nil {
				return nil, err
			}
			left := n.Start * cfg.TimeScale
			right := n.End * cfg.TimeScale
			bottom := float64(n.Pitch) + 1
			if cfg.ShowVelocity {
				bottom = float64(n.Pitch) + float64(n.Velocity)/127.0
			}
			notes = append(notes, NoteRect{
				Left:    left,
				Right:   right,
				Top:     float64(n.Pitch),
				Bottom:  bottom,
				ColorID: colorID,
				Color:   ColorHex(colorID),
				Meta: NoteMeta{
					Instrument: idx,
					Program:    inst.Program,
					Pitch:      n.Pitch,
					Velocity:   n.Velocity,
					Duration:   right - left,
				},
			})
			if !hasNotes || n.Pitch < observedMin {
				observedMin = n.Pitch
			}
			if !hasNotes || n.Pitch > observedMax {
				observedMax = n.Pitch
			}
			if !hasNotes || left < firstStart {
				firstStart = left
			}
			if !hasNotes || right > lastEnd {
				lastEnd = right
			}
			hasNotes = true
		}
	}

	pitches := resolvePitchBounds(observedMin, observedMax, hasNotes, cfg.PitchRangeStart, cfg.PitchRangeStop)
	grid := ComputeGrid(qpm, signature, firstStart, lastEnd, hasNotes, cfg)

	l := &Layout{
		Notes:      notes,
		PitchBands: PitchBands(pitches),
		Bounds: Bounds{
			TimeStart: grid.Start,
			TimeEnd:   grid.End,
			PitchMin:  pitches.Min,
			PitchMax:  pitches.Max,
		},
		Grid:      grid,
		QPM:       qpm,
		Signature: signature,
		Title:     fmt.Sprintf("Piano Roll (%d QPM, %d/%d)", int(qpm), signature.Numerator, signature.Denominator),
	}
	if cfg.ShowBarGrid {
		l.BarBands = grid.BarBands(cfg.BarFillAlphas)
	}
	if cfg.ShowBeatGrid {
		l.BeatLines = grid.BeatLines()
	}
	return l, nil
}
