package layout

import "github.com/matzehuels/pianoroll/pkg/score"

// PitchRange is the inclusive band of pitches shown on the vertical axis.
type PitchRange struct {
	Min int
	Max int
}

// Span returns the number of pitch rows in the band.
func (r PitchRange) Span() int { return r.Max + 1 - r.Min }

// ResolvePitchRange derives the visible pitch band from the score's notes
// and the optional overrides.
//
// Overrides always win. Without them the observed extremes are kept, the
// minimum clamped to MaxPitch and the maximum to MinPitch. A score without
// notes defaults to the band [MinPitch, MinPitch+5].
func ResolvePitchRange(sc *score.Score, start, stop *int) PitchRange {
	observedMin, observedMax := MaxPitch, MinPitch
	hasNotes := false
	for _, inst := range sc.Instruments {
		for _, n := range inst.Notes {
			if !hasNotes || n.Pitch < observedMin {
				observedMin = n.Pitch
			}
			if !hasNotes || n.Pitch > observedMax {
				observedMax = n.Pitch
			}
			hasNotes = true
		}
	}
	return resolvePitchBounds(observedMin, observedMax, hasNotes, start, stop)
}

// resolvePitchBounds applies the override/clamp rules to already-observed
// extremes. Plot gathers the extremes in its note pass and calls this
// directly to avoid a second scan.
func resolvePitchBounds(observedMin, observedMax int, hasNotes bool, start, stop *int) PitchRange {
	if !hasNotes {
		observedMin = MinPitch
		observedMax = MinPitch + 5
	}
	r := PitchRange{Min: observedMin, Max: observedMax}
	if start != nil {
		r.Min = *start
	} else if r.Min > MaxPitch {
		r.Min = MaxPitch
	}
	if stop != nil {
		r.Max = *stop
	} else if r.Max < MinPitch {
		r.Max = MinPitch
	}
	// Inverted overrides are reordered rather than rejected, keeping the
	// min <= max invariant for every resolved range.
	if r.Max < r.Min {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}
