// Package score defines the musical data model consumed by the layout engine.
//
// A Score is a flat, already-decoded view of a musical performance: notes
// grouped by instrument, plus tempo and time-signature marks. Scores are
// produced by the SMF reader in this package or constructed directly in code;
// the layout engine treats them as trusted input, with one guarantee expected
// from producers: a score carries at least one tempo mark (an explicit one or
// the implicit 120 QPM default).
package score

// DefaultQPM is the implicit tempo used when a source carries no tempo
// information, matching the Standard MIDI File default of 120 BPM.
const DefaultQPM = 120.0

// Note is a single played note. Times are in seconds, with Start <= End.
type Note struct {
	Pitch    int     // MIDI pitch, 0-127
	Velocity int     // MIDI velocity, 0-127
	Start    float64 // onset time in seconds
	End      float64 // release time in seconds
}

// Duration returns the length of the note in seconds.
func (n Note) Duration() float64 { return n.End - n.Start }

// Instrument groups the notes played by a single program/track.
type Instrument struct {
	Program int    // MIDI program number
	Name    string // track name, may be empty
	Notes   []Note
}

// TempoMark records a steady tempo value active from Time onward.
// QPM is quarter-notes per minute and must be positive to be usable.
type TempoMark struct {
	Time float64
	QPM  float64
}

// TimeSignatureMark records a time-signature change at Time.
type TimeSignatureMark struct {
	Numerator   int
	Denominator int
	Time        float64
}

// Score is the complete decoded performance.
type Score struct {
	Instruments    []Instrument
	Tempos         []TempoMark
	TimeSignatures []TimeSignatureMark
}

// NoteCount returns the total number of notes across all instruments.
func (s *Score) NoteCount() int {
	n := 0
	for _, inst := range s.Instruments {
		n += len(inst.Notes)
	}
	return n
}

// Empty reports whether the score contains no notes.
func (s *Score) Empty() bool { return s.NoteCount() == 0 }
