package score

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/matzehuels/pianoroll/pkg/errors"
)

const ticksPerQuarter = 960

// newSMF builds an in-memory Standard MIDI File from the given tracks, each
// closed and added in order.
func newSMF(t *testing.T, tracks ...smf.Track) *smf.SMF {
	t.Helper()
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	for _, tr := range tracks {
		tr.Close(0)
		if err := sm.Add(tr); err != nil {
			t.Fatalf("adding track: %v", err)
		}
	}
	return sm
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFromSMF(t *testing.T) {
	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaMeter(3, 4))
	tempoTrack.Add(0, smf.MetaTempo(120))

	var noteTrack smf.Track
	noteTrack.Add(0, smf.MetaTrackSequenceName("piano"))
	noteTrack.Add(0, midi.ProgramChange(0, 42))
	noteTrack.Add(0, midi.NoteOn(0, 60, 100))
	noteTrack.Add(ticksPerQuarter, midi.NoteOff(0, 60))
	noteTrack.Add(0, midi.NoteOn(0, 64, 80))
	noteTrack.Add(ticksPerQuarter, midi.NoteOff(0, 64))

	sc, err := FromSMF(newSMF(t, tempoTrack, noteTrack))
	if err != nil {
		t.Fatalf("FromSMF() error = %v", err)
	}

	if len(sc.Tempos) != 1 || sc.Tempos[0].QPM != 120 || sc.Tempos[0].Time != 0 {
		t.Errorf("Tempos = %+v, want one 120 QPM mark at 0", sc.Tempos)
	}
	if len(sc.TimeSignatures) != 1 {
		t.Fatalf("TimeSignatures = %+v, want one mark", sc.TimeSignatures)
	}
	if ts := sc.TimeSignatures[0]; ts.Numerator != 3 || ts.Denominator != 4 {
		t.Errorf("time signature = %d/%d, want 3/4", ts.Numerator, ts.Denominator)
	}

	if len(sc.Instruments) != 1 {
		t.Fatalf("Instruments = %+v, want one", sc.Instruments)
	}
	inst := sc.Instruments[0]
	if inst.Name != "piano" {
		t.Errorf("instrument name = %q, want piano", inst.Name)
	}
	if inst.Program != 42 {
		t.Errorf("instrument program = %d, want 42", inst.Program)
	}
	if len(inst.Notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(inst.Notes))
	}
	// One quarter note at 120 QPM lasts half a second.
	n := inst.Notes[0]
	if n.Pitch != 60 || n.Velocity != 100 || !almostEqual(n.Start, 0) || !almostEqual(n.End, 0.5) {
		t.Errorf("first note = %+v, want pitch 60 vel 100 [0, 0.5]", n)
	}
	n = inst.Notes[1]
	if n.Pitch != 64 || !almostEqual(n.Start, 0.5) || !almostEqual(n.End, 1.0) {
		t.Errorf("second note = %+v, want pitch 64 [0.5, 1.0]", n)
	}
}

func TestFromSMFNoTempoGetsDefault(t *testing.T) {
	var track smf.Track
	track.Add(0, midi.NoteOn(0, 60, 90))
	track.Add(ticksPerQuarter, midi.NoteOff(0, 60))

	sc, err := FromSMF(newSMF(t, track))
	if err != nil {
		t.Fatalf("FromSMF() error = %v", err)
	}
	if len(sc.Tempos) != 1 {
		t.Fatalf("Tempos = %+v, want exactly the implicit default", sc.Tempos)
	}
	if sc.Tempos[0] != (TempoMark{Time: 0, QPM: DefaultQPM}) {
		t.Errorf("Tempos[0] = %+v, want implicit 120 at 0", sc.Tempos[0])
	}
}

// A tempo change mid-file shifts wall-clock time for everything after it:
// each segment of ticks accumulates seconds at its own rate.
func TestFromSMFTempoChangeTiming(t *testing.T) {
	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaTempo(120))
	tempoTrack.Add(ticksPerQuarter, smf.MetaTempo(60))

	var noteTrack smf.Track
	noteTrack.Add(2*ticksPerQuarter, midi.NoteOn(0, 60, 90))
	noteTrack.Add(ticksPerQuarter, midi.NoteOff(0, 60))

	sc, err := FromSMF(newSMF(t, tempoTrack, noteTrack))
	if err != nil {
		t.Fatalf("FromSMF() error = %v", err)
	}
	if len(sc.Tempos) != 2 {
		t.Fatalf("Tempos = %+v, want both marks", sc.Tempos)
	}
	if !almostEqual(sc.Tempos[1].Time, 0.5) {
		t.Errorf("second tempo mark at %g, want 0.5", sc.Tempos[1].Time)
	}
	n := sc.Instruments[0].Notes[0]
	// First quarter at 120 QPM is 0.5s, second quarter at 60 QPM is 1s.
	if !almostEqual(n.Start, 1.5) || !almostEqual(n.End, 2.5) {
		t.Errorf("note span = [%g, %g], want [1.5, 2.5]", n.Start, n.End)
	}
}

// Overlapping notes on the same pitch pair up first-on first-off.
func TestFromSMFOverlappingSamePitch(t *testing.T) {
	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(0, midi.NoteOn(0, 60, 90))
	track.Add(ticksPerQuarter/2, midi.NoteOn(0, 60, 70))
	track.Add(ticksPerQuarter/2, midi.NoteOff(0, 60))
	track.Add(ticksPerQuarter/2, midi.NoteOff(0, 60))

	sc, err := FromSMF(newSMF(t, track))
	if err != nil {
		t.Fatalf("FromSMF() error = %v", err)
	}
	notes := sc.Instruments[0].Notes
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}
	if !almostEqual(notes[0].Start, 0) || !almostEqual(notes[0].End, 0.5) || notes[0].Velocity != 90 {
		t.Errorf("first note = %+v, want vel 90 [0, 0.5]", notes[0])
	}
	if !almostEqual(notes[1].Start, 0.25) || !almostEqual(notes[1].End, 0.75) || notes[1].Velocity != 70 {
		t.Errorf("second note = %+v, want vel 70 [0.25, 0.75]", notes[1])
	}
}

func TestFromSMFStrayNoteOffIgnored(t *testing.T) {
	var track smf.Track
	track.Add(0, midi.NoteOff(0, 60))
	track.Add(0, midi.NoteOn(0, 64, 90))
	track.Add(ticksPerQuarter, midi.NoteOff(0, 64))

	sc, err := FromSMF(newSMF(t, track))
	if err != nil {
		t.Fatalf("FromSMF() error = %v", err)
	}
	if got := sc.NoteCount(); got != 1 {
		t.Errorf("NoteCount() = %d, want the stray note-off dropped", got)
	}
}

func TestFromSMFNotesSorted(t *testing.T) {
	var track smf.Track
	track.Add(0, midi.NoteOn(0, 64, 90))
	track.Add(0, midi.NoteOn(0, 60, 90))
	track.Add(ticksPerQuarter, midi.NoteOff(0, 64))
	track.Add(0, midi.NoteOff(0, 60))

	sc, err := FromSMF(newSMF(t, track))
	if err != nil {
		t.Fatalf("FromSMF() error = %v", err)
	}
	notes := sc.Instruments[0].Notes
	if len(notes) != 2 || notes[0].Pitch != 60 || notes[1].Pitch != 64 {
		t.Errorf("notes = %+v, want sorted by pitch at equal start", notes)
	}
}

func TestFromSMFTracksWithoutNotes(t *testing.T) {
	var metaOnly smf.Track
	metaOnly.Add(0, smf.MetaTempo(100))

	sc, err := FromSMF(newSMF(t, metaOnly))
	if err != nil {
		t.Fatalf("FromSMF() error = %v", err)
	}
	if len(sc.Instruments) != 0 {
		t.Errorf("Instruments = %+v, want none for a meta-only track", sc.Instruments)
	}
}

func TestFromSMFUnsupportedTimeFormat(t *testing.T) {
	_, err := FromSMF(&smf.SMF{})
	if !errors.Is(err, errors.ErrCodeInvalidMIDI) {
		t.Fatalf("FromSMF() error = %v, want INVALID_MIDI", err)
	}
}

func TestReadFile(t *testing.T) {
	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(0, midi.NoteOn(0, 60, 90))
	track.Add(ticksPerQuarter, midi.NoteOff(0, 60))
	sm := newSMF(t, track)

	path := filepath.Join(t.TempDir(), "test.mid")
	if err := sm.WriteFile(path); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	sc, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if sc.NoteCount() != 1 {
		t.Errorf("NoteCount() = %d, want 1", sc.NoteCount())
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.mid"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("ReadFile() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestReadFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.mid")
	if err := os.WriteFile(path, []byte("this is not midi"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadFile(path)
	if !errors.Is(err, errors.ErrCodeInvalidMIDI) {
		t.Fatalf("ReadFile() error = %v, want INVALID_MIDI", err)
	}
}
