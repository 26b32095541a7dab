package score

import (
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/matzehuels/pianoroll/pkg/errors"
)

// ReadFile parses a Standard MIDI File into a Score.
//
// Tick times are converted to seconds using the file's tempo map. Tracks
// without notes contribute no instrument. Files without any tempo event get
// the implicit DefaultQPM mark at time zero, so every returned Score satisfies
// the at-least-one-tempo-mark guarantee the layout engine relies on.
func ReadFile(path string) (*Score, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "midi file %s", path)
	}
	data, err := smf.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMIDI, err, "read %s", path)
	}
	return FromSMF(data)
}

// FromSMF converts an already-parsed SMF document into a Score.
func FromSMF(data *smf.SMF) (*Score, error) {
	metric, ok := data.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidMIDI, "unsupported time format %v", data.TimeFormat)
	}
	tpq := float64(metric.Resolution())

	tempi := collectTempoTicks(data)
	clock := tempoClock{ticksPerQuarter: tpq, changes: tempi}

	s := &Score{}
	for _, mark := range tempi {
		s.Tempos = append(s.Tempos, TempoMark{Time: clock.seconds(mark.tick), QPM: mark.bpm})
	}
	if len(s.Tempos) == 0 {
		s.Tempos = append(s.Tempos, TempoMark{Time: 0, QPM: DefaultQPM})
	}

	for _, track := range data.Tracks {
		inst, sigs := readTrack(track, clock)
		s.TimeSignatures = append(s.TimeSignatures, sigs...)
		if len(inst.Notes) > 0 {
			s.Instruments = append(s.Instruments, inst)
		}
	}
	return s, nil
}

// tempoTick is a raw tempo event before tick-to-seconds conversion.
type tempoTick struct {
	tick int64
	bpm  float64
}

// tempoClock converts absolute ticks to seconds against a sorted tempo table.
type tempoClock struct {
	ticksPerQuarter float64
	changes         []tempoTick
}

func collectTempoTicks(data *smf.SMF) []tempoTick {
	var tempi []tempoTick
	for _, track := range data.Tracks {
		var abs int64
		for _, ev := range track {
			abs += int64(ev.Delta)
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				tempi = append(tempi, tempoTick{tick: abs, bpm: bpm})
			}
		}
	}
	sort.Slice(tempi, func(i, j int) bool { return tempi[i].tick < tempi[j].tick })
	return tempi
}

// seconds returns the wall-clock time of an absolute tick, accumulating each
// tempo segment at its own rate. Ticks before the first tempo event run at
// the SMF default of 120 BPM.
func (c tempoClock) seconds(tick int64) float64 {
	bpm := DefaultQPM
	var sec float64
	var prev int64
	for _, ch := range c.changes {
		if ch.tick >= tick {
			break
		}
		sec += float64(ch.tick-prev) * 60.0 / (bpm * c.ticksPerQuarter)
		prev = ch.tick
		bpm = ch.bpm
	}
	return sec + float64(tick-prev)*60.0/(bpm*c.ticksPerQuarter)
}

// pendingKey identifies an open note awaiting its end event.
type pendingKey struct {
	channel uint8
	key     uint8
}

type pendingNote struct {
	start    float64
	velocity uint8
}

func readTrack(track smf.Track, clock tempoClock) (Instrument, []TimeSignatureMark) {
	inst := Instrument{}
	var sigs []TimeSignatureMark
	open := map[pendingKey][]pendingNote{}

	var abs int64
	for _, ev := range track {
		abs += int64(ev.Delta)
		msg := ev.Message

		var name string
		if msg.GetMetaTrackName(&name) {
			inst.Name = name
			continue
		}

		var num, denom, clocks, dsq uint8
		if msg.GetMetaTimeSig(&num, &denom, &clocks, &dsq) {
			sigs = append(sigs, TimeSignatureMark{
				Numerator:   int(num),
				Denominator: int(denom),
				Time:        clock.seconds(abs),
			})
			continue
		}

		var ch, key, vel uint8
		if msg.GetProgramChange(&ch, &key) {
			inst.Program = int(key)
			continue
		}
		if msg.GetNoteStart(&ch, &key, &vel) {
			k := pendingKey{channel: ch, key: key}
			open[k] = append(open[k], pendingNote{start: clock.seconds(abs), velocity: vel})
			continue
		}
		if msg.GetNoteEnd(&ch, &key) {
			k := pendingKey{channel: ch, key: key}
			stack := open[k]
			if len(stack) == 0 {
				continue // stray note-off
			}
			p := stack[0]
			open[k] = stack[1:]
			inst.Notes = append(inst.Notes, Note{
				Pitch:    int(key),
				Velocity: int(p.velocity),
				Start:    p.start,
				End:      clock.seconds(abs),
			})
		}
	}

	sort.Slice(inst.Notes, func(i, j int) bool {
		if inst.Notes[i].Start != inst.Notes[j].Start {
			return inst.Notes[i].Start < inst.Notes[j].Start
		}
		return inst.Notes[i].Pitch < inst.Notes[j].Pitch
	})
	return inst, sigs
}
