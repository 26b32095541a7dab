package layout

import (
	"github.com/matzehuels/pianoroll/pkg/errors"
	"github.com/matzehuels/pianoroll/pkg/score"
)

// ResolveTempo derives the single QPM value driving all time arithmetic.
//
// A positive override wins unconditionally and is not validated against the
// score. Otherwise each tempo mark with a positive QPM is a steady-plateau
// candidate; the score must contain exactly one distinct candidate value.
// Zero candidates fail with UNKNOWN_TEMPO, more than one distinct value
// fails with MULTIPLE_TEMPO_CHANGES.
func ResolveTempo(marks []score.TempoMark, override float64) (float64, error) {
	if override > 0 {
		return override, nil
	}
	var qpm float64
	found := false
	for _, m := range marks {
		if m.QPM <= 0 {
			continue
		}
		if found && m.QPM != qpm {
			return 0, errors.New(errors.ErrCodeMultipleTempoChanges,
				"multiple tempo changes are not supported (%g and %g qpm)", qpm, m.QPM)
		}
		qpm = m.QPM
		found = true
	}
	if !found {
		return 0, errors.New(errors.ErrCodeUnknownTempo, "unknown qpm in %d tempo marks", len(marks))
	}
	return qpm, nil
}
