package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/pianoroll/pkg/errors"
	"github.com/matzehuels/pianoroll/pkg/score"
)

// TimeSignature is the active meter for the whole plot.
type TimeSignature struct {
	Numerator   int
	Denominator int
}

// String formats the signature as "N/D".
func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

// ParseTimeSignature parses an "N/D" override string into a TimeSignature.
// Both parts must be positive integers.
func ParseTimeSignature(s string) (TimeSignature, error) {
	num, denom, ok := strings.Cut(s, "/")
	if !ok {
		return TimeSignature{}, errors.New(errors.ErrCodeInvalidTimeSignature,
			"time signature %q is not of the form N/D", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return TimeSignature{}, errors.Wrap(errors.ErrCodeInvalidTimeSignature, err,
			"time signature %q numerator", s)
	}
	d, err := strconv.Atoi(strings.TrimSpace(denom))
	if err != nil {
		return TimeSignature{}, errors.Wrap(errors.ErrCodeInvalidTimeSignature, err,
			"time signature %q denominator", s)
	}
	if n <= 0 || d <= 0 {
		return TimeSignature{}, errors.New(errors.ErrCodeInvalidTimeSignature,
			"time signature %q must have positive numerator and denominator", s)
	}
	return TimeSignature{Numerator: n, Denominator: d}, nil
}

// ResolveTimeSignature derives the active time signature.
//
// An override string wins when set. Without one, the score may carry at most
// a single mark; more than one fails with MULTIPLE_TIME_SIGNATURES. A score
// with no marks defaults to 4/4. Marks are validated like overrides: both
// parts must be positive, since a zero part would collapse the bar duration
// downstream. Crafted MIDI files can carry such marks.
func ResolveTimeSignature(marks []score.TimeSignatureMark, override string) (TimeSignature, error) {
	if override != "" {
		return ParseTimeSignature(override)
	}
	switch len(marks) {
	case 0:
		return TimeSignature{Numerator: 4, Denominator: 4}, nil
	case 1:
		m := marks[0]
		if m.Numerator <= 0 || m.Denominator <= 0 {
			return TimeSignature{}, errors.New(errors.ErrCodeInvalidTimeSignature,
				"time signature %d/%d must have positive numerator and denominator", m.Numerator, m.Denominator)
		}
		return TimeSignature{Numerator: m.Numerator, Denominator: m.Denominator}, nil
	}
	return TimeSignature{}, errors.New(errors.ErrCodeMultipleTimeSignatures,
		"multiple time signatures are not supported (%d marks)", len(marks))
}
