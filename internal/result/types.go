package result

import (
	"errors"
	"fmt"
)

type Outcome string

const (
	SAT     Outcome = "SAT"
	UNSAT   Outcome = "UNSAT"
	Unknown Outcome = "UNKNOWN"
)

var ErrUnrecognizedOutcome = errors.New("unrecognized outcome")

func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(s); o {
	case SAT, UNSAT, Unknown:
		return o, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnrecognizedOutcome, s)
}

// Solved reports whether the outcome is a definite answer.
func (o Outcome) Solved() bool {
	return o == SAT || o == UNSAT
}

// Time is a per-run solve time: either Solved with whole seconds or Unsolved.
// The zero value is Unsolved.
type Time struct {
	secs   int
	solved bool
}

// Unsolved marks an instance a run did not finish within the timeout.
var Unsolved = Time{}

func Solved(secs int) Time {
	return Time{secs: secs, solved: true}
}

func (t Time) IsSolved() bool { return t.solved }

// Seconds returns the solve time and whether the instance was solved.
func (t Time) Seconds() (int, bool) {
	return t.secs, t.solved
}

// Under is true only for solved times strictly below limit.
func (t Time) Under(limit int) bool {
	return t.solved && t.secs < limit
}

// Value converts to the numeric form used in reports, where timeout stands in
// for an unsolved instance.
func (t Time) Value(timeout int) int {
	if !t.solved {
		return timeout
	}
	return t.secs
}

func (t Time) String() string {
	if !t.solved {
		return "unsolved"
	}
	return fmt.Sprintf("%ds", t.secs)
}

type Entry struct {
	Instance string
	Outcome  Outcome
	Time     Time
}

type PreprocessEntry struct {
	Instance string
	Seconds  int
	NumFixed int
}
