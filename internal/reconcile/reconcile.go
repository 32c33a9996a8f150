// Package reconcile merges per-run results into one record per instance with
// one time slot per run, in run order.
package reconcile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/inconshreveable/log15"

	"github.com/signalnine/solvercmp/internal/loader"
	"github.com/signalnine/solvercmp/internal/result"
)

var ErrNoOutcome = errors.New("no run supplies an outcome")

// MismatchError reports two runs disagreeing on a solved instance.
type MismatchError struct {
	Instance string
	Runs     [2]string
	Outcomes [2]result.Outcome
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("result doesn't align for %s: %s=%s, %s=%s",
		e.Instance, e.Runs[0], e.Outcomes[0], e.Runs[1], e.Outcomes[1])
}

type Record struct {
	Instance string
	Outcome  result.Outcome
	// Times holds one slot per run, Unsolved where the run has no entry.
	Times []result.Time
}

// Best is the fastest time across all runs.
func (r Record) Best() result.Time {
	best := result.Unsolved
	for _, t := range r.Times {
		if !t.IsSolved() {
			continue
		}
		secs, _ := t.Seconds()
		if cur, _ := best.Seconds(); !best.IsSolved() || secs < cur {
			best = t
		}
	}
	return best
}

// Table is the reconciled view of a set of runs. It is not modified after
// Reconcile returns.
type Table struct {
	runs    []*loader.Run
	records []Record
	timeout int
}

func (t *Table) Runs() []*loader.Run { return t.runs }
func (t *Table) Timeout() int        { return t.timeout }

// Records are sorted by instance id.
func (t *Table) Records() []Record { return t.records }

func (t *Table) Labels() []string {
	labels := make([]string, len(t.runs))
	for i, r := range t.runs {
		labels[i] = r.Label
	}
	return labels
}

// NumInstances is the largest instance count among the runs.
func (t *Table) NumInstances() int {
	n := 0
	for _, r := range t.runs {
		if r.NumInstances > n {
			n = r.NumInstances
		}
	}
	return n
}

// Reconcile builds the table for runs, which must be in report order. Every
// run that reports an instance must agree on its outcome.
func Reconcile(runs []*loader.Run, timeout int, log log15.Logger) (*Table, error) {
	qualifying := map[string]bool{}
	for _, run := range runs {
		for id, e := range run.Entries {
			if e.Time.Under(timeout) {
				qualifying[id] = true
			}
		}
	}
	ids := make([]string, 0, len(qualifying))
	for id := range qualifying {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	t := &Table{
		runs:    runs,
		records: make([]Record, 0, len(ids)),
		timeout: timeout,
	}
	for _, id := range ids {
		rec := Record{Instance: id, Times: make([]result.Time, 0, len(runs))}
		source := -1
		for i, run := range runs {
			e, ok := run.Entry(id)
			if !ok {
				rec.Times = append(rec.Times, result.Unsolved)
				continue
			}
			rec.Times = append(rec.Times, e.Time)
			if source < 0 {
				source = i
				rec.Outcome = e.Outcome
				continue
			}
			if e.Outcome != rec.Outcome {
				log.Warn("Result doesn't align!", "instance", id,
					"run", runs[source].Label, "outcome", rec.Outcome,
					"other_run", run.Label, "other_outcome", e.Outcome)
				return nil, &MismatchError{
					Instance: id,
					Runs:     [2]string{runs[source].Label, run.Label},
					Outcomes: [2]result.Outcome{rec.Outcome, e.Outcome},
				}
			}
		}
		if source < 0 || !rec.Outcome.Solved() {
			return nil, fmt.Errorf("instance %s: %w", id, ErrNoOutcome)
		}
		t.records = append(t.records, rec)
	}

	for _, run := range runs {
		if n := t.NumInstances(); run.NumInstances != n {
			log.Warn("runs disagree on instance count", "run", run.Label, "instances", run.NumInstances, "max", n)
		}
	}
	return t, nil
}
