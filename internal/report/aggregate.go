package report

import (
	"errors"
	"fmt"

	"github.com/signalnine/solvercmp/internal/reconcile"
	"github.com/signalnine/solvercmp/internal/result"
)

var ErrTotalMismatch = errors.New("total time cross-check failed")

type RunStats struct {
	Label        string `json:"label"`
	NumInstances int    `json:"num_instances"`
	SolvedSAT    int    `json:"solved_sat"`
	SolvedUNSAT  int    `json:"solved_unsat"`
	Solved       int    `json:"solved"`
	// SATTime and UNSATTime count unsolved records at the timeout.
	SATTime   int `json:"sat_time"`
	UNSATTime int `json:"unsat_time"`
	TotalTime int `json:"total_time"`
	EasySAT   int `json:"easy_sat"`
	EasyUNSAT int `json:"easy_unsat"`
}

// Portfolio models an oracle that always picks the fastest run per instance.
type Portfolio struct {
	SolvedSAT   int `json:"solved_sat"`
	SolvedUNSAT int `json:"solved_unsat"`
	Solved      int `json:"solved"`
	SATTime     int `json:"sat_time"`
	UNSATTime   int `json:"unsat_time"`
	TotalTime   int `json:"total_time"`
}

type Stats struct {
	Timeout        int        `json:"timeout"`
	Threshold      int        `json:"threshold"`
	NumInstances   int        `json:"num_instances"`
	Runs           []RunStats `json:"runs"`
	EasySATTotal   int        `json:"easy_sat_total"`
	EasyUNSATTotal int        `json:"easy_unsat_total"`
	Portfolio      Portfolio  `json:"portfolio"`
}

type Options struct {
	Threshold int
	// NumInstances overrides every run's instance count when positive.
	NumInstances int
}

// Aggregate derives per-run and portfolio statistics from a reconciled table.
func Aggregate(t *reconcile.Table, opts Options) (*Stats, error) {
	timeout := t.Timeout()
	runs := t.Runs()
	records := t.Records()

	s := &Stats{
		Timeout:      timeout,
		Threshold:    opts.Threshold,
		NumInstances: t.NumInstances(),
		Runs:         make([]RunStats, len(runs)),
	}
	if opts.NumInstances > 0 {
		s.NumInstances = opts.NumInstances
	}

	easySAT := map[string]bool{}
	easyUNSAT := map[string]bool{}
	for i, run := range runs {
		rs := RunStats{Label: run.Label, NumInstances: run.NumInstances}
		if opts.NumInstances > 0 {
			rs.NumInstances = opts.NumInstances
		}
		solvedSum, sentinelSum := 0, 0
		for _, rec := range records {
			tm := rec.Times[i]
			v := tm.Value(timeout)
			sentinelSum += v
			solved := tm.Under(timeout)
			if solved {
				solvedSum += v
			}
			easy := tm.Under(opts.Threshold) && solved
			switch rec.Outcome {
			case result.SAT:
				rs.SATTime += v
				if solved {
					rs.SolvedSAT++
				}
				if easy {
					rs.EasySAT++
					easySAT[rec.Instance] = true
				}
			case result.UNSAT:
				rs.UNSATTime += v
				if solved {
					rs.SolvedUNSAT++
				}
				if easy {
					rs.EasyUNSAT++
					easyUNSAT[rec.Instance] = true
				}
			}
		}
		rs.Solved = rs.SolvedSAT + rs.SolvedUNSAT
		rs.TotalTime = solvedSum + timeout*(rs.NumInstances-rs.Solved)
		if check := sentinelSum + timeout*(rs.NumInstances-len(records)); check != rs.TotalTime {
			return nil, fmt.Errorf("run %s: %d != %d: %w", run.Label, rs.TotalTime, check, ErrTotalMismatch)
		}
		s.Runs[i] = rs
	}
	s.EasySATTotal = len(easySAT)
	s.EasyUNSATTotal = len(easyUNSAT)

	p := &s.Portfolio
	sum := 0
	for _, rec := range records {
		best := rec.Best()
		v := best.Value(timeout)
		sum += v
		solved := best.Under(timeout)
		switch rec.Outcome {
		case result.SAT:
			p.SATTime += v
			if solved {
				p.SolvedSAT++
			}
		case result.UNSAT:
			p.UNSATTime += v
			if solved {
				p.SolvedUNSAT++
			}
		}
	}
	p.Solved = p.SolvedSAT + p.SolvedUNSAT
	p.TotalTime = sum + timeout*(s.NumInstances-len(records))
	return s, nil
}
