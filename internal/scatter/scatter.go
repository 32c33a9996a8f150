// Package scatter renders per-instance time comparisons between two runs.
package scatter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/inconshreveable/log15"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/signalnine/solvercmp/internal/reconcile"
	"github.com/signalnine/solvercmp/internal/result"
)

type Kind string

const (
	KindSAT   Kind = "SAT"
	KindUNSAT Kind = "UNSAT"
	KindAll   Kind = "ALL"
)

const DefaultSize = 6 * vg.Inch

var ErrRunCount = errors.New("scatter plots need exactly two runs")

type Scatter struct {
	Kind    Kind
	XLabel  string
	YLabel  string
	Timeout int
	Points  plotter.XYs
	// Labels annotate Points one-to-one; nil when not annotating.
	Labels []string
}

// Build returns the SAT, UNSAT and combined scatters for a two-run table.
// Unsolved times are plotted at the timeout. With annotate set, each point is
// labelled with its preprocessing seconds.
func Build(t *reconcile.Table, annotate bool) ([]Scatter, error) {
	runs := t.Runs()
	if len(runs) != 2 {
		return nil, fmt.Errorf("%w, got %d", ErrRunCount, len(runs))
	}
	timeout := t.Timeout()
	newScatter := func(k Kind) Scatter {
		s := Scatter{Kind: k, XLabel: runs[0].Label, YLabel: runs[1].Label, Timeout: timeout}
		if annotate {
			s.Labels = []string{}
		}
		return s
	}
	byKind := map[result.Outcome]*Scatter{}
	satS, unsatS := newScatter(KindSAT), newScatter(KindUNSAT)
	byKind[result.SAT] = &satS
	byKind[result.UNSAT] = &unsatS

	for _, rec := range t.Records() {
		s, ok := byKind[rec.Outcome]
		if !ok {
			continue
		}
		s.Points = append(s.Points, plotter.XY{
			X: float64(rec.Times[0].Value(timeout)),
			Y: float64(rec.Times[1].Value(timeout)),
		})
		if annotate {
			s.Labels = append(s.Labels, preprocessLabel(t, rec.Instance))
		}
	}

	all := newScatter(KindAll)
	all.Points = append(append(plotter.XYs{}, satS.Points...), unsatS.Points...)
	if annotate {
		all.Labels = append(append(all.Labels, satS.Labels...), unsatS.Labels...)
	}
	return []Scatter{satS, unsatS, all}, nil
}

func preprocessLabel(t *reconcile.Table, id string) string {
	for _, run := range t.Runs() {
		if pe, ok := run.Preprocess[id]; ok {
			return strconv.Itoa(pe.Seconds)
		}
	}
	return ""
}

// FileName is "<a>_<b>_<benchmark>_<kind>.png".
func FileName(a, b, benchmark string, k Kind) string {
	return fmt.Sprintf("%s_%s_%s_%s.png", a, b, benchmark, k)
}

// Render draws s with a y = x reference line on a square canvas of the given
// size and saves it to path; the file format follows the extension.
func Render(s Scatter, path string, size vg.Length) error {
	p := plot.New()
	p.Title.Text = string(s.Kind)
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel

	limit := float64(s.Timeout)
	identity := plotter.NewFunction(func(x float64) float64 { return x })
	identity.XMin, identity.XMax = 0, limit
	p.Add(identity)

	if len(s.Points) > 0 {
		sc, err := plotter.NewScatter(s.Points)
		if err != nil {
			return fmt.Errorf("building %s scatter: %w", s.Kind, err)
		}
		p.Add(sc)
	}
	if len(s.Labels) > 0 && len(s.Labels) == len(s.Points) {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: s.Points, Labels: s.Labels})
		if err != nil {
			return fmt.Errorf("building %s labels: %w", s.Kind, err)
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Font.Size = vg.Points(8)
		}
		p.Add(labels)
	}

	p.X.Min, p.X.Max = 0, limit
	p.Y.Min, p.Y.Max = 0, limit
	if err := p.Save(size, size, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

type Options struct {
	Dir       string
	Benchmark string
	Annotate  bool
	Size      vg.Length
}

// WriteAll builds and renders the three comparison plots into opts.Dir and
// returns the written paths.
func WriteAll(t *reconcile.Table, opts Options, log log15.Logger) ([]string, error) {
	scatters, err := Build(t, opts.Annotate)
	if err != nil {
		return nil, err
	}
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating plot dir: %w", err)
	}
	labels := t.Labels()
	var paths []string
	for _, s := range scatters {
		path := filepath.Join(opts.Dir, FileName(labels[0], labels[1], opts.Benchmark, s.Kind))
		if err := Render(s, path, opts.Size); err != nil {
			return paths, err
		}
		log.Info("wrote plot", "kind", s.Kind, "points", len(s.Points), "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}
