package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalnine/solvercmp/internal/reconcile"
)

// fixtureRunDir lays out a run directory with one index file per run. results
// maps run label -> instance -> result file content ("" = no result file).
func fixtureRunDir(t *testing.T, results map[string]map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for label, insts := range results {
		sum := filepath.Join(dir, "summary", label)
		if err := os.MkdirAll(sum, 0o755); err != nil {
			t.Fatal(err)
		}
		var index strings.Builder
		for inst, content := range insts {
			p := filepath.Join(sum, inst+".summary")
			fmt.Fprintf(&index, "/bin/solver acas net prop %s cfg\n", p)
			if content != "" {
				os.WriteFile(p, []byte(content), 0o644)
			}
		}
		os.WriteFile(filepath.Join(dir, "benchmark_set_"+label), []byte(index.String()), 0o644)
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func twoRuns(t *testing.T) string {
	return fixtureRunDir(t, map[string]map[string]string{
		"a": {"foo": "SAT 5\n", "bar": "UNKNOWN 9\n", "baz": "UNSAT 50\n"},
		"b": {"foo": "SAT 8\n", "bar": "", "baz": ""},
	})
}

func TestCompareTSV(t *testing.T) {
	dir := twoRuns(t)
	out, _, err := execute(t, "compare", "-r", dir)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, want := range []string{
		"Number of runs:2\n",
		"\t\t\ta\t|b\n",
		"SAT:\t\t\t1\t1\n",
		"UNSAT:\t\t\t1\t0\n",
		"Solved(3):\t\t2\t1\n",
		"Total time:\t\t1255\t2408\n",
		"Total <=30 (SAT):\t1\n",
		"Solved(3): 2\n",
		"Total SAT time: 5\n",
		"Total UNSAT time: 50\n",
		"Total time: 1255\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCompareMismatch(t *testing.T) {
	dir := fixtureRunDir(t, map[string]map[string]string{
		"a": {"q1": "SAT 3\n"},
		"b": {"q1": "UNSAT 4\n"},
	})
	out, errOut, err := execute(t, "compare", "-r", dir)
	var mm *reconcile.MismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if !strings.Contains(errOut, "Result doesn't align!") || !strings.Contains(errOut, "q1") {
		t.Errorf("expected diagnostic on stderr, got %q", errOut)
	}
	if strings.Contains(out, "Number of runs") {
		t.Error("no report should be written on mismatch")
	}
}

func TestCompareRunFilters(t *testing.T) {
	dir := fixtureRunDir(t, map[string]map[string]string{
		"dnc":     {"foo": "SAT 1\n"},
		"dnc_old": {"foo": "SAT 2\n"},
		"plain":   {"foo": "SAT 3\n"},
	})
	out, _, err := execute(t, "compare", "-r", dir, "--sub", "dnc", "--exc", "old")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(out, "Number of runs:1\n") {
		t.Errorf("expected one run selected:\n%s", out)
	}
}

func TestComparePlots(t *testing.T) {
	dir := twoRuns(t)
	plots := filepath.Join(t.TempDir(), "plots")
	if _, _, err := execute(t, "compare", "-r", dir, "-p", "--plot-dir", plots); err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, kind := range []string{"SAT", "UNSAT", "ALL"} {
		p := filepath.Join(plots, "a_b_all_"+kind+".png")
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing plot %s: %v", p, err)
		}
	}
}

func TestComparePlotsEmptyBenchmarkFlag(t *testing.T) {
	dir := twoRuns(t)
	plots := filepath.Join(t.TempDir(), "plots")
	if _, _, err := execute(t, "compare", "-r", dir, "-p", "--plot-dir", plots, "--benchmark="); err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, kind := range []string{"SAT", "UNSAT", "ALL"} {
		p := filepath.Join(plots, "a_b_all_"+kind+".png")
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing plot %s: %v", p, err)
		}
	}
}

func TestComparePlotsSkippedForThreeRuns(t *testing.T) {
	dir := fixtureRunDir(t, map[string]map[string]string{
		"a": {"foo": "SAT 1\n"},
		"b": {"foo": "SAT 2\n"},
		"c": {"foo": "SAT 3\n"},
	})
	plots := filepath.Join(t.TempDir(), "plots")
	if _, _, err := execute(t, "compare", "-r", dir, "-p", "--plot-dir", plots); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if _, err := os.Stat(plots); !os.IsNotExist(err) {
		t.Errorf("expected no plot dir, stat err = %v", err)
	}
}

func TestCompareRequiresRunDir(t *testing.T) {
	if _, _, err := execute(t, "compare"); err == nil {
		t.Error("expected error without --run")
	}
}

func TestCompareNoRuns(t *testing.T) {
	if _, _, err := execute(t, "compare", "-r", t.TempDir()); err == nil {
		t.Error("expected error for an empty run dir")
	}
}

func TestCompareConfigFile(t *testing.T) {
	dir := twoRuns(t)
	cfgPath := filepath.Join(t.TempDir(), "solvercmp.yaml")
	os.WriteFile(cfgPath, []byte("run_dir: "+dir+"\nformat: json\nthreshold: 6\n"), 0o644)

	out, _, err := execute(t, "compare", "--config", cfgPath)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(out, `"threshold": 6`) {
		t.Errorf("expected json output with threshold 6:\n%s", out)
	}

	// Flags win over the file.
	out, _, err = execute(t, "compare", "--config", cfgPath, "--format", "tsv", "-t", "10")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(out, "<=10s (SAT):") {
		t.Errorf("expected tsv output with threshold 10:\n%s", out)
	}
}

func TestCompareConfigZeroThreshold(t *testing.T) {
	dir := twoRuns(t)
	cfgPath := filepath.Join(t.TempDir(), "solvercmp.yaml")
	os.WriteFile(cfgPath, []byte("run_dir: "+dir+"\nthreshold: 0\n"), 0o644)

	out, _, err := execute(t, "compare", "--config", cfgPath)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(out, "<=0s (SAT):\t\t0\t0\n") {
		t.Errorf("expected threshold 0 from the config file:\n%s", out)
	}
}

func TestList(t *testing.T) {
	dir := twoRuns(t)
	out, _, err := execute(t, "list", "-r", dir, "--exc", "b")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "  - a (") || strings.Contains(out, "  - b (") {
		t.Errorf("unexpected list output:\n%s", out)
	}
}

func TestValidate(t *testing.T) {
	out, _, err := execute(t, "validate", "-r", twoRuns(t))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "2 runs, 2 solved instances") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestSummarize(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "sum")
	if _, _, err := execute(t, "summarize", "-r", twoRuns(t), "-o", outDir); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "b.txt"))
	if err != nil {
		t.Fatalf("reading summary: %v", err)
	}
	if string(data) != "foo SAT 8\n" {
		t.Errorf("b.txt = %q", data)
	}
}
