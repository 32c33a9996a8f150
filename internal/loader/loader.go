// Package loader reads per-run benchmark index files and the result files they
// reference into one Run per index file.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/inconshreveable/log15"

	"github.com/signalnine/solvercmp/internal/result"
)

const (
	// IndexMarker identifies run index files inside a run directory.
	IndexMarker = "benchmark_set_"
	// PreprocessMarker in an index file name enables preprocessing adjustment
	// for that run.
	PreprocessMarker = "preprocess"
	// AllBenchmarks disables the benchmark-name filter.
	AllBenchmarks = "all"

	indexPathField = 4
)

var ErrPreprocessBound = errors.New("preprocess time exceeds preprocess timeout")

type Options struct {
	Timeout           int
	PreprocessTimeout int
	Preprocessing     bool
	Benchmarks        []string
}

type Run struct {
	Label     string
	IndexPath string
	// Instances lists loaded instance ids in index order.
	Instances    []string
	Entries      map[string]result.Entry
	Preprocess   map[string]result.PreprocessEntry
	NumInstances int
}

func (r *Run) Entry(id string) (result.Entry, bool) {
	e, ok := r.Entries[id]
	return e, ok
}

// OrderedEntries returns the loaded entries in index order.
func (r *Run) OrderedEntries() []result.Entry {
	entries := make([]result.Entry, 0, len(r.Instances))
	for _, id := range r.Instances {
		entries = append(entries, r.Entries[id])
	}
	return entries
}

// Label derives a run label from its index file name.
func Label(indexName string) string {
	name := filepath.Base(indexName)
	if _, after, ok := strings.Cut(name, IndexMarker); ok {
		return after
	}
	return name
}

// InstanceID is the result file's base name up to the first dot.
func InstanceID(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// ParseIndex returns the result path (fifth field) of every non-blank line.
func ParseIndex(r io.Reader) ([]string, error) {
	var paths []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) <= indexPathField {
			return nil, fmt.Errorf("line %d: want at least %d fields, got %d", lineNo, indexPathField+1, len(fields))
		}
		paths = append(paths, fields[indexPathField])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning index: %w", err)
	}
	return paths, nil
}

func matchBenchmark(path string, benchmarks []string) bool {
	if len(benchmarks) == 0 || benchmarks[0] == AllBenchmarks {
		return true
	}
	base := filepath.Base(path)
	for _, b := range benchmarks {
		if strings.Contains(base, b) {
			return true
		}
	}
	return false
}

// Load reads one run's index file and every result file it references.
func Load(indexPath string, opts Options, log log15.Logger) (*Run, error) {
	f, err := os.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	paths, err := ParseIndex(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("parsing index %s: %w", indexPath, err)
	}

	if opts.PreprocessTimeout <= 0 {
		opts.PreprocessTimeout = opts.Timeout
	}
	preprocess := opts.Preprocessing && strings.Contains(filepath.Base(indexPath), PreprocessMarker)

	run := &Run{
		Label:      Label(indexPath),
		IndexPath:  indexPath,
		Entries:    map[string]result.Entry{},
		Preprocess: map[string]result.PreprocessEntry{},
	}
	log = log.New("run", run.Label)
	seen := map[string]bool{}

	for _, path := range paths {
		if !matchBenchmark(path, opts.Benchmarks) {
			continue
		}
		run.NumInstances++
		id := InstanceID(path)
		if seen[id] {
			log.Warn("duplicate instance in index, last entry wins", "instance", id, "path", path)
		}
		seen[id] = true

		pre := 0
		if preprocess {
			pe, ok, err := result.ReadPreprocessFile(path)
			if err != nil {
				return nil, err
			}
			if !ok {
				log.Debug("no preprocess sidecar", "instance", id)
				continue
			}
			if pe.Seconds > opts.PreprocessTimeout {
				return nil, fmt.Errorf("instance %s in run %s: %d > %d: %w",
					id, run.Label, pe.Seconds, opts.PreprocessTimeout, ErrPreprocessBound)
			}
			pe.Instance = id
			run.Preprocess[id] = pe
			pre = pe.Seconds
		}

		raw, ok, err := result.ReadResultFile(path)
		if errors.Is(err, result.ErrUnrecognizedOutcome) {
			log.Warn("skipping result", "instance", id, "err", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Debug("no result file", "instance", id)
			continue
		}
		if raw.Outcome == result.Unknown || raw.Seconds-float64(pre) >= float64(opts.Timeout) {
			continue
		}

		secs := int(raw.Seconds) - pre
		// Sidecar times are whole seconds and may exceed the solve time.
		if secs < 0 {
			secs = 0
		}
		if _, dup := run.Entries[id]; !dup {
			run.Instances = append(run.Instances, id)
		}
		run.Entries[id] = result.Entry{Instance: id, Outcome: raw.Outcome, Time: result.Solved(secs)}
	}

	log.Debug("loaded run", "instances", run.NumInstances, "entries", len(run.Entries))
	return run, nil
}
