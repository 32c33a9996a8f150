package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inconshreveable/log15"
)

// RunFilter selects index files by name. A name must contain at least one
// Include substring (an empty list matches everything) and no non-empty
// Exclude substring.
type RunFilter struct {
	Include []string
	Exclude []string
}

func (f RunFilter) Match(name string) bool {
	if len(f.Include) > 0 {
		found := false
		for _, s := range f.Include {
			if strings.Contains(name, s) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, s := range f.Exclude {
		if s != "" && strings.Contains(name, s) {
			return false
		}
	}
	return true
}

// Discover returns the index files in dir that pass f, sorted by name.
func Discover(dir string, f RunFilter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading run dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), IndexMarker) {
			continue
		}
		if !f.Match(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// LoadAll discovers and loads every selected run in dir, in name order.
func LoadAll(dir string, f RunFilter, opts Options, log log15.Logger) ([]*Run, error) {
	paths, err := Discover(dir, f)
	if err != nil {
		return nil, err
	}
	runs := make([]*Run, 0, len(paths))
	for _, p := range paths {
		run, err := Load(p, opts, log)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}
