package result

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PreprocessSuffix is appended to a result file path to locate its sidecar.
const PreprocessSuffix = ".preprocess"

// Raw is the unadjusted content of a result file.
type Raw struct {
	Outcome Outcome
	Seconds float64
}

// ReadResultFile parses "<outcome> <seconds>" from the first non-blank line.
// A missing or empty file yields ok == false and no error.
func ReadResultFile(path string) (raw Raw, ok bool, err error) {
	fields, ok, err := firstLineFields(path)
	if err != nil || !ok {
		return Raw{}, false, err
	}
	if len(fields) < 2 {
		return Raw{}, false, fmt.Errorf("parsing result %s: want outcome and time, got %q", path, strings.Join(fields, " "))
	}
	outcome, err := ParseOutcome(fields[0])
	if err != nil {
		return Raw{}, false, fmt.Errorf("parsing result %s: %w", path, err)
	}
	secs, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Raw{}, false, fmt.Errorf("parsing result %s: time: %w", path, err)
	}
	if secs < 0 {
		return Raw{}, false, fmt.Errorf("parsing result %s: negative time %v", path, secs)
	}
	return Raw{Outcome: outcome, Seconds: secs}, true, nil
}

// ReadPreprocessFile parses the sidecar of resultPath. The second field holds
// the preprocessing seconds and the third the number of fixed variables.
func ReadPreprocessFile(resultPath string) (pe PreprocessEntry, ok bool, err error) {
	path := resultPath + PreprocessSuffix
	fields, ok, err := firstLineFields(path)
	if err != nil || !ok {
		return PreprocessEntry{}, false, err
	}
	if len(fields) < 3 {
		return PreprocessEntry{}, false, fmt.Errorf("parsing preprocess %s: want 3 fields, got %d", path, len(fields))
	}
	secs, err := strconv.Atoi(fields[1])
	if err != nil {
		return PreprocessEntry{}, false, fmt.Errorf("parsing preprocess %s: time: %w", path, err)
	}
	fixed, err := strconv.Atoi(fields[2])
	if err != nil {
		return PreprocessEntry{}, false, fmt.Errorf("parsing preprocess %s: num fixed: %w", path, err)
	}
	return PreprocessEntry{Seconds: secs, NumFixed: fixed}, true, nil
}

// WriteSummary writes one "<instance> <outcome> <seconds>" line per solved entry
// to <dir>/<label>.txt and returns the file path.
func WriteSummary(dir, label string, entries []Entry) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating summary dir: %w", err)
	}
	var b strings.Builder
	for _, e := range entries {
		secs, ok := e.Time.Seconds()
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s %s %d\n", e.Instance, e.Outcome, secs)
	}
	path := filepath.Join(dir, label+".txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	return path, nil
}

func firstLineFields(path string) ([]string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			return fields, true, nil
		}
	}
	return nil, false, nil
}
