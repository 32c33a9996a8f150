package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

const (
	FormatTSV      = "tsv"
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Formats lists the accepted values for Write's format argument.
var Formats = []string{FormatTSV, FormatTable, FormatMarkdown, FormatJSON}

// Write renders stats in the given format. Unknown formats fall back to tsv.
func Write(s *Stats, format string, w io.Writer) error {
	switch format {
	case FormatTable:
		return writeTable(s, w)
	case FormatMarkdown:
		return writeMarkdown(s, w)
	case FormatJSON:
		return writeJSON(s, w)
	default:
		return writeTSV(s, w)
	}
}

func tabSep(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "\t")
}

func column(s *Stats, f func(RunStats) int) []int {
	out := make([]int, len(s.Runs))
	for i, r := range s.Runs {
		out[i] = f(r)
	}
	return out
}

func writeTSV(s *Stats, w io.Writer) error {
	labels := make([]string, len(s.Runs))
	for i, r := range s.Runs {
		labels[i] = r.Label
	}
	th := s.Threshold
	lines := []string{
		fmt.Sprintf("Number of runs:%d", len(s.Runs)),
		"\t\t\t" + strings.Join(labels, "\t|"),
		"SAT:\t\t\t" + tabSep(column(s, func(r RunStats) int { return r.SolvedSAT })),
		"UNSAT:\t\t\t" + tabSep(column(s, func(r RunStats) int { return r.SolvedUNSAT })),
		fmt.Sprintf("Solved(%d):\t\t", s.NumInstances) + tabSep(column(s, func(r RunStats) int { return r.Solved })),
		"Total SAT time:\t\t" + tabSep(column(s, func(r RunStats) int { return r.SATTime })),
		"Total UNSAT time:\t" + tabSep(column(s, func(r RunStats) int { return r.UNSATTime })),
		"Total time:\t\t" + tabSep(column(s, func(r RunStats) int { return r.TotalTime })),
		fmt.Sprintf("<=%ds (SAT):\t\t", th) + tabSep(column(s, func(r RunStats) int { return r.EasySAT })),
		fmt.Sprintf("<=%ds (UNSAT):\t\t", th) + tabSep(column(s, func(r RunStats) int { return r.EasyUNSAT })),
		fmt.Sprintf("Total <=%d (SAT):\t%d", th, s.EasySATTotal),
		fmt.Sprintf("Total <=%d (UNSAT):\t%d", th, s.EasyUNSATTotal),
		"",
		"Simulations",
		"Simulation 1: Parallel Portfolio",
		fmt.Sprintf("SAT: %d", s.Portfolio.SolvedSAT),
		fmt.Sprintf("UNSAT: %d", s.Portfolio.SolvedUNSAT),
		fmt.Sprintf("Solved(%d): %d", s.NumInstances, s.Portfolio.Solved),
		fmt.Sprintf("Total SAT time: %d", s.Portfolio.SATTime),
		fmt.Sprintf("Total UNSAT time: %d", s.Portfolio.UNSATTime),
		fmt.Sprintf("Total time: %d", s.Portfolio.TotalTime),
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(s *Stats, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "RUN\tSAT\tUNSAT\tSOLVED(%d)\tSAT TIME\tUNSAT TIME\tTOTAL TIME\t<%ds SAT\t<%ds UNSAT\n",
		s.NumInstances, s.Threshold, s.Threshold)
	fmt.Fprintln(tw, strings.Repeat("-", 100))
	for _, r := range s.Runs {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Label, r.SolvedSAT, r.SolvedUNSAT, r.Solved, r.SATTime, r.UNSATTime, r.TotalTime, r.EasySAT, r.EasyUNSAT)
	}
	p := s.Portfolio
	fmt.Fprintf(tw, "portfolio\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
		p.SolvedSAT, p.SolvedUNSAT, p.Solved, p.SATTime, p.UNSATTime, p.TotalTime, s.EasySATTotal, s.EasyUNSATTotal)
	return tw.Flush()
}

func writeMarkdown(s *Stats, w io.Writer) error {
	fmt.Fprintf(w, "| Run | SAT | UNSAT | Solved (%d) | SAT time | UNSAT time | Total time | <%ds SAT | <%ds UNSAT |\n",
		s.NumInstances, s.Threshold, s.Threshold)
	fmt.Fprintln(w, "|---|---|---|---|---|---|---|---|---|")
	for _, r := range s.Runs {
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %d | %d | %d | %d |\n",
			r.Label, r.SolvedSAT, r.SolvedUNSAT, r.Solved, r.SATTime, r.UNSATTime, r.TotalTime, r.EasySAT, r.EasyUNSAT)
	}
	p := s.Portfolio
	_, err := fmt.Fprintf(w, "| portfolio | %d | %d | %d | %d | %d | %d | %d | %d |\n",
		p.SolvedSAT, p.SolvedUNSAT, p.Solved, p.SATTime, p.UNSATTime, p.TotalTime, s.EasySATTotal, s.EasyUNSATTotal)
	return err
}

func writeJSON(s *Stats, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
