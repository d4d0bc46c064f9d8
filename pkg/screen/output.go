package screen

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	ResultsFileName = "screening_results.csv"
	SummaryFileName = "prevalence_summary.txt"
)

var resultColumns = []string{"eid", "year", "task_declared", "validation_mentioned"}

// WriteResultsCSV writes per-paper classifications in the published layout.
func WriteResultsCSV(results []*Result, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.EID,
			strconv.Itoa(r.Year),
			strconv.FormatBool(r.TaskDeclared),
			strconv.FormatBool(r.ValidationMention),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", r.EID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes the human-readable prevalence summary.
func WriteSummary(s *Summary, w io.Writer) error {
	ratio := float64(s.TaskDeclared)
	if s.ValidationMentioned > 0 {
		ratio = float64(s.TaskDeclared) / float64(s.ValidationMentioned)
	}

	var b strings.Builder
	b.WriteString("Lexical Screening Results\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Total corpus:              %d\n", s.Total)
	fmt.Fprintf(&b, "Multi-step declarations:   %d (%.2f%%)\n", s.TaskDeclared, s.TaskPrevalence*100)
	fmt.Fprintf(&b, "  Wilson 95%% CI:           [%.2f%%, %.2f%%]\n", s.TaskCI.Lower*100, s.TaskCI.Upper*100)
	fmt.Fprintf(&b, "Validation mentions:       %d (%.2f%%)\n", s.ValidationMentioned, s.ValidationPrevalence*100)
	fmt.Fprintf(&b, "  Wilson 95%% CI:           [%.2f%%, %.2f%%]\n", s.ValidationCI.Lower*100, s.ValidationCI.Upper*100)
	fmt.Fprintf(&b, "Task:Validation ratio:     %d:%d (~%.0f:1)\n", s.TaskDeclared, s.ValidationMentioned, ratio)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteOutputs writes both study artifacts into dir.
func WriteOutputs(results []*Result, s *Summary, dir string) error {
	rf, err := os.Create(filepath.Join(dir, ResultsFileName))
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer rf.Close()
	if err := WriteResultsCSV(results, rf); err != nil {
		return err
	}

	sf, err := os.Create(filepath.Join(dir, SummaryFileName))
	if err != nil {
		return fmt.Errorf("creating summary file: %w", err)
	}
	defer sf.Close()
	return WriteSummary(s, sf)
}
