package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

const (
	ResultsFileName = "hstar_results.csv"
	FigureFileName  = "figure4_hstar_comparison.png"
)

var resultColumns = []string{
	"horizon_h", "static_skill", "rolling_skill", "static_rmse", "rolling_rmse", "inflation_pct",
}

// WriteResultsCSV writes the per-horizon comparison table. Horizons absent
// from a protocol (series too short) render as empty cells.
func WriteResultsCSV(c *Comparison, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, h := range c.Horizons {
		s, hasStatic := c.Static[h]
		r, hasRolling := c.Rolling[h]

		row := []string{
			strconv.Itoa(h),
			formatOpt(s.Skill, hasStatic),
			formatOpt(r.Skill, hasRolling),
			formatOpt(s.RMSE, hasStatic),
			formatOpt(r.RMSE, hasRolling),
			formatInflation(s, r, hasStatic && hasRolling),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing horizon %d: %w", h, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResultsFile writes the comparison table to path.
func WriteResultsFile(c *Comparison, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()
	return WriteResultsCSV(c, file)
}

func formatOpt(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// formatInflation is the skill inflation of the leaky protocol over the
// causal one, in percent.
func formatInflation(s, r HorizonResult, ok bool) string {
	if !ok || r.Skill == 0 || math.IsNaN(r.Skill) {
		return ""
	}
	return strconv.FormatFloat((s.Skill/r.Skill-1)*100, 'f', 1, 64)
}
