// Package workbook generates the three-sheet xlsx audit form handed to
// raters: the entry sheet with dropdown-validated enum columns, the fixed
// rubric reference sheet, and a completed worked example.
package workbook

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/pm10meta/auditctl/pkg/audit"
)

const (
	SheetAudit   = "audit"
	SheetRubric  = "rubric"
	SheetExample = "example"

	// Rows covered by dropdown validation on the entry sheet.
	entryRows = 500
)

// Build assembles the workbook in memory.
func Build() (*excelize.File, error) {
	f := excelize.NewFile()

	if err := buildAuditSheet(f); err != nil {
		return nil, fmt.Errorf("building %s sheet: %w", SheetAudit, err)
	}
	if err := buildRubricSheet(f); err != nil {
		return nil, fmt.Errorf("building %s sheet: %w", SheetRubric, err)
	}
	if err := buildExampleSheet(f); err != nil {
		return nil, fmt.Errorf("building %s sheet: %w", SheetExample, err)
	}

	// Drop the default sheet and land the rater on the entry sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(SheetAudit)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	return f, nil
}

// WriteFile writes the workbook to path.
func WriteFile(path string) error {
	f, err := Build()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	slog.Debug("workbook written", "path", path)
	return nil
}

// Write streams the workbook to w.
func Write(w io.Writer) error {
	f, err := Build()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func buildAuditSheet(f *excelize.File) error {
	if _, err := f.NewSheet(SheetAudit); err != nil {
		return err
	}

	if err := writeHeader(f, SheetAudit); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetAudit, "A", "N", 22); err != nil {
		return err
	}

	// Dropdowns on the three enum columns and the two boolean columns.
	drops := []struct {
		col    string
		values []string
	}{
		{"G", enumStrings(audit.ValidationProtocols)},
		{"H", enumStrings(audit.PreprocessingScopes)},
		{"I", enumStrings(audit.DynamicUpdatingValues)},
		{"L", []string{"yes", "no"}},
		{"M", []string{"yes", "no"}},
	}
	for _, d := range drops {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s%d", d.col, d.col, entryRows+1)
		if err := dv.SetDropList(d.values); err != nil {
			return err
		}
		if err := f.AddDataValidation(SheetAudit, dv); err != nil {
			return err
		}
	}

	return freezeHeader(f, SheetAudit)
}

func buildRubricSheet(f *excelize.File) error {
	if _, err := f.NewSheet(SheetRubric); err != nil {
		return err
	}

	rows := [][]any{
		{"Leakage risk rubric"},
		{},
		{"Indicator", "Condition"},
	}
	for _, ind := range audit.RubricIndicators {
		rows = append(rows, []any{ind.Indicator, ind.Condition})
	}
	rows = append(rows,
		[]any{},
		[]any{"leakage_risk_score = sum of the three indicators (0-3)"},
		[]any{},
		[]any{"Score", "Risk band"},
		[]any{0, string(audit.BandMinimal)},
		[]any{1, string(audit.BandLow)},
		[]any{2, string(audit.BandModerate)},
		[]any{3, string(audit.BandHigh)},
	)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetRubric, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(SheetRubric, "A", "B", 48)
}

func buildExampleSheet(f *excelize.File) error {
	if _, err := f.NewSheet(SheetExample); err != nil {
		return err
	}

	if err := writeHeader(f, SheetExample); err != nil {
		return err
	}

	row := make([]any, 0, len(audit.Columns))
	for _, v := range audit.ExampleRecord().Row() {
		row = append(row, v)
	}
	if err := f.SetSheetRow(SheetExample, "A2", &row); err != nil {
		return err
	}

	return f.SetColWidth(SheetExample, "A", "N", 22)
}

func writeHeader(f *excelize.File, sheet string) error {
	header := make([]any, 0, len(audit.Columns))
	for _, c := range audit.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", "N1", style)
}

func freezeHeader(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
