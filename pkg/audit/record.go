package audit

import (
	"fmt"
	"strconv"
)

// Columns is the published fourteen-column layout of the audit sheet, in
// order. Reimplementations must preserve these literal names.
var Columns = []string{
	"paper_id",
	"author",
	"year",
	"title",
	"journal",
	"doi",
	"validation_protocol",
	"preprocessing_scope",
	"dynamic_updating",
	"leakage_risk_score",
	"risk_band",
	"baseline_comparison",
	"skill_score_reported",
	"notes",
}

// Record is one audited paper. Records are created once during full-text
// review and never mutated afterward except by the derived-score
// computation.
type Record struct {
	PaperID            string             `json:"paper_id" yaml:"paper_id"`
	Author             string             `json:"author" yaml:"author"`
	Year               int                `json:"year" yaml:"year"`
	Title              string             `json:"title,omitempty" yaml:"title,omitempty"`
	Journal            string             `json:"journal" yaml:"journal"`
	DOI                string             `json:"doi" yaml:"doi"`
	Protocol           ValidationProtocol `json:"validation_protocol" yaml:"validation_protocol"`
	Scope              PreprocessingScope `json:"preprocessing_scope" yaml:"preprocessing_scope"`
	Updating           DynamicUpdating    `json:"dynamic_updating" yaml:"dynamic_updating"`
	LeakageRiskScore   int                `json:"leakage_risk_score" yaml:"leakage_risk_score"`
	Band               RiskBand           `json:"risk_band" yaml:"risk_band"`
	BaselineComparison bool               `json:"baseline_comparison" yaml:"baseline_comparison"`
	SkillScoreReported bool               `json:"skill_score_reported" yaml:"skill_score_reported"`
	Notes              string             `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Derive sets the leakage risk score and band from the three rubric inputs.
// The score is never set any other way.
func (r *Record) Derive() {
	r.LeakageRiskScore = LeakageScore(r.Protocol, r.Scope, r.Updating)
	r.Band = BandFor(r.LeakageRiskScore)
}

// Validate checks that required fields are populated, the enum fields carry
// published spellings, and the stored score matches its derivation.
func (r *Record) Validate() error {
	if r.PaperID == "" {
		return fmt.Errorf("record missing paper_id")
	}
	if r.Author == "" {
		return fmt.Errorf("record %s: missing author", r.PaperID)
	}
	if r.Year == 0 {
		return fmt.Errorf("record %s: missing year", r.PaperID)
	}
	if !r.Protocol.IsValid() {
		return fmt.Errorf("record %s: unknown validation_protocol %q", r.PaperID, r.Protocol)
	}
	if !r.Scope.IsValid() {
		return fmt.Errorf("record %s: unknown preprocessing_scope %q", r.PaperID, r.Scope)
	}
	if !r.Updating.IsValid() {
		return fmt.Errorf("record %s: unknown dynamic_updating %q", r.PaperID, r.Updating)
	}
	if want := LeakageScore(r.Protocol, r.Scope, r.Updating); r.LeakageRiskScore != want {
		return fmt.Errorf("record %s: stored leakage_risk_score %d, rubric derives %d",
			r.PaperID, r.LeakageRiskScore, want)
	}
	if want := BandFor(r.LeakageRiskScore); r.Band != want {
		return fmt.Errorf("record %s: stored risk_band %q, rubric derives %q",
			r.PaperID, r.Band, want)
	}
	return nil
}

// Row renders the record as its published fourteen-column row.
func (r *Record) Row() []string {
	return []string{
		r.PaperID,
		r.Author,
		strconv.Itoa(r.Year),
		r.Title,
		r.Journal,
		r.DOI,
		string(r.Protocol),
		string(r.Scope),
		string(r.Updating),
		strconv.Itoa(r.LeakageRiskScore),
		string(r.Band),
		formatBool(r.BaselineComparison),
		formatBool(r.SkillScoreReported),
		r.Notes,
	}
}

// ParseRow builds a record from a published fourteen-column row and
// re-derives the score, erroring if the stored value disagrees.
func ParseRow(row []string) (*Record, error) {
	if len(row) != len(Columns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(Columns), len(row))
	}

	year, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, fmt.Errorf("parsing year %q: %w", row[2], err)
	}

	r := &Record{
		PaperID:            row[0],
		Author:             row[1],
		Year:               year,
		Title:              row[3],
		Journal:            row[4],
		DOI:                row[5],
		Protocol:           ValidationProtocol(row[6]),
		Scope:              PreprocessingScope(row[7]),
		Updating:           DynamicUpdating(row[8]),
		Band:               RiskBand(row[10]),
		BaselineComparison: parseBool(row[11]),
		SkillScoreReported: parseBool(row[12]),
		Notes:              row[13],
	}

	r.LeakageRiskScore, err = strconv.Atoi(row[9])
	if err != nil {
		return nil, fmt.Errorf("parsing leakage_risk_score %q: %w", row[9], err)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseBool(s string) bool {
	return s == "yes" || s == "true" || s == "1"
}

// ExampleRecord is the completed worked example published on the third
// workbook sheet: paper C1, the moderate-risk combination.
func ExampleRecord() *Record {
	r := &Record{
		PaperID:            "C1",
		Author:             "Example et al.",
		Year:               2021,
		Title:              "Multi-step PM10 forecasting with recurrent networks",
		Journal:            "Atmospheric Environment",
		DOI:                "10.1000/example.2021.001",
		Protocol:           ProtocolStaticChronological,
		Scope:              ScopeAmbiguous,
		Updating:           UpdatingNo,
		BaselineComparison: true,
		SkillScoreReported: false,
		Notes:              "Scaler fit not described; single 80/20 chronological split.",
	}
	r.Derive()
	return r
}
