package data

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pm10meta/auditctl/pkg/audit"
)

const (
	insertPaperSQL = `INSERT INTO paper (
			paper_id, author, year, title, journal, doi,
			validation_protocol, preprocessing_scope, dynamic_updating,
			leakage_risk_score, risk_band,
			baseline_comparison, skill_score_reported, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(paper_id) DO UPDATE SET
			author = excluded.author,
			year = excluded.year,
			title = excluded.title,
			journal = excluded.journal,
			doi = excluded.doi,
			validation_protocol = excluded.validation_protocol,
			preprocessing_scope = excluded.preprocessing_scope,
			dynamic_updating = excluded.dynamic_updating,
			leakage_risk_score = excluded.leakage_risk_score,
			risk_band = excluded.risk_band,
			baseline_comparison = excluded.baseline_comparison,
			skill_score_reported = excluded.skill_score_reported,
			notes = excluded.notes
	`

	selectPaperSQL = `SELECT paper_id, author, year, title, journal, doi,
			validation_protocol, preprocessing_scope, dynamic_updating,
			leakage_risk_score, risk_band,
			baseline_comparison, skill_score_reported, notes
		FROM paper
	`

	selectPaperByIDSQL = selectPaperSQL + ` WHERE paper_id = ?`

	listPapersSQL = selectPaperSQL + ` ORDER BY paper_id LIMIT ?`
)

var stateQueries = map[string]string{
	"papers":     "SELECT COUNT(*) FROM paper",
	"high_risk":  "SELECT COUNT(*) FROM paper WHERE leakage_risk_score = 3",
	"zero_risk":  "SELECT COUNT(*) FROM paper WHERE leakage_risk_score = 0",
	"with_doi":   "SELECT COUNT(*) FROM paper WHERE doi != ''",
	"year_range": "SELECT COALESCE(MAX(year) - MIN(year), 0) FROM paper",
}

// SaveRecord upserts a single validated record.
func SaveRecord(db *sql.DB, r *audit.Record) error {
	if db == nil {
		return errDBNotInitialized
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid record: %w", err)
	}

	if _, err := db.Exec(insertPaperSQL, recordArgs(r)...); err != nil {
		return fmt.Errorf("inserting record %s: %w", r.PaperID, err)
	}
	return nil
}

// SaveRecords upserts a batch in a single transaction. The whole batch is
// rejected on the first invalid record.
func SaveRecords(db *sql.DB, recs []*audit.Record) error {
	if db == nil {
		return errDBNotInitialized
	}

	for _, r := range recs {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("refusing to save invalid record: %w", err)
		}
	}

	stmt, err := db.Prepare(insertPaperSQL)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting record tx: %w", err)
	}

	for _, r := range recs {
		if _, err := tx.Stmt(stmt).Exec(recordArgs(r)...); err != nil {
			rollbackTransaction(tx)
			return fmt.Errorf("inserting record %s: %w", r.PaperID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing record tx: %w", err)
	}

	slog.Debug("saved records", "count", len(recs))
	return nil
}

func GetRecord(db *sql.DB, paperID string) (*audit.Record, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if paperID == "" {
		return nil, fmt.Errorf("paperID is required")
	}

	row := db.QueryRow(selectPaperByIDSQL, paperID)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no record for paper_id %s", paperID)
	}
	return r, err
}

func ListRecords(db *sql.DB, limit int) ([]*audit.Record, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(listPapersSQL, limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	list := make([]*audit.Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// CheckConsistency re-validates every stored row against the rubric,
// catching scores or bands edited outside Derive. Returns the number of
// rows checked.
func CheckConsistency(db *sql.DB) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	rows, err := db.Query(selectPaperSQL)
	if err != nil {
		return 0, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	checked := 0
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return checked, err
		}
		if err := r.Validate(); err != nil {
			return checked, fmt.Errorf("dataset inconsistent: %w", err)
		}
		checked++
	}
	return checked, rows.Err()
}

// GetDataState returns summary counts of the stored dataset.
func GetDataState(db *sql.DB) (map[string]int64, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	state := make(map[string]int64)
	for k, q := range stateQueries {
		var count int64
		if err := db.QueryRow(q).Scan(&count); err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("getting %s count: %w", k, err)
		}
		state[k] = count
	}
	return state, nil
}

func recordArgs(r *audit.Record) []any {
	return []any{
		r.PaperID, r.Author, r.Year, r.Title, r.Journal, r.DOI,
		string(r.Protocol), string(r.Scope), string(r.Updating),
		r.LeakageRiskScore, string(r.Band),
		boolToInt(r.BaselineComparison), boolToInt(r.SkillScoreReported), r.Notes,
	}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*audit.Record, error) {
	var r audit.Record
	var protocol, scope, updating, band string
	var baseline, skill int

	err := row.Scan(
		&r.PaperID, &r.Author, &r.Year, &r.Title, &r.Journal, &r.DOI,
		&protocol, &scope, &updating,
		&r.LeakageRiskScore, &band,
		&baseline, &skill, &r.Notes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning record row: %w", err)
	}

	r.Protocol = audit.ValidationProtocol(protocol)
	r.Scope = audit.PreprocessingScope(scope)
	r.Updating = audit.DynamicUpdating(updating)
	r.Band = audit.RiskBand(band)
	r.BaselineComparison = baseline != 0
	r.SkillScoreReported = skill != 0

	return &r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
