package data

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pm10meta/auditctl/pkg/audit"
)

const exportLimit = 100000

// ExportCSV writes the stored dataset to w in the published fourteen-column
// layout, header first.
func ExportCSV(db *sql.DB, w io.Writer) (int, error) {
	recs, err := ListRecords(db, exportLimit)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(audit.Columns); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}
	for _, r := range recs {
		if err := cw.Write(r.Row()); err != nil {
			return 0, fmt.Errorf("writing record %s: %w", r.PaperID, err)
		}
	}
	cw.Flush()
	return len(recs), cw.Error()
}

// ExportCSVFile writes the dataset to path, replacing any existing file.
func ExportCSVFile(db *sql.DB, path string) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	n, err := ExportCSV(db, file)
	if err != nil {
		return 0, err
	}
	slog.Debug("exported dataset", "path", path, "records", n)
	return n, nil
}

// ImportCSV loads records from r (published layout with header) and saves
// them in one transaction. Every row is re-validated against the rubric on
// the way in.
func ImportCSV(db *sql.DB, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(audit.Columns)

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("reading header: %w", err)
	}
	for i, col := range audit.Columns {
		if header[i] != col {
			return 0, fmt.Errorf("column %d: expected %q, got %q", i, col, header[i])
		}
	}

	recs := make([]*audit.Record, 0)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading row: %w", err)
		}
		rec, err := audit.ParseRow(row)
		if err != nil {
			return 0, err
		}
		recs = append(recs, rec)
	}

	if err := SaveRecords(db, recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// ImportCSVFile loads records from the file at path.
func ImportCSVFile(db *sql.DB, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()
	return ImportCSV(db, file)
}
