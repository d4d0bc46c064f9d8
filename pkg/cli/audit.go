package cli

import (
	"fmt"
	"path/filepath"

	urfave "github.com/urfave/cli/v2"

	"github.com/pm10meta/auditctl/pkg/audit"
	"github.com/pm10meta/auditctl/pkg/data"
)

const datasetFileName = "audit_dataset.csv"

var (
	protocolFlag = &urfave.StringFlag{
		Name:     "protocol",
		Usage:    fmt.Sprintf("Validation protocol %v", audit.ValidationProtocols),
		Required: true,
	}

	scopeFlag = &urfave.StringFlag{
		Name:     "scope",
		Usage:    fmt.Sprintf("Preprocessing scope %v", audit.PreprocessingScopes),
		Required: true,
	}

	updatingFlag = &urfave.StringFlag{
		Name:     "updating",
		Usage:    fmt.Sprintf("Dynamic updating %v", audit.DynamicUpdatingValues),
		Required: true,
	}

	limitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Max number of records to list",
		Value: 100,
	}

	fileFlag = &urfave.StringFlag{
		Name:  "file",
		Usage: "Path to the CSV file",
	}

	auditCmd = &urfave.Command{
		Name:            "audit",
		HideHelpCommand: true,
		Usage:           "Score papers against the leakage rubric and maintain the audit dataset",
		Subcommands: []*urfave.Command{
			{
				Name:   "score",
				Usage:  "Derive the leakage risk score and band for one combination of rubric inputs",
				Flags:  []urfave.Flag{protocolFlag, scopeFlag, updatingFlag},
				Action: cmdAuditScore,
			},
			{
				Name:  "add",
				Usage: "Add (or update) one audited paper in the dataset",
				Flags: []urfave.Flag{
					&urfave.StringFlag{Name: "id", Usage: "Paper ID", Required: true},
					&urfave.StringFlag{Name: "author", Usage: "First author", Required: true},
					&urfave.IntFlag{Name: "year", Usage: "Publication year", Required: true},
					&urfave.StringFlag{Name: "title", Usage: "Paper title"},
					&urfave.StringFlag{Name: "journal", Usage: "Journal name"},
					&urfave.StringFlag{Name: "doi", Usage: "Paper DOI"},
					protocolFlag,
					scopeFlag,
					updatingFlag,
					&urfave.BoolFlag{Name: "baseline", Usage: "Paper compares against a persistence or other baseline"},
					&urfave.BoolFlag{Name: "skill", Usage: "Paper reports a skill score"},
					&urfave.StringFlag{Name: "notes", Usage: "Free-form audit notes"},
				},
				Action: cmdAuditAdd,
			},
			{
				Name:   "list",
				Usage:  "List audited papers",
				Flags:  []urfave.Flag{limitFlag},
				Action: cmdAuditList,
			},
			{
				Name:   "export",
				Usage:  "Export the dataset as the published fourteen-column CSV",
				Flags:  []urfave.Flag{fileFlag},
				Action: cmdAuditExport,
			},
			{
				Name:   "import",
				Usage:  "Import a fourteen-column CSV, re-deriving and checking every score",
				Flags:  []urfave.Flag{fileFlag},
				Action: cmdAuditImport,
			},
			{
				Name:   "check",
				Usage:  "Re-validate every stored record and print dataset state",
				Action: cmdAuditCheck,
			},
		},
	}
)

func cmdAuditScore(c *urfave.Context) error {
	p := audit.ValidationProtocol(c.String(protocolFlag.Name))
	s := audit.PreprocessingScope(c.String(scopeFlag.Name))
	d := audit.DynamicUpdating(c.String(updatingFlag.Name))

	if !p.IsValid() {
		return fmt.Errorf("unknown validation protocol %q", p)
	}
	if !s.IsValid() {
		return fmt.Errorf("unknown preprocessing scope %q", s)
	}
	if !d.IsValid() {
		return fmt.Errorf("unknown dynamic updating value %q", d)
	}

	score := audit.LeakageScore(p, s, d)
	return encode(map[string]any{
		"validation_protocol": p,
		"preprocessing_scope": s,
		"dynamic_updating":    d,
		"leakage_risk_score":  score,
		"risk_band":           audit.BandFor(score),
	})
}

func cmdAuditAdd(c *urfave.Context) error {
	cfg := getConfig(c)

	rec := &audit.Record{
		PaperID:            c.String("id"),
		Author:             c.String("author"),
		Year:               c.Int("year"),
		Title:              c.String("title"),
		Journal:            c.String("journal"),
		DOI:                c.String("doi"),
		Protocol:           audit.ValidationProtocol(c.String(protocolFlag.Name)),
		Scope:              audit.PreprocessingScope(c.String(scopeFlag.Name)),
		Updating:           audit.DynamicUpdating(c.String(updatingFlag.Name)),
		BaselineComparison: c.Bool("baseline"),
		SkillScoreReported: c.Bool("skill"),
		Notes:              c.String("notes"),
	}
	rec.Derive()

	if err := data.SaveRecord(cfg.DB, rec); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return encode(rec)
}

func cmdAuditList(c *urfave.Context) error {
	cfg := getConfig(c)

	recs, err := data.ListRecords(cfg.DB, c.Int(limitFlag.Name))
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}
	return encode(recs)
}

func cmdAuditExport(c *urfave.Context) error {
	cfg := getConfig(c)

	file := c.String(fileFlag.Name)
	if file == "" {
		file = filepath.Join(cfg.Conf.OutputDir, datasetFileName)
	}

	n, err := data.ExportCSVFile(cfg.DB, file)
	if err != nil {
		return fmt.Errorf("exporting dataset: %w", err)
	}
	return encode(map[string]any{"file": file, "records": n})
}

func cmdAuditImport(c *urfave.Context) error {
	cfg := getConfig(c)

	file := c.String(fileFlag.Name)
	if file == "" {
		return fmt.Errorf("--%s is required", fileFlag.Name)
	}

	n, err := data.ImportCSVFile(cfg.DB, file)
	if err != nil {
		return fmt.Errorf("importing dataset: %w", err)
	}
	return encode(map[string]any{"file": file, "records": n})
}

func cmdAuditCheck(c *urfave.Context) error {
	cfg := getConfig(c)

	n, err := data.CheckConsistency(cfg.DB)
	if err != nil {
		return fmt.Errorf("dataset inconsistent: %w", err)
	}

	state, err := data.GetDataState(cfg.DB)
	if err != nil {
		return fmt.Errorf("reading dataset state: %w", err)
	}
	state["checked"] = int64(n)

	return encode(state)
}
