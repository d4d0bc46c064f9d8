package verify

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pm10meta/auditctl/pkg/audit"
	"github.com/pm10meta/auditctl/pkg/bench"
	"github.com/pm10meta/auditctl/pkg/data"
	"github.com/pm10meta/auditctl/pkg/screen"
)

// RubricSelfTest re-derives every input combination against an
// independent computation of the three indicators, plus the published
// worked example.
func RubricSelfTest(context.Context) error {
	for _, p := range audit.ValidationProtocols {
		for _, s := range audit.PreprocessingScopes {
			for _, d := range audit.DynamicUpdatingValues {
				want := 0
				if p == audit.ProtocolRandomSplit {
					want++
				}
				if s == audit.ScopeGlobalOrTestInclusive || s == audit.ScopeAmbiguous {
					want++
				}
				if d == audit.UpdatingNo {
					want++
				}

				got := audit.LeakageScore(p, s, d)
				if got != want {
					return fmt.Errorf("rubric disagrees at (%s, %s, %s): got %d, want %d", p, s, d, got, want)
				}
				if got < 0 || got > 3 {
					return fmt.Errorf("score %d out of range at (%s, %s, %s)", got, p, s, d)
				}
			}
		}
	}

	if ex := audit.ExampleRecord(); ex.LeakageRiskScore != 2 || ex.Band != audit.BandModerate {
		return fmt.Errorf("worked example C1 derives (%d, %s), want (2, moderate)", ex.LeakageRiskScore, ex.Band)
	}
	return nil
}

// ScreeningReruns runs the full screening study into dir and confirms
// both outputs appear non-empty.
func ScreeningReruns(dir string) Check {
	return Check{
		Name: "screening study re-runs",
		Run: func(ctx context.Context) error {
			corpus := screen.SyntheticCorpus(screen.SyntheticCorpusSize, screen.DefaultSeed)
			results, summary, err := screen.Run(ctx, corpus)
			if err != nil {
				return err
			}
			if err := screen.WriteOutputs(results, summary, dir); err != nil {
				return err
			}
			return filesNonEmpty(dir, screen.ResultsFileName, screen.SummaryFileName)
		},
		Remedy: "run 'auditctl screen' directly for the full error output",
	}
}

// BenchmarkReruns runs a reduced benchmark (quarter-length series, short
// training window) into dir and confirms both outputs appear non-empty.
func BenchmarkReruns(dir string) Check {
	return Check{
		Name: "benchmark study re-runs",
		Run: func(ctx context.Context) error {
			cfg := bench.DefaultConfig()
			cfg.Hours = cfg.Hours / 4
			cfg.MinTrain = cfg.Hours / 2
			cfg.Step = cfg.Step * 4

			c, err := bench.Run(ctx, cfg)
			if err != nil {
				return err
			}
			if err := bench.WriteResultsFile(c, filepath.Join(dir, bench.ResultsFileName)); err != nil {
				return err
			}
			if err := bench.WriteFigure(c, filepath.Join(dir, bench.FigureFileName)); err != nil {
				return err
			}
			return filesNonEmpty(dir, bench.ResultsFileName, bench.FigureFileName)
		},
		Remedy: "run 'auditctl bench' directly for the full error output",
	}
}

// BundleFilesExist confirms every configured bundle file is present.
func BundleFilesExist(baseDir string, names []string) Check {
	return Check{
		Name: "bundle files present",
		Run: func(context.Context) error {
			return filesNonEmpty(baseDir, names...)
		},
		Remedy: "regenerate missing outputs (auditctl screen / bench / workbook / audit export)",
	}
}

// DatasetConsistent re-validates every stored record against the rubric.
func DatasetConsistent(db *sql.DB) Check {
	return Check{
		Name: "audit dataset consistent",
		Run: func(context.Context) error {
			// An empty working copy is fine pre-audit; only stored rows
			// that contradict the rubric fail.
			_, err := data.CheckConsistency(db)
			return err
		},
		Remedy: "re-derive scores with 'auditctl audit import' of the corrected dataset",
	}
}

func filesNonEmpty(dir string, names ...string) error {
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("expected output %s missing: %w", name, err)
		}
		if info.Size() == 0 {
			return fmt.Errorf("expected output %s is empty", name)
		}
	}
	return nil
}
