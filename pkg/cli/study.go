package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	urfave "github.com/urfave/cli/v2"

	"github.com/pm10meta/auditctl/pkg/bench"
	"github.com/pm10meta/auditctl/pkg/screen"
)

var (
	dirFlag = &urfave.StringFlag{
		Name:  "dir",
		Usage: "Directory for study outputs (default: configured output_dir)",
	}

	corpusFlag = &urfave.StringFlag{
		Name:  "corpus",
		Usage: "Path to a corpus CSV (eid,title,abstract,year); synthetic corpus when omitted",
	}

	screenCmd = &urfave.Command{
		Name:            "screen",
		HideHelpCommand: true,
		Usage:           "Run the title and abstract screening study and write its outputs",
		Flags:           []urfave.Flag{dirFlag, corpusFlag},
		Action:          cmdScreen,
	}

	benchCmd = &urfave.Command{
		Name:            "bench",
		HideHelpCommand: true,
		Usage:           "Run the H* predictability benchmark and write results and figure",
		Flags: []urfave.Flag{
			dirFlag,
			&urfave.IntFlag{Name: "hours", Usage: "Series length in hours", Value: bench.DefaultConfig().Hours},
			&urfave.Int64Flag{Name: "seed", Usage: "Random seed", Value: bench.DefaultConfig().Seed},
		},
		Action: cmdBench,
	}
)

func outputDir(c *urfave.Context) string {
	if d := c.String(dirFlag.Name); d != "" {
		return d
	}
	return getConfig(c).Conf.OutputDir
}

func cmdScreen(c *urfave.Context) error {
	cfg := getConfig(c)

	corpusPath := c.String(corpusFlag.Name)
	if corpusPath == "" {
		corpusPath = cfg.Conf.CorpusCSV
	}

	var corpus []*screen.Paper
	if corpusPath == "" {
		slog.Info("no corpus configured, using seeded synthetic corpus",
			"papers", screen.SyntheticCorpusSize, "seed", screen.DefaultSeed)
		corpus = screen.SyntheticCorpus(screen.SyntheticCorpusSize, screen.DefaultSeed)
	} else {
		var err error
		if corpus, err = screen.LoadCorpus(corpusPath); err != nil {
			return fmt.Errorf("loading corpus: %w", err)
		}
		slog.Info("corpus loaded", "path", corpusPath, "papers", len(corpus))
	}

	results, summary, err := screen.Run(c.Context, corpus)
	if err != nil {
		return fmt.Errorf("running screening study: %w", err)
	}

	dir := outputDir(c)
	if err := screen.WriteOutputs(results, summary, dir); err != nil {
		return fmt.Errorf("writing screening outputs: %w", err)
	}

	slog.Info("screening outputs written",
		"results", filepath.Join(dir, screen.ResultsFileName),
		"summary", filepath.Join(dir, screen.SummaryFileName))
	return encode(summary)
}

func cmdBench(c *urfave.Context) error {
	cfg := bench.DefaultConfig()
	cfg.Hours = c.Int("hours")
	cfg.Seed = c.Int64("seed")

	comparison, err := bench.Run(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("running benchmark: %w", err)
	}

	dir := outputDir(c)
	resultsPath := filepath.Join(dir, bench.ResultsFileName)
	figurePath := filepath.Join(dir, bench.FigureFileName)

	if err := bench.WriteResultsFile(comparison, resultsPath); err != nil {
		return fmt.Errorf("writing benchmark results: %w", err)
	}
	if err := bench.WriteFigure(comparison, figurePath); err != nil {
		return fmt.Errorf("writing benchmark figure: %w", err)
	}

	slog.Info("benchmark outputs written", "results", resultsPath, "figure", figurePath)
	return encode(map[string]any{
		"hstar_static":  comparison.HStarStatic,
		"hstar_rolling": comparison.HStarRolling,
		"results":       resultsPath,
		"figure":        figurePath,
	})
}
