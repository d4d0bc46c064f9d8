// Package screen implements the lexical screening study: regex
// classification of multi-step task declarations and rigorous temporal
// validation mentions across the Scopus corpus, with Wilson confidence
// intervals on the resulting prevalences.
package screen

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Patterns from the study protocol (Section 2.2 and Supplementary
// Material A). The spellings are part of the published method.
var (
	taskPatterns = compileAll(
		`multi[-\s]?step`,
		`\d+[-\s]?(hour|day|step)[-\s]?ahead`,
		`extended[-\s]?horizon`,
		`\d+h\s+forecasting`,
	)

	validationPatterns = compileAll(
		`rolling[-\s]?origin`,
		`walk[-\s]?forward`,
		`expanding[-\s]?window`,
		`time[-\s]?series[-\s]?cross[-\s]?validation`,
		`sequential[-\s]?retraining`,
	)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(`(?i)` + p)
	}
	return res
}

// Paper is one corpus entry (title + abstract concatenated upstream).
type Paper struct {
	EID      string
	Title    string
	Abstract string
	Year     int
}

// Result is the binary classification for one paper.
type Result struct {
	EID               string `json:"eid"`
	Year              int    `json:"year"`
	TaskDeclared      bool   `json:"task_declared"`
	ValidationMention bool   `json:"validation_mentioned"`
}

// Summary holds the corpus-level prevalences with Wilson CIs.
type Summary struct {
	Total                int      `json:"total"`
	TaskDeclared         int      `json:"task_declared"`
	ValidationMentioned  int      `json:"validation_mentioned"`
	TaskPrevalence       float64  `json:"task_prevalence"`
	ValidationPrevalence float64  `json:"validation_prevalence"`
	TaskCI               Interval `json:"task_ci"`
	ValidationCI         Interval `json:"validation_ci"`
}

// Classify runs both pattern sets over the text. Pure function.
func Classify(text string) (task, validation bool) {
	lower := strings.ToLower(text)
	for _, re := range taskPatterns {
		if re.MatchString(lower) {
			task = true
			break
		}
	}
	for _, re := range validationPatterns {
		if re.MatchString(lower) {
			validation = true
			break
		}
	}
	return task, validation
}

// Run classifies the corpus on a worker pool and computes the summary.
// Results preserve corpus order.
func Run(ctx context.Context, corpus []*Paper) ([]*Result, *Summary, error) {
	results := make([]*Result, len(corpus))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, p := range corpus {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			task, validation := Classify(p.Title + " " + p.Abstract)
			results[i] = &Result{
				EID:               p.EID,
				Year:              p.Year,
				TaskDeclared:      task,
				ValidationMention: validation,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return results, Summarize(results), nil
}

// Summarize computes prevalences and Wilson 95% CIs over the results.
func Summarize(results []*Result) *Summary {
	s := &Summary{Total: len(results)}
	for _, r := range results {
		if r.TaskDeclared {
			s.TaskDeclared++
		}
		if r.ValidationMention {
			s.ValidationMentioned++
		}
	}
	if s.Total == 0 {
		return s
	}

	s.TaskPrevalence = float64(s.TaskDeclared) / float64(s.Total)
	s.ValidationPrevalence = float64(s.ValidationMentioned) / float64(s.Total)
	s.TaskCI = WilsonCI(s.TaskPrevalence, s.Total, defaultAlpha)
	s.ValidationCI = WilsonCI(s.ValidationPrevalence, s.Total, defaultAlpha)
	return s
}

const (
	// Corpus statistics reported in the paper: n=2,425 with 2.2% multi-step
	// declarations, 0.08% rigorous validation mentions.
	SyntheticCorpusSize = 2425
	syntheticTaskRate   = 0.022
	syntheticValidRate  = 0.0008

	DefaultSeed = 42
)

// SyntheticCorpus generates the seeded demonstration corpus used when no
// Scopus export is supplied: n papers, task positives at the reported
// prevalence, validation positives a subset of the task positives.
func SyntheticCorpus(n int, seed int64) []*Paper {
	rng := rand.New(rand.NewSource(seed))

	corpus := make([]*Paper, n)
	for i := range corpus {
		corpus[i] = &Paper{
			EID:   fmt.Sprintf("2-s2.0-%d", 85000000000+i),
			Title: fmt.Sprintf("Study %d", i),
			Year:  2000 + rng.Intn(27),
		}
	}

	// Round, don't truncate: at n=2425 the validation rate lands on 1.94
	// and truncation would drop one of the two published positives.
	nTask := int(math.Round(float64(n) * syntheticTaskRate))
	nValidation := int(math.Round(float64(n) * syntheticValidRate))

	taskIdx := rng.Perm(n)[:nTask]
	for _, i := range taskIdx {
		corpus[i].Abstract = "multi-step forecasting PM10 24-hour ahead"
	}
	for _, i := range taskIdx[:nValidation] {
		corpus[i].Abstract = "walk-forward validation PM10 forecasting"
	}

	return corpus
}

// LoadCorpus reads a Scopus export CSV (eid,title,abstract,year header).
func LoadCorpus(path string) ([]*Paper, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer file.Close()

	cr := csv.NewReader(file)
	cr.FieldsPerRecord = 4

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading corpus header: %w", err)
	}
	if header[0] != "eid" {
		return nil, fmt.Errorf("unexpected corpus header: %v", header)
	}

	corpus := make([]*Paper, 0)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading corpus row: %w", err)
		}
		year, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("parsing year %q for %s: %w", row[3], row[0], err)
		}
		corpus = append(corpus, &Paper{EID: row[0], Title: row[1], Abstract: row[2], Year: year})
	}
	return corpus, nil
}
