// Package verify implements the reproduction checks run before (and
// after) publication: environment, rubric self-test, and a full re-run of
// both analysis studies. Checks are ordered and fail fast; the first
// failure stops the run with a remediation hint.
package verify

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Check is one named verification step.
type Check struct {
	Name   string
	Run    func(ctx context.Context) error
	Remedy string
}

var (
	pass = color.New(color.FgGreen).SprintFunc()
	fail = color.New(color.FgRed).SprintFunc()
)

// Run executes the checks in order, printing one line per check. It
// returns the first failure, leaving later checks unrun.
func Run(ctx context.Context, w io.Writer, checks []Check) error {
	for _, c := range checks {
		if err := c.Run(ctx); err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", fail("✗"), c.Name, err)
			if c.Remedy != "" {
				fmt.Fprintf(w, "  to fix: %s\n", c.Remedy)
			}
			return fmt.Errorf("verification failed at %q: %w", c.Name, err)
		}
		fmt.Fprintf(w, "%s %s\n", pass("✓"), c.Name)
	}

	fmt.Fprintf(w, "\n%s all %d checks passed\n", pass("✓"), len(checks))
	return nil
}
