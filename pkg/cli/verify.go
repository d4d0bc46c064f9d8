package cli

import (
	"context"
	"fmt"
	"os"

	urfave "github.com/urfave/cli/v2"

	"github.com/pm10meta/auditctl/pkg/publish"
	"github.com/pm10meta/auditctl/pkg/verify"
)

var (
	skipStudiesFlag = &urfave.BoolFlag{
		Name:  "skip-studies",
		Usage: "Skip re-running the two analysis studies",
	}

	verifyCmd = &urfave.Command{
		Name:            "verify",
		HideHelpCommand: true,
		Usage:           "Check config, credentials, rubric, studies, and bundle before publishing",
		Flags:           []urfave.Flag{skipStudiesFlag},
		Action:          cmdVerify,
	}
)

func cmdVerify(c *urfave.Context) error {
	cfg := getConfig(c)

	scratch, err := os.MkdirTemp("", "auditctl-verify-*")
	if err != nil {
		return fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	checks := []verify.Check{
		{
			Name: "config valid",
			Run: func(context.Context) error {
				return cfg.Conf.Validate()
			},
			Remedy: "edit config.yaml in " + cfg.HomeDir,
		},
		{
			Name: "github token valid",
			Run: func(ctx context.Context) error {
				token, err := getGitHubToken(cfg.HomeDir)
				if err != nil {
					return err
				}
				login, err := publish.NewClient(ctx, token).AuthenticatedUser(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("  authenticated as %s\n", login)
				return nil
			},
			Remedy: "run 'auditctl auth' to obtain a token",
		},
		{
			Name:   "rubric self-test",
			Run:    verify.RubricSelfTest,
			Remedy: "the rubric implementation disagrees with its definition, do not publish",
		},
	}

	if !c.Bool(skipStudiesFlag.Name) {
		checks = append(checks,
			verify.ScreeningReruns(scratch),
			verify.BenchmarkReruns(scratch),
		)
	}

	checks = append(checks,
		verify.BundleFilesExist(cfg.Conf.OutputDir, cfg.Conf.Publish.Files),
		verify.DatasetConsistent(cfg.DB),
	)

	return verify.Run(c.Context, os.Stdout, checks)
}
