package cli

import (
	"fmt"
	"strings"

	urfave "github.com/urfave/cli/v2"

	"github.com/pm10meta/auditctl/pkg/publish"
)

var (
	tagFlag = &urfave.StringFlag{
		Name:  "tag",
		Usage: "Release tag (default: configured publish.tag)",
	}

	yesFlag = &urfave.BoolFlag{
		Name:  "yes",
		Usage: "Skip the confirmation prompt",
	}

	publishCmd = &urfave.Command{
		Name:            "publish",
		HideHelpCommand: true,
		Usage:           "Commit the bundle to GitHub and cut the archival release",
		Flags:           []urfave.Flag{tagFlag, yesFlag},
		Action:          cmdPublish,
	}
)

func cmdPublish(c *urfave.Context) error {
	cfg := getConfig(c)

	if err := cfg.Conf.Validate(); err != nil {
		return fmt.Errorf("config not ready to publish: %w", err)
	}

	opts := &publish.Options{
		Owner:        cfg.Conf.Publish.Owner,
		Repo:         cfg.Conf.Publish.Repo,
		Branch:       cfg.Conf.Publish.Branch,
		Tag:          cfg.Conf.Publish.Tag,
		ReleaseTitle: cfg.Conf.Publish.ReleaseTitle,
		ReleaseNotes: cfg.Conf.Publish.ReleaseNotes,
	}
	if tag := c.String(tagFlag.Name); tag != "" {
		opts.Tag = tag
	}

	bundle, err := publish.LoadBundle(cfg.Conf.OutputDir, cfg.Conf.Publish.Files)
	if err != nil {
		return fmt.Errorf("loading bundle: %w", err)
	}

	fmt.Printf("Publishing %d files (%d bytes) to %s/%s as release %s\n",
		len(bundle.Files), bundle.TotalSize(), opts.Owner, opts.Repo, opts.Tag)

	if !c.Bool(yesFlag.Name) {
		fmt.Print("Continue? [y/N]: ")
		var answer string
		fmt.Scanln(&answer)
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	token, err := getGitHubToken(cfg.HomeDir)
	if err != nil {
		return fmt.Errorf("no GitHub token, run 'auditctl auth' first: %w", err)
	}

	client := publish.NewClient(c.Context, token)
	result, err := publish.Run(c.Context, client, opts, bundle)
	if err != nil {
		return fmt.Errorf("publishing: %w", err)
	}

	return encode(result)
}
