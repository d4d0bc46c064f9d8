package cli

import (
	"fmt"
	"path/filepath"

	urfave "github.com/urfave/cli/v2"

	"github.com/pm10meta/auditctl/pkg/workbook"
)

const workbookFileName = "audit_form.xlsx"

var workbookCmd = &urfave.Command{
	Name:            "workbook",
	HideHelpCommand: true,
	Usage:           "Generate the three-sheet audit form workbook",
	Flags: []urfave.Flag{
		&urfave.StringFlag{
			Name:  "out",
			Usage: "Workbook file path (default: audit_form.xlsx in output_dir)",
		},
	},
	Action: cmdWorkbook,
}

func cmdWorkbook(c *urfave.Context) error {
	out := c.String("out")
	if out == "" {
		out = filepath.Join(getConfig(c).Conf.OutputDir, workbookFileName)
	}

	if err := workbook.WriteFile(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return encode(map[string]string{"file": out})
}
