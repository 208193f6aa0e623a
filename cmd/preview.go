package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizsmith/internal/tui"
)

var previewCmd = &cobra.Command{
	Use:   "preview <template-id-or-file>",
	Short: "Interactively preview instances of a template",
	Long: `Generate instances of a template one at a time and answer them interactively.

This is a stateless authoring tool for evaluating template quality: nothing is
recorded, and generation diagnostics are shown inline.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	tpl, err := resolveTemplate(cfg, args[0])
	if err != nil {
		return err
	}
	return tui.Run(tpl, newGenerator(cmd, cfg, tpl, log))
}
