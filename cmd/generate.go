package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <template-id-or-file>",
	Short: "Generate question instances from a template",
	Long: `Resolve a template's variables and print the resulting question instances.

The argument is either a template ID looked up in the template directory, or a
path to a template JSON document. Pass --seed for reproducible output.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("count", 1, "Number of instances to generate")
	generateCmd.Flags().Bool("json", false, "Emit instances as JSON instead of text")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	tpl, err := resolveTemplate(cfg, args[0])
	if err != nil {
		return err
	}

	count, _ := cmd.Flags().GetInt("count")
	asJSON, _ := cmd.Flags().GetBool("json")
	gen := newGenerator(cmd, cfg, tpl, log)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for i := 0; i < count; i++ {
		inst, diags := gen.Instantiate(tpl)
		if asJSON {
			if err := enc.Encode(inst); err != nil {
				return err
			}
			continue
		}
		fmt.Printf("── %s (%d/%d) ──\n", tpl.ID, i+1, count)
		fmt.Println("Q:", inst.Question)
		fmt.Println("A:", inst.Answer)
		for _, d := range diags {
			fmt.Printf("! %s: %s\n", d.Variable, d.Reason)
		}
		fmt.Println()
	}
	return nil
}
