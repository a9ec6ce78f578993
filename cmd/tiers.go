package cmd

import (
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/nextitem/internal/ui/components"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Show how a corpus is currently stratified for a learner",
	RunE:  runTiers,
}

func init() {
	unitFlags(tiersCmd)
	tiersCmd.Flags().Int("prior-context", 0, "Number of recent context tags to show as avoided (default from config)")
	tiersCmd.Flags().Int("width", 72, "Output width")
}

func runTiers(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	req := requestFromFlags(cmd)
	req.PriorContextCount = rt.cfg.Selection.PriorContextCount
	if cmd.Flags().Changed("prior-context") {
		req.PriorContextCount, _ = cmd.Flags().GetInt("prior-context")
	}

	p, err := rt.service(nil).Preview(cmd.Context(), req)
	if err != nil {
		return err
	}

	width, _ := cmd.Flags().GetInt("width")
	lipgloss.Print(components.NewTierTable(p, width).View())
	return nil
}
