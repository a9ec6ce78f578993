package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/nextitem/internal/selection"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select the next item for a learner",
	RunE:  runSelect,
}

func init() {
	unitFlags(selectCmd)
	selectCmd.Flags().String("session", "", "Session ID (generated when omitted)")
	selectCmd.Flags().Int("prior-context", 0, "Number of recent context tags to avoid (default from config)")
	selectCmd.Flags().Bool("quiet", false, "Print only the item ID")
}

func runSelect(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	req := requestFromFlags(cmd)
	req.SessionID, _ = cmd.Flags().GetString("session")
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	req.PriorContextCount = rt.cfg.Selection.PriorContextCount
	if cmd.Flags().Changed("prior-context") {
		req.PriorContextCount, _ = cmd.Flags().GetInt("prior-context")
	}

	res, err := rt.service(nil).SelectNextItem(cmd.Context(), req)
	if err != nil {
		return err
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		fmt.Println(res.ItemID)
		return nil
	}

	fmt.Printf("item:        %s\n", res.ItemID)
	fmt.Printf("category:    %s\n", res.Category)
	fmt.Printf("probability: %.3f\n", res.Probability)
	fmt.Printf("session:     %s\n", req.SessionID)
	if res.FirstPick {
		fmt.Println("first pick:  yes")
	} else {
		fmt.Printf("order:       %s\n", joinCategories(res.SearchOrder))
	}
	if res.Reset {
		fmt.Println("reset:       all items attempted, corpus restarted")
	}
	return nil
}

func joinCategories(cs []selection.Category) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, " → ")
}
