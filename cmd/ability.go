package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var abilityCmd = &cobra.Command{
	Use:   "ability",
	Short: "Read or record a learner's ability estimate",
}

var abilityGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the ability for a learner in a learning unit",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		unit, _ := cmd.Flags().GetString("unit")
		learner, _ := cmd.Flags().GetString("learner")
		theta, err := rt.st.AbilityRepo().GetAbility(cmd.Context(), learner, unit)
		if err != nil {
			return fmt.Errorf("get ability: %w", err)
		}
		fmt.Printf("%.4f\n", theta)
		return nil
	},
}

var abilitySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Record the ability for a learner in a learning unit",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("value")
		theta, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid ability %q: %w", raw, err)
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		unit, _ := cmd.Flags().GetString("unit")
		learner, _ := cmd.Flags().GetString("learner")
		if err := rt.st.AbilityRepo().SetAbility(cmd.Context(), learner, unit, theta); err != nil {
			return fmt.Errorf("set ability: %w", err)
		}
		fmt.Printf("ability for %s in %s set to %.4f\n", learner, unit, theta)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{abilityGetCmd, abilitySetCmd} {
		c.Flags().String("unit", "", "Learning unit ID (required)")
		c.Flags().String("learner", "", "Learner ID (required)")
		_ = c.MarkFlagRequired("unit")
		_ = c.MarkFlagRequired("learner")
		abilityCmd.AddCommand(c)
	}
	abilitySetCmd.Flags().String("value", "", "Ability estimate on the logit scale (required)")
	_ = abilitySetCmd.MarkFlagRequired("value")
}
