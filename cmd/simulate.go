package cmd

import (
	"fmt"
	"math/rand/v2"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/nextitem/internal/adaptive"
	"github.com/abhisek/nextitem/internal/selection"
	"github.com/abhisek/nextitem/internal/ui/components"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulated session against the stored corpus",
	Long: `Repeatedly select an item, answer it correctly with the model's
probability and record the response, printing the tier trajectory.

Responses are written to the store under a fresh session unless --session
is given.`,
	RunE: runSimulate,
}

func init() {
	unitFlags(simulateCmd)
	simulateCmd.Flags().String("session", "", "Session ID (generated when omitted)")
	simulateCmd.Flags().Int("steps", 10, "Number of items to answer")
	simulateCmd.Flags().Uint64("seed", 0, "Random seed (0 uses the clock)")
	simulateCmd.Flags().Int("prior-context", 0, "Number of recent context tags to avoid (default from config)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	steps, _ := cmd.Flags().GetInt("steps")
	if steps < 1 {
		return fmt.Errorf("--steps must be at least 1")
	}
	seed, _ := cmd.Flags().GetUint64("seed")
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

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

	svc := rt.service(selection.NewSeededRand(seed, seed>>1|1))
	answers := rand.New(rand.NewPCG(seed^0x9e3779b97f4a7c15, seed))

	traj := components.Trajectory{}
	for n := 1; n <= steps; n++ {
		res, err := svc.SelectNextItem(cmd.Context(), req)
		if err != nil {
			return err
		}

		correct := answers.Float64() < res.Probability
		_, err = recordResponse(cmd.Context(), rt.st, adaptive.ResponseEvent{
			LearnerID:      req.LearnerID,
			LearningUnitID: req.LearningUnitID,
			ActivityType:   req.ActivityType,
			SessionID:      req.SessionID,
			ItemID:         res.ItemID,
			Feedback:       adaptive.Feedback{FirstAttempt: correct},
		})
		if err != nil {
			return err
		}

		traj.Steps = append(traj.Steps, components.Step{
			N:           n,
			ItemID:      res.ItemID,
			Category:    res.Category,
			Probability: res.Probability,
			Correct:     correct,
			Reset:       res.Reset,
		})
	}

	fmt.Printf("session %s (seed %d)\n\n", req.SessionID, seed)
	lipgloss.Print(traj.View())
	return nil
}
