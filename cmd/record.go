package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/nextitem/internal/adaptive"
	"github.com/abhisek/nextitem/internal/store"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a learner's response to an item",
	RunE:  runRecord,
}

func init() {
	unitFlags(recordCmd)
	recordCmd.Flags().String("session", "", "Session ID (required)")
	recordCmd.Flags().String("item", "", "Item ID (required)")
	recordCmd.Flags().Bool("correct", false, "First attempt was correct")
	recordCmd.Flags().String("second", "", "Second attempt outcome: true or false (omit when there was none)")
	_ = recordCmd.MarkFlagRequired("session")
	_ = recordCmd.MarkFlagRequired("item")
}

func runRecord(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	req := requestFromFlags(cmd)
	session, _ := cmd.Flags().GetString("session")
	itemID, _ := cmd.Flags().GetString("item")
	correct, _ := cmd.Flags().GetBool("correct")

	fb := adaptive.Feedback{FirstAttempt: correct}
	if s, _ := cmd.Flags().GetString("second"); s != "" {
		second, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid --second %q: %w", s, err)
		}
		fb.SecondAttempt = &second
	}

	seq, err := recordResponse(cmd.Context(), rt.st, adaptive.ResponseEvent{
		LearnerID:      req.LearnerID,
		LearningUnitID: req.LearningUnitID,
		ActivityType:   req.ActivityType,
		SessionID:      session,
		ItemID:         itemID,
		Feedback:       fb,
	})
	if err != nil {
		return err
	}

	fmt.Printf("recorded response #%d (%s, correct=%t)\n", seq, itemID, fb.Correct())
	return nil
}

// recordResponse appends ev after filling its context tag from the corpus.
func recordResponse(ctx context.Context, st *store.Store, ev adaptive.ResponseEvent) (int64, error) {
	items, err := st.ItemRepo().ListItems(ctx, ev.LearningUnitID, ev.ActivityType)
	if err != nil {
		return 0, fmt.Errorf("list items: %w", err)
	}
	found := false
	for _, it := range items {
		if it.ID == ev.ItemID {
			ev.ContextTag = it.ContextTag
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("item %q in %s/%s: %w", ev.ItemID, ev.LearningUnitID, ev.ActivityType, adaptive.ErrNotFound)
	}

	seq, err := st.EventRepo().AppendResponse(ctx, ev)
	if err != nil {
		return 0, fmt.Errorf("append response: %w", err)
	}
	return seq, nil
}
