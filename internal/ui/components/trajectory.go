package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/nextitem/internal/selection"
	"github.com/abhisek/nextitem/internal/ui/theme"
)

// Step is one simulated selection and its outcome.
type Step struct {
	N           int
	ItemID      string
	Category    selection.Category
	Probability float64
	Correct     bool
	Reset       bool
}

// Trajectory renders a simulated session, one line per step, followed by
// per-tier totals.
type Trajectory struct {
	Steps []Step
}

// View renders the trajectory.
func (t Trajectory) View() string {
	var b strings.Builder

	counts := make(map[selection.Category]int)
	correct := 0
	for _, s := range t.Steps {
		counts[s.Category]++
		outcome := theme.Incorrect.Render("✗")
		if s.Correct {
			outcome = theme.Correct.Render("✓")
			correct++
		}
		b.WriteString(fmt.Sprintf("%3d  %s  ", s.N, outcome))
		b.WriteString(theme.Tier(s.Category).Render(fmt.Sprintf("%-9s", s.Category)))
		b.WriteString(theme.Body.Render(fmt.Sprintf("  %-12s p=%.2f", s.ItemID, s.Probability)))
		if s.Reset {
			b.WriteString(theme.Hint.Render("  (reset)"))
		}
		b.WriteString("\n")
	}

	if len(t.Steps) == 0 {
		return theme.Hint.Render("no steps") + "\n"
	}

	b.WriteString("\n")
	for _, c := range selection.Categories {
		b.WriteString(theme.Tier(c).Render(fmt.Sprintf("%s %d", c, counts[c])))
		b.WriteString("  ")
	}
	b.WriteString(theme.Body.Render(fmt.Sprintf("correct %d/%d", correct, len(t.Steps))))
	b.WriteString("\n")
	return b.String()
}
