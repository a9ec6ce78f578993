package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/nextitem/internal/adaptive"
	"github.com/abhisek/nextitem/internal/selection"
	"github.com/abhisek/nextitem/internal/ui/theme"
)

// TierTable renders a corpus preview grouped by tier, each item with its
// probability bar.
type TierTable struct {
	Preview *adaptive.Preview
	Width   int
}

// NewTierTable creates a tier table for p.
func NewTierTable(p *adaptive.Preview, width int) TierTable {
	return TierTable{Preview: p, Width: width}
}

// View renders the table.
func (t TierTable) View() string {
	if t.Preview == nil {
		return ""
	}
	width := t.Width
	if width < 40 {
		width = 40
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Ability θ = %.2f", t.Preview.Ability)))
	b.WriteString("\n")

	if prev := t.Preview.Previous; prev != nil {
		outcome := theme.Incorrect.Render("wrong")
		if prev.Correct {
			outcome = theme.Correct.Render("correct")
		}
		b.WriteString(theme.Body.Render(fmt.Sprintf("Previous: %s (", prev.ItemID)))
		b.WriteString(theme.Tier(prev.Category).Render(string(prev.Category)))
		b.WriteString(theme.Body.Render(", "))
		b.WriteString(outcome)
		b.WriteString(theme.Body.Render(")"))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Search order: " + orderString(t.Preview.SearchOrder)))
		b.WriteString("\n")
	} else {
		b.WriteString(theme.Hint.Render("No history: next pick is random"))
		b.WriteString("\n")
	}
	if len(t.Preview.RecentContexts) > 0 {
		b.WriteString(theme.Hint.Render("Avoiding contexts: " + strings.Join(t.Preview.RecentContexts, ", ")))
		b.WriteString("\n")
	}

	labelWidth := 0
	for _, r := range t.Preview.Rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.ItemID))
	}

	for _, c := range selection.Categories {
		rows := rowsIn(t.Preview.Rows, c)
		b.WriteString("\n")
		b.WriteString(theme.Tier(c).Render(fmt.Sprintf("%s (%d)", strings.ToUpper(string(c)), len(rows))))
		b.WriteString("\n")
		if len(rows) == 0 {
			b.WriteString(theme.Hint.Render("  (empty)"))
			b.WriteString("\n")
			continue
		}
		for _, r := range rows {
			b.WriteString("  ")
			b.WriteString(t.rowView(r, labelWidth, width-2))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (t TierTable) rowView(r adaptive.PreviewRow, labelWidth, width int) string {
	label := r.ItemID + strings.Repeat(" ", labelWidth-lipgloss.Width(r.ItemID))
	bar := NewProgressBar(label, r.Probability, true, width-4).View()
	if r.Attempted {
		bar += " " + theme.Attempted.Render("✓")
	}
	return bar
}

// rowsIn returns the rows of category c, in corpus order.
func rowsIn(rows []adaptive.PreviewRow, c selection.Category) []adaptive.PreviewRow {
	var out []adaptive.PreviewRow
	for _, r := range rows {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

func orderString(order []selection.Category) string {
	parts := make([]string, len(order))
	for i, c := range order {
		parts[i] = string(c)
	}
	return strings.Join(parts, " → ")
}
