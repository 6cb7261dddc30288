package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sproutcare/sprout/internal/activity"
	"github.com/sproutcare/sprout/internal/ui/theme"
)

// printActivity writes one activity card. idx > 0 prefixes a number the
// user can pass to --save or --discard.
func printActivity(w io.Writer, a activity.Activity, idx int) {
	var b strings.Builder

	head := a.Title
	if idx > 0 {
		head = fmt.Sprintf("%d. %s", idx, a.Title)
	}
	b.WriteString(theme.Title.Render(head))
	if a.State != "" && a.State != activity.StateSuggested {
		b.WriteString("  " + theme.ForState(a.State).Render(string(a.State)))
	}
	b.WriteString("\n")

	if a.Rationale != "" {
		b.WriteString(a.Rationale + "\n")
	}
	if len(a.Skills) > 0 {
		parts := make([]string, len(a.Skills))
		for i, s := range a.Skills {
			parts[i] = fmt.Sprintf("%s (%s)", s.Name, s.Category)
		}
		b.WriteString(theme.Label.Render("Skills: ") + strings.Join(parts, ", ") + "\n")
	}
	if len(a.Materials) > 0 {
		b.WriteString(theme.Label.Render("Materials: ") + strings.Join(a.Materials, ", ") + "\n")
	}
	for i, step := range a.Steps {
		b.WriteString(fmt.Sprintf("  %d) %s\n", i+1, step))
	}
	if len(a.Outcomes) > 0 {
		b.WriteString(theme.Label.Render("Outcomes: ") + strings.Join(a.Outcomes, "; ") + "\n")
	}
	if len(a.SafetyTips) > 0 {
		b.WriteString(theme.Label.Render("Safety: ") + strings.Join(a.SafetyTips, "; ") + "\n")
	}
	if a.Notes != "" {
		style := theme.Hint
		if a.Source.Backup() {
			style = theme.Backup
		}
		b.WriteString(style.Render(a.Notes) + "\n")
	}
	meta := "id " + a.ID
	if !a.Timestamp.IsZero() {
		meta += " · " + a.Timestamp.Local().Format("2006-01-02 15:04")
	}
	b.WriteString(theme.Subtitle.Render(meta))

	fmt.Fprintln(w, theme.Card.Render(b.String()))
}

// printList writes activities as a compact table.
func printList(w io.Writer, acts []activity.Activity) {
	fmt.Fprintf(w, "%-36s  %-16s  %-10s  %s\n", "ID", "When", "Source", "Title")
	fmt.Fprintln(w, theme.Rule.Render(strings.Repeat("─", 96)))
	for _, a := range acts {
		fmt.Fprintf(w, "%-36s  %-16s  %-10s  %s\n",
			a.ID,
			a.Timestamp.Local().Format("2006-01-02 15:04"),
			shortSource(a.Source),
			a.Title,
		)
	}
	fmt.Fprintf(w, "\n%d activities\n", len(acts))
}

func shortSource(s activity.Source) string {
	if s.Backup() {
		return "backup"
	}
	return string(s)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
