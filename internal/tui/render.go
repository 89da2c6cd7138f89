package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"scholarquery/internal/domain"
	"scholarquery/internal/service"
)

func (m Model) renderOutcome() string {
	if m.outcome == nil {
		return "No search yet."
	}
	width := m.viewport.Width
	if width <= 0 {
		width = 60
	}
	return renderOutcome(*m.outcome, m.lastMode, m.lastRerank, m.bar, width)
}

// renderOutcome lays out one search outcome. In Summary mode the grouped
// summary comes first; in Explained mode each result's generated text follows
// that result's fields. An empty result list is a valid outcome, not an error.
func renderOutcome(o domain.SearchOutcome, mode domain.Mode, reranked bool, bar progress.Model, width int) string {
	var b strings.Builder
	if mode == domain.ModeSummary {
		b.WriteString(headerStyle.Render("Generated Summary") + "\n")
		if o.GroupedSummary != "" {
			b.WriteString(wrap(o.GroupedSummary, width) + "\n")
		}
		b.WriteString("\n" + headerStyle.Render("Semantic Search Results") + "\n")
	} else {
		b.WriteString(headerStyle.Render("Semantic Search Results") + "\n")
	}
	if len(o.Results) == 0 {
		b.WriteString("No results found.\n")
		return b.String()
	}
	for i, r := range o.Results {
		b.WriteString("\n" + resultTitle.Render(fmt.Sprintf("Result %d", i+1)) + "\n")
		rec, err := service.Project(r, reranked)
		if err != nil {
			b.WriteString(errorStyle.Render("Skipped: "+err.Error()) + "\n")
			continue
		}
		b.WriteString(labelStyle.Render("Relevance:") + fmt.Sprintf(" %.1f%%\n", rec.RelevancePercent))
		b.WriteString(relevanceBar(bar, rec.RelevancePercent) + "\n")
		if rec.RerankedRelevancePercent != nil {
			b.WriteString(labelStyle.Render("Reranked Relevance:") + fmt.Sprintf(" %.1f%%\n", *rec.RerankedRelevancePercent))
			b.WriteString(relevanceBar(bar, *rec.RerankedRelevancePercent) + "\n")
		}
		b.WriteString(labelStyle.Render("Topic:") + " " + rec.Topic + "\n")
		b.WriteString(labelStyle.Render("Book:") + " " + rec.Book + "\n")
		b.WriteString(labelStyle.Render("Author:") + " " + rec.Author + "\n")
		b.WriteString(labelStyle.Render("Page:") + fmt.Sprintf(" %d\n", rec.Page))
		b.WriteString(labelStyle.Render("Volume:") + fmt.Sprintf(" %d\n", rec.Volume))
		b.WriteString(labelStyle.Render("Text:") + " " + wrap(rec.Text, width) + "\n")
		if mode == domain.ModeExplained && r.Generated != "" {
			b.WriteString(generatedStyle.Render(wrap(r.Generated, width)) + "\n")
		}
	}
	return b.String()
}

// relevanceBar brackets a bounded bar between the miss and target glyphs.
func relevanceBar(bar progress.Model, percent float64) string {
	return "🚫 " + bar.ViewAs(percent/100) + " 🎯"
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}
