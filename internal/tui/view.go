package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 40

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	subtitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sidebarStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(sidebarWidth)
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	labelStyle     = lipgloss.NewStyle().Bold(true)
	focusStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	captionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(sidebarWidth - 4)
	buttonStyle    = lipgloss.NewStyle().Padding(0, 2)
	buttonFocus    = lipgloss.NewStyle().Padding(0, 2).Reverse(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	resultTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	generatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// View renders the banner, the sidebar of controls, the results pane and the
// status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	banner := titleStyle.Render("📚 ScholarQuery")
	subtitle := subtitleStyle.Render("Find meaningful insights with GenAI Semantic Search")
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(m.renderSidebar()),
		resultBoxStyle.Render(m.viewport.View()),
	)
	return banner + "\n" + subtitle + "\n" + body + "\n" + statusStyle.Render(m.status)
}

func (m Model) renderSidebar() string {
	var b strings.Builder

	b.WriteString(m.label(fieldCollection, "Which book selection?") + "\n")
	b.WriteString("  " + m.choiceView(fieldCollection, m.collections, m.colIdx, "no collections available") + "\n")

	b.WriteString(m.label(fieldBook, "Which book?") + "\n")
	b.WriteString("  " + m.choiceView(fieldBook, m.bookOptions(), m.bookIdx, "no books") + "\n")

	b.WriteString(m.label(fieldTopics, "Which topics?") + "\n")
	if len(m.topics) == 0 {
		b.WriteString("  no topics\n")
	}
	for i, t := range m.topics {
		cursor := "  "
		if m.focus == fieldTopics && i == m.topicCursor {
			cursor = focusStyle.Render("›") + " "
		}
		check := "[ ]"
		if m.selectedTopics[i] {
			check = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, check, t))
	}

	b.WriteString(m.label(fieldMode, "Select search mode:") + "\n")
	for i, mode := range modes {
		radio := "( )"
		if i == m.modeIdx {
			radio = "(•)"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", radio, mode))
	}
	b.WriteString("  " + captionStyle.Render(modeCaptions[modes[m.modeIdx]]) + "\n")

	b.WriteString(m.label(fieldTopK, "Number of ranked results:") + "\n")
	b.WriteString(fmt.Sprintf("  %s\n", m.stepperView()))

	b.WriteString(m.label(fieldQuery, "Enter your query:") + "\n")
	b.WriteString(m.query.View() + "\n")

	toggle := "[ ]"
	if m.rerankOn {
		toggle = "[x]"
	}
	b.WriteString(m.label(fieldRerankToggle, toggle+" Use Rerank!") + "\n")
	if m.rerankOn {
		b.WriteString(m.label(fieldRerankQuery, "Enter rerank query:") + "\n")
		b.WriteString(m.rerank.View() + "\n")
	}

	button := buttonStyle
	if m.focus == fieldSearch {
		button = buttonFocus
	}
	b.WriteString("\n" + button.Render("[ Search ]"))
	return b.String()
}

func (m Model) label(f field, text string) string {
	if m.focus == f {
		return focusStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m Model) choiceView(f field, options []string, idx int, empty string) string {
	if len(options) == 0 {
		return empty
	}
	if idx < 0 || idx >= len(options) {
		idx = 0
	}
	if m.focus == f {
		return fmt.Sprintf("◀ %s ▶", options[idx])
	}
	return options[idx]
}

func (m Model) stepperView() string {
	if m.focus == fieldTopK {
		return fmt.Sprintf("◀ %d ▶", m.topK)
	}
	return fmt.Sprintf("%d", m.topK)
}

// bookOptions prepends the any-book choice to the store's book values.
func (m Model) bookOptions() []string {
	if len(m.books) == 0 {
		return nil
	}
	return append([]string{"(any book)"}, m.books...)
}
