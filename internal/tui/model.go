package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"scholarquery/internal/domain"
	"scholarquery/internal/service"
)

// SearchPort is the TUI-facing subset of the search service.
type SearchPort interface {
	Books(ctx context.Context, collection string) ([]string, error)
	Topics(ctx context.Context, collection string) ([]string, error)
	Search(ctx context.Context, req domain.SearchRequest) (domain.SearchOutcome, error)
}

// field identifies one sidebar control, in focus order.
type field int

const (
	fieldCollection field = iota
	fieldBook
	fieldTopics
	fieldMode
	fieldTopK
	fieldQuery
	fieldRerankToggle
	fieldRerankQuery
	fieldSearch
	fieldCount
)

var modes = []domain.Mode{domain.ModeSemantic, domain.ModeExplained, domain.ModeSummary}

var modeCaptions = map[domain.Mode]string{
	domain.ModeSemantic:  "Provides Semantic Search using Cosine similarity and ANN (HNSW)",
	domain.ModeExplained: "Provides summarized translation and explanation of relevance to the query",
	domain.ModeSummary:   "Generates a summary of the search results based on the query",
}

// Model is the Bubble Tea model for the application. All service calls run
// synchronously inside Update; one search action completes before the next
// is possible.
type Model struct {
	service SearchPort

	collections    []string
	colIdx         int
	books          []string
	bookIdx        int // 0 means any book, i>0 means books[i-1]
	topics         []string
	topicCursor    int
	selectedTopics map[int]bool
	modeIdx        int
	topK           int
	query          textinput.Model
	rerankOn       bool
	rerank         textinput.Model

	focus      field
	viewport   viewport.Model
	bar        progress.Model
	outcome    *domain.SearchOutcome
	lastMode   domain.Mode
	lastRerank bool
	status     string
	ready      bool
}

// New creates the TUI model. An empty collections slice (store unreachable or
// empty) still yields a working UI that blocks searching with guidance text.
func New(svc SearchPort, collections []string, defaultTopK int, status string) Model {
	qi := textinput.New()
	qi.Prompt = "> "
	qi.Placeholder = "Enter your query"
	qi.CharLimit = 0
	ri := textinput.New()
	ri.Prompt = "> "
	ri.Placeholder = "Enter the query to rerank the results"
	ri.CharLimit = 0
	if status == "" {
		status = "Tab moves between controls. Press Enter on [ Search ] to search."
	}
	if defaultTopK < domain.MinTopK || defaultTopK > domain.MaxTopK {
		defaultTopK = 5
	}
	m := Model{
		service:        svc,
		collections:    collections,
		selectedTopics: map[int]bool{},
		topK:           defaultTopK,
		query:          qi,
		rerank:         ri,
		viewport:       viewport.New(0, 0),
		bar:            progress.New(progress.WithDefaultGradient(), progress.WithWidth(24), progress.WithoutPercentage()),
		status:         status,
	}
	if len(collections) > 0 {
		m.loadOptions()
	}
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		sw, _ := sidebarStyle.GetFrameSize()
		rw, rh := resultBoxStyle.GetFrameSize()
		vw := msg.Width - sidebarWidth - sw - rw
		if vw < 20 {
			vw = 20
		}
		vh := msg.Height - rh - 4 // banner, subtitle, status, spacer
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = vw
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderOutcome())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			m.setFocus(m.nextField(1))
			return m, nil
		case "shift+tab":
			m.setFocus(m.nextField(-1))
			return m, nil
		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		}
		if m.handleFieldKey(msg) {
			return m, nil
		}
	}
	var cmd tea.Cmd
	switch m.focus {
	case fieldQuery:
		m.query, cmd = m.query.Update(msg)
	case fieldRerankQuery:
		m.rerank, cmd = m.rerank.Update(msg)
	}
	return m, cmd
}

// handleFieldKey applies a key to the focused control. Returns false when the
// key should instead flow to a text input.
func (m *Model) handleFieldKey(msg tea.KeyMsg) bool {
	key := msg.String()
	switch m.focus {
	case fieldCollection:
		if delta, ok := arrowDelta(key); ok && len(m.collections) > 0 {
			m.colIdx = cycle(m.colIdx+delta, len(m.collections))
			m.loadOptions()
			m.outcome = nil
			m.viewport.SetContent(m.renderOutcome())
			return true
		}
	case fieldBook:
		if delta, ok := arrowDelta(key); ok && len(m.books) > 0 {
			m.bookIdx = cycle(m.bookIdx+delta, len(m.books)+1)
			return true
		}
	case fieldTopics:
		switch key {
		case "up":
			if len(m.topics) > 0 {
				m.topicCursor = cycle(m.topicCursor-1, len(m.topics))
			}
			return true
		case "down":
			if len(m.topics) > 0 {
				m.topicCursor = cycle(m.topicCursor+1, len(m.topics))
			}
			return true
		case " ":
			if len(m.topics) > 0 {
				m.selectedTopics[m.topicCursor] = !m.selectedTopics[m.topicCursor]
			}
			return true
		}
	case fieldMode:
		if delta, ok := arrowDelta(key); ok {
			m.modeIdx = cycle(m.modeIdx+delta, len(modes))
			return true
		}
	case fieldTopK:
		if delta, ok := arrowDelta(key); ok {
			next := m.topK + delta
			if next >= domain.MinTopK && next <= domain.MaxTopK {
				m.topK = next
			}
			return true
		}
	case fieldRerankToggle:
		if key == " " || key == "enter" {
			m.rerankOn = !m.rerankOn
			return true
		}
	case fieldQuery, fieldRerankQuery:
		if key == "enter" {
			m.runSearch()
			return true
		}
		return false
	case fieldSearch:
		if key == "enter" || key == " " {
			m.runSearch()
			return true
		}
	}
	return false
}

func (m *Model) runSearch() {
	req := domain.SearchRequest{
		Collection: m.currentCollection(),
		Query:      strings.TrimSpace(m.query.Value()),
		TopK:       m.topK,
		Mode:       modes[m.modeIdx],
		Filter:     service.BuildFilter(m.currentBook(), m.currentTopics()),
		Rerank:     service.BuildRerank(m.rerankOn, strings.TrimSpace(m.rerank.Value())),
	}
	outcome, err := m.service.Search(context.Background(), req)
	if err != nil {
		m.outcome = nil
		switch {
		case errors.Is(err, domain.ErrNoCollection):
			m.status = "Select a collection before searching."
		case errors.Is(err, domain.ErrEmptyQuery):
			m.status = "Enter a query to search."
		default:
			m.status = "Search failed: " + err.Error()
		}
	} else {
		m.outcome = &outcome
		m.lastMode = req.Mode
		m.lastRerank = req.Rerank != nil
		m.status = fmt.Sprintf("%d result(s) for %q", len(outcome.Results), req.Query)
	}
	m.viewport.SetContent(m.renderOutcome())
	m.viewport.GotoTop()
}

// loadOptions reloads book and topic choices for the selected collection and
// resets the previous selections.
func (m *Model) loadOptions() {
	m.books = nil
	m.topics = nil
	m.bookIdx = 0
	m.topicCursor = 0
	m.selectedTopics = map[int]bool{}
	col := m.currentCollection()
	if col == "" {
		return
	}
	ctx := context.Background()
	books, err := m.service.Books(ctx, col)
	if err != nil {
		m.status = "Failed to load books: " + err.Error()
		return
	}
	topics, err := m.service.Topics(ctx, col)
	if err != nil {
		m.status = "Failed to load topics: " + err.Error()
		return
	}
	m.books = books
	m.topics = topics
}

func (m Model) currentCollection() string {
	if len(m.collections) == 0 {
		return ""
	}
	return m.collections[m.colIdx]
}

func (m Model) currentBook() string {
	if m.bookIdx == 0 || m.bookIdx > len(m.books) {
		return ""
	}
	return m.books[m.bookIdx-1]
}

func (m Model) currentTopics() []string {
	var out []string
	for i, t := range m.topics {
		if m.selectedTopics[i] {
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) setFocus(f field) {
	m.focus = f
	if f == fieldQuery {
		m.query.Focus()
	} else {
		m.query.Blur()
	}
	if f == fieldRerankQuery {
		m.rerank.Focus()
	} else {
		m.rerank.Blur()
	}
}

// nextField steps the focus, skipping the rerank query input while the
// toggle is off.
func (m Model) nextField(delta int) field {
	f := m.focus
	for {
		f = field(cycle(int(f)+delta, int(fieldCount)))
		if f == fieldRerankQuery && !m.rerankOn {
			continue
		}
		return f
	}
}

func arrowDelta(key string) (int, bool) {
	switch key {
	case "left", "h":
		return -1, true
	case "right", "l":
		return 1, true
	}
	return 0, false
}

func cycle(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
