package picker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runger/quickopen/internal/quickopen"
)

// pickerState represents the current state of the picker's state machine.
type pickerState int

const (
	stateIdle      pickerState = iota // Initial state before the first fetch
	stateLoading                      // Aggregation in progress
	stateLoaded                       // Candidates loaded (len > 0)
	stateEmpty                        // Aggregation succeeded with 0 candidates
	stateError                        // Aggregation failed
	stateCancelled                    // User cancelled (Esc / Ctrl+C)
	stateActivated                    // User picked a candidate
)

// fetchDoneMsg is sent when an async Provider.Fetch completes.
type fetchDoneMsg struct {
	requestID  uint64
	candidates []quickopen.Candidate
	err        error
}

// initMsg is sent by Init() to trigger the first fetch via Update(),
// ensuring state mutations are visible to the Bubble Tea runtime.
type initMsg struct{}

// Model is the Bubble Tea model for the quick-open picker.
// It must be exported so that cmd/quickopen-picker can use it.
type Model struct {
	state   pickerState
	session *quickopen.Session
	matcher quickopen.Matcher
	input   textinput.Model
	offset  int // First visible row of the list
	err     error
	title   string

	requestID uint64 // Monotonic counter for stale detection
	provider  Provider
	sessionID string

	width  int // Terminal width
	height int // Terminal height

	// result holds the activated path after the user presses Enter.
	result string

	// cancelFetch cancels the in-flight Provider.Fetch context.
	cancelFetch context.CancelFunc
}

// Option customises a Model.
type Option func(*Model)

// WithTitle sets the header title.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithQuery pre-fills the query line.
func WithQuery(query string) Option {
	return func(m *Model) {
		m.input.SetValue(query)
		m.input.CursorEnd()
	}
}

// WithSessionID sets the session ID used for provider requests and the
// selection session.
func WithSessionID(id string) Option {
	return func(m *Model) { m.sessionID = id }
}

// NewModel creates a new picker Model.
func NewModel(provider Provider, matcher quickopen.Matcher, opts ...Option) Model {
	if matcher == nil {
		matcher = quickopen.SubstringMatcher{}
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = queryStyle
	ti.Placeholder = "type to filter"
	ti.Focus()

	m := Model{
		state:    stateIdle,
		matcher:  matcher,
		input:    ti,
		provider: provider,
		title:    "Quick Open",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Result returns the activated path, or "" if the picker was cancelled.
func (m Model) Result() string {
	return m.result
}

// Cancelled reports whether the user dismissed the picker.
func (m Model) Cancelled() bool {
	return m.state == stateCancelled
}

// Session returns the selection session once candidates are loaded.
func (m Model) Session() *quickopen.Session {
	return m.session
}

// Err returns the aggregation error, if any.
func (m Model) Err() error {
	return m.err
}

// Init implements tea.Model. It sends an initMsg so that the first fetch
// is triggered through Update, where state mutations are properly captured.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return initMsg{} },
		textinput.Blink,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(0, msg.Width-len(m.input.Prompt)-1)
		m.scrollToSelection()
		return m, nil

	case fetchDoneMsg:
		return m.handleFetchDone(msg)

	case initMsg:
		return m, m.startFetch()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.cancelInflight()
		if m.session != nil {
			_ = m.session.Cancel()
		}
		m.state = stateCancelled
		return m, tea.Quit

	case tea.KeyEnter:
		if m.session == nil {
			return m, nil
		}
		path, err := m.session.Activate()
		if err != nil {
			// Nothing selected; keep the picker open.
			return m, nil
		}
		m.result = path
		m.state = stateActivated
		return m, tea.Quit

	case tea.KeyUp, tea.KeyCtrlP:
		return m.move(-1), nil

	case tea.KeyDown, tea.KeyCtrlN:
		return m.move(1), nil

	case tea.KeyPgUp:
		return m.move(-m.listHeight()), nil

	case tea.KeyPgDown:
		return m.move(m.listHeight()), nil

	case tea.KeyCtrlHome:
		return m.moveTo(0), nil

	case tea.KeyCtrlEnd:
		if m.session == nil {
			return m, nil
		}
		return m.moveTo(len(m.session.Visible()) - 1), nil
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.applyQuery()
	}
	return m, cmd
}

func (m Model) move(delta int) Model {
	if m.session == nil {
		return m
	}
	_ = m.session.Move(delta)
	m.scrollToSelection()
	return m
}

func (m Model) moveTo(index int) Model {
	if m.session == nil {
		return m
	}
	_ = m.session.MoveTo(index)
	m.scrollToSelection()
	return m
}

// applyQuery pushes the query line into the session.
func (m *Model) applyQuery() {
	if m.session == nil {
		return
	}
	_ = m.session.SetQuery(m.input.Value())
	m.offset = 0
	m.scrollToSelection()
}

// handleFetchDone processes the result of an async fetch.
func (m Model) handleFetchDone(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	// Discard stale responses.
	if msg.requestID != m.requestID || m.state == stateCancelled {
		return m, nil
	}
	m.cancelFetch = nil

	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		m.session = nil
		return m, nil
	}

	m.session = quickopen.NewSession(msg.candidates, m.matcher, quickopen.WithID(m.sessionID))
	if len(msg.candidates) == 0 {
		m.state = stateEmpty
		return m, nil
	}
	m.state = stateLoaded
	if m.input.Value() != "" {
		m.applyQuery()
	}
	return m, nil
}

// startFetch cancels any in-flight fetch, increments requestID, and
// returns a tea.Cmd that calls the provider.
func (m *Model) startFetch() tea.Cmd {
	m.cancelInflight()
	m.requestID++
	m.state = stateLoading

	reqID := m.requestID
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel

	req := Request{RequestID: reqID, SessionID: m.sessionID}
	p := m.provider
	return func() tea.Msg {
		if p == nil {
			return fetchDoneMsg{requestID: reqID, err: errors.New("no provider")}
		}
		resp, err := p.Fetch(ctx, req)
		if err != nil {
			return fetchDoneMsg{requestID: reqID, err: err}
		}
		return fetchDoneMsg{requestID: reqID, candidates: resp.Candidates}
	}
}

// cancelInflight cancels any in-progress fetch context.
func (m *Model) cancelInflight() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

// scrollToSelection keeps the selected row inside the list window.
func (m *Model) scrollToSelection() {
	if m.session == nil {
		m.offset = 0
		return
	}
	sel := m.session.Selection()
	h := m.listHeight()
	if sel < 0 {
		m.offset = 0
		return
	}
	if sel < m.offset {
		m.offset = sel
	}
	if sel >= m.offset+h {
		m.offset = sel - h + 1
	}
	if n := len(m.session.Visible()); m.offset > max(0, n-h) {
		m.offset = max(0, n-h)
	}
}

// listHeight returns the number of visible list rows (terminal height minus
// header and query line).
func (m Model) listHeight() int {
	// 1 row for the header, 1 row for the query line
	const chrome = 2
	h := m.height - chrome
	if h < 1 {
		h = 20 // Sensible default before first WindowSizeMsg
	}
	return h
}

// --- View rendering ---

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	matchStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	queryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteRune('\n')

	b.WriteString(m.viewContent())
	b.WriteRune('\n')

	b.WriteString(m.input.View())

	return b.String()
}

// viewHeader renders the title and the match counter.
func (m Model) viewHeader() string {
	header := headerStyle.Render(" " + m.title + " ")
	if m.session != nil {
		header += dimStyle.Render(fmt.Sprintf(" %d/%d", len(m.session.Visible()), len(m.session.Full())))
		header += dimStyle.Render(" " + m.matcher.Mode())
	}
	return header
}

// viewContent renders the candidate list or a status message.
func (m Model) viewContent() string {
	switch m.state {
	case stateIdle, stateLoading:
		return dimStyle.Render("Loading...")

	case stateEmpty:
		return dimStyle.Render("No files")

	case stateError:
		msg := "Error"
		if m.err != nil {
			msg = fmt.Sprintf("Error: %s", m.err)
		}
		return errorStyle.Render(msg)

	case stateCancelled:
		return dimStyle.Render("Cancelled")

	case stateLoaded, stateActivated:
		if len(m.session.Visible()) == 0 {
			return dimStyle.Render("No matches")
		}
		return m.viewList()

	default:
		return ""
	}
}

// viewList renders the visible window of candidates with a selection marker.
func (m Model) viewList() string {
	visible := m.session.Visible()
	sel := m.session.Selection()
	query := m.session.Query()

	var rows []string
	end := min(len(visible), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		c := visible[i]
		rows = append(rows, m.viewRow(c, i == sel, query))
	}
	return strings.Join(rows, "\n")
}

// viewRow renders one candidate: marker, kind glyph, highlighted name and
// the truncated directory.
func (m Model) viewRow(c quickopen.Candidate, selected bool, query string) string {
	base := normalStyle
	marker := "  "
	if selected {
		base = selectedStyle
		marker = "> "
	}

	name := highlight(c.DisplayName, m.matcher.Positions(c.DisplayName, query), base)
	row := base.Render(marker+c.Kind.Glyph()+" ") + name

	if m.width > 0 {
		used := lipgloss.Width(row) + 2
		if room := m.width - used; room > 8 {
			row += "  " + dimStyle.Render(TruncateDir(c.Dir(), room))
		}
	} else {
		row += "  " + dimStyle.Render(c.Dir())
	}
	return row
}

// highlight renders name with the bytes at positions emphasised.
func highlight(name string, positions []int, base lipgloss.Style) string {
	if len(positions) == 0 {
		return base.Render(name)
	}
	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}

	var b strings.Builder
	var run strings.Builder
	runMarked := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runMarked {
			b.WriteString(matchStyle.Render(run.String()))
		} else {
			b.WriteString(base.Render(run.String()))
		}
		run.Reset()
	}
	for i, r := range name {
		if marked[i] != runMarked {
			flush()
			runMarked = marked[i]
		}
		run.WriteRune(r)
	}
	flush()
	return b.String()
}
