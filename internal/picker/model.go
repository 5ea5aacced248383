// Package picker is the interactive front end over filter.State.
package picker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/runger/flick/internal/filter"
	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/source"
	"github.com/runger/flick/internal/usage"
)

// tickInterval is how often the loader channel is drained while loading.
const tickInterval = 20 * time.Millisecond

// drainLimit caps the items merged per tick so one tick never stalls input.
const drainLimit = 4096

// pinTimeout bounds the pin write.
const pinTimeout = 2 * time.Second

// defaultListHeight is used before the first WindowSizeMsg.
const defaultListHeight = 10

// chrome is the query line plus the status line.
const chrome = 2

// pickerState represents the current state of the picker's state machine.
type pickerState int

const (
	stateLoading   pickerState = iota // Items still streaming in
	stateReady                        // Loading finished with at least one item
	stateEmpty                        // Loading finished with no items at all
	stateCancelled                    // User cancelled (Esc / Ctrl+C)
	stateAccepted                     // User accepted the selected item
)

func (s pickerState) String() string {
	switch s {
	case stateLoading:
		return "loading"
	case stateReady:
		return "ready"
	case stateEmpty:
		return "empty"
	case stateCancelled:
		return "cancelled"
	case stateAccepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// TickMsg drives loader draining. Sending it by hand steps a model that
// runs without a Program.
type TickMsg struct{}

// Usage is the part of usage.Store the picker needs for pin toggling.
type Usage interface {
	TogglePin(ctx context.Context, identity string) (bool, error)
	Record() *usage.Record
}

// Options configures a Model.
type Options struct {
	Prompt string
	// MaxVisible caps the list rows; 0 fits the terminal.
	MaxVisible int
	// Query is the initial query.
	Query string
	// Usage enables pin toggling when set.
	Usage  Usage
	Logger *slog.Logger
}

// Model is the Bubble Tea model for the picker.
type Model struct {
	state  pickerState
	filter *filter.State
	loader *source.Loader
	usage  Usage
	logger *slog.Logger

	keys    keyMap
	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	maxVisible int
	width      int
	height     int

	loadErr error
	status  string // One-shot message shown in the status line
	result  *item.Item
}

// NewModel creates a picker over st fed by loader. A nil loader means the
// pool is already complete.
func NewModel(st *filter.State, loader *source.Loader, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	in := textinput.New()
	in.Prompt = promptStyle.Render(opts.Prompt)
	in.SetValue(opts.Query)
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = dimStyle

	st.SetQuery(opts.Query)

	m := Model{
		state:      stateLoading,
		filter:     st,
		loader:     loader,
		usage:      opts.Usage,
		logger:     logger,
		keys:       defaultKeyMap(),
		input:      in,
		spinner:    sp,
		help:       help.New(),
		maxVisible: opts.MaxVisible,
	}
	if loader == nil {
		m.finishLoading()
	}
	return m
}

// Result returns the accepted item.
func (m Model) Result() (*item.Item, bool) {
	return m.result, m.result != nil
}

// Loading reports whether items are still streaming in.
func (m Model) Loading() bool {
	return m.state == stateLoading
}

// IsCancelled reports whether the user dismissed the picker.
func (m Model) IsCancelled() bool {
	return m.state == stateCancelled
}

// LoadErr returns the item source's error, if loading failed.
func (m Model) LoadErr() error {
	return m.loadErr
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.state == stateLoading {
		cmds = append(cmds, m.spinner.Tick, tick())
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(0, msg.Width-lipgloss.Width(m.input.Prompt)-1)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleTick merges whatever the loader has produced.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.state != stateLoading || m.loader == nil {
		return m, nil
	}
	batch, closed := source.Drain(m.loader.Items(), drainLimit)
	m.filter.Append(batch...)
	if !closed {
		return m, tick()
	}
	if err := m.loader.Err(); err != nil {
		m.loadErr = err
		m.logger.Warn("item source failed", "error", err, "items", m.filter.PoolLen())
	}
	m.finishLoading()
	return m, nil
}

func (m *Model) finishLoading() {
	if m.filter.PoolLen() == 0 {
		m.state = stateEmpty
		return
	}
	m.state = stateReady
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	rows := m.listHeight()

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.state = stateCancelled
		return m, tea.Quit

	case key.Matches(msg, m.keys.Accept):
		it, ok := m.filter.SelectedItem()
		if !ok {
			return m, nil
		}
		accepted := *it
		m.result = &accepted
		m.state = stateAccepted
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.filter.MoveUp(rows)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.filter.MoveDown(rows)
		return m, nil

	case key.Matches(msg, m.keys.First):
		m.filter.MoveFirst(rows)
		return m, nil

	case key.Matches(msg, m.keys.Last):
		m.filter.MoveLast(rows)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.filter.PageUp(rows)
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.filter.PageDown(rows)
		return m, nil

	case key.Matches(msg, m.keys.TogglePin):
		m.togglePin()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if m.input.Value() == "" {
			return m, nil
		}
		m.input.SetValue("")
		m.filter.SetQuery("")
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.filter.SetQuery(after)
	}
	return m, cmd
}

// togglePin flips the selected item's pin and re-ranks in place. A failed
// write still changes this session's ranking.
func (m *Model) togglePin() {
	if m.usage == nil {
		return
	}
	it, ok := m.filter.SelectedItem()
	if !ok {
		return
	}
	identity := it.Identity

	ctx, cancel := context.WithTimeout(context.Background(), pinTimeout)
	defer cancel()
	pinned, err := m.usage.TogglePin(ctx, identity)
	if err != nil {
		m.logger.Warn("pin not saved", "identity", identity, "error", err)
		m.status = "pin not saved"
	} else if pinned {
		m.status = "pinned"
	} else {
		m.status = "unpinned"
	}
	m.filter.ApplyUsage(m.usage.Record())
	m.filter.Refresh()
}

// handleMouse selects the clicked row and scrolls on the wheel.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	rows := m.listHeight()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.filter.MoveUp(rows)
	case tea.MouseButtonWheelDown:
		m.filter.MoveDown(rows)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			break
		}
		// Row 0 is the query line.
		row := msg.Y - 1
		if row >= 0 && row < rows {
			m.filter.SelectIndex(m.filter.ScrollOffset()+row, rows)
		}
	}
	return m, nil
}

// listHeight returns the number of visible list rows.
func (m Model) listHeight() int {
	h := m.height - chrome
	if m.height == 0 {
		h = defaultListHeight
	}
	if m.maxVisible > 0 && (h < 1 || m.maxVisible < h) {
		h = m.maxVisible
	}
	return max(h, 1)
}

// --- View rendering ---

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pinStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	if m.state == stateAccepted || m.state == stateCancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteRune('\n')
	b.WriteString(m.viewContent())
	b.WriteRune('\n')
	b.WriteString(m.viewStatus())
	return b.String()
}

// viewContent renders the list or a placeholder, padded to a fixed height
// so the status line does not jump.
func (m Model) viewContent() string {
	rows := m.listHeight()
	lines := make([]string, 0, rows)

	switch {
	case m.state == stateEmpty:
		lines = append(lines, dimStyle.Render("No items"))
	case m.filter.Len() == 0 && m.state == stateLoading:
		lines = append(lines, dimStyle.Render("Loading..."))
	case m.filter.Len() == 0:
		lines = append(lines, dimStyle.Render("No matches"))
	default:
		visible, cursor := m.filter.Visible(rows)
		for i, it := range visible {
			lines = append(lines, m.viewRow(it, i == cursor))
		}
	}

	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// viewRow renders one item: selection marker, pin marker, label, tags.
func (m Model) viewRow(it *item.Item, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	pin := "  "
	if it.Pinned {
		pin = pinStyle.Render("* ")
	}

	var tags string
	if len(it.Tags) > 0 {
		tags = " [" + strings.Join(it.Tags, ", ") + "]"
	}

	label := it.Primary
	if m.width > 0 {
		avail := m.width - 4
		if tags != "" && runewidth.StringWidth(tags) < avail/2 {
			avail -= runewidth.StringWidth(tags)
		} else {
			tags = ""
		}
		if it.Kind == item.KindLine {
			label = MiddleTruncate(label, avail)
		} else {
			label = EndTruncate(label, avail)
		}
	}

	style := normalStyle
	if selected {
		style = selectedStyle
	}
	return marker + pin + style.Render(label) + tagStyle.Render(tags)
}

// viewStatus renders counts, loading state and one-shot messages.
func (m Model) viewStatus() string {
	var parts []string
	if m.state == stateLoading {
		parts = append(parts, m.spinner.View())
	}
	parts = append(parts, dimStyle.Render(fmt.Sprintf("%d/%d", m.filter.Len(), m.filter.PoolLen())))
	if m.loadErr != nil {
		parts = append(parts, errorStyle.Render("source error: "+m.loadErr.Error()))
	}
	if m.status != "" {
		parts = append(parts, dimStyle.Render(m.status))
	}

	left := strings.Join(parts, " ")
	if m.width == 0 {
		return left
	}
	right := m.help.ShortHelpView(m.keys.ShortHelp())
	if gap := m.width - lipgloss.Width(left) - lipgloss.Width(right); gap > 0 {
		return left + strings.Repeat(" ", gap) + right
	}
	return left
}
