package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analysisdto "vgdesk/internal/modules/analysis/dto"
	apperrors "vgdesk/internal/platform/errors"
	"vgdesk/internal/ui/components"
	"vgdesk/internal/ui/theme"
	analyzeview "vgdesk/internal/ui/views/analyze"
	batchview "vgdesk/internal/ui/views/batch"
	historyview "vgdesk/internal/ui/views/history"
)

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabAnalyze tabID = iota
	tabBatch
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{
	"Analyze", "Batch", "History",
}

// ─── async messages ───────────────────────────────────────────────────────────

type fileSelectedMsg struct {
	path string
	err  error
}

type filesSelectedMsg struct {
	count int
	err   error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Play    key.Binding
	Run     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play selection")),
		Play:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play whole video")),
		Run:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run analysis")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Play, k.Run},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Viewer is the signed-in account shown in the status bar. A zero Viewer is a
// guest.
type Viewer struct {
	ID   string
	Name string
}

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; rendering is delegated to sub-views.
type Model struct {
	viewer Viewer

	analyze analyzeview.AnalyzePort
	batch   batchview.BatchPort

	analyzeView analyzeview.Model
	batchView   batchview.Model
	historyView historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	viewer Viewer,
	analyze analyzeview.AnalyzePort,
	batch batchview.BatchPort,
	history historyview.HistoryPort,
) Model {
	return Model{
		viewer:      viewer,
		analyze:     analyze,
		batch:       batch,
		analyzeView: analyzeview.New(analyze),
		batchView:   batchview.New(batch),
		historyView: historyview.New(history),
		activeTab:   tabAnalyze,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.analyzeView.Init(),
		m.batchView.Init(),
		m.historyView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case fileSelectedMsg:
		if msg.err != nil {
			m.status = "video: " + msg.err.Error()
		} else {
			m.status = "video selected: " + msg.path
		}
		m.analyzeView.Refresh()

	case filesSelectedMsg:
		if msg.err != nil {
			m.status = "videos: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("%d videos selected", msg.count)
		}
		m.batchView.Refresh()

	// Submission results arrive after the user may have switched tabs, so
	// they are routed to their view directly.
	case analyzeview.SubmittedMsg:
		m.status = submitStatus("analysis", msg.Err)
		m.analyzeView, _ = m.analyzeView.Update(msg)
		return m, m.historyView.LoadCmd("")

	case batchview.SubmittedMsg:
		m.status = submitStatus("batch", msg.Err)
		m.batchView, _ = m.batchView.Update(msg)
		return m, nil

	case batchview.ProgressMsg:
		var cmd tea.Cmd
		m.batchView, cmd = m.batchView.Update(msg)
		if msg.Progress.Active && msg.Progress.CurrentFileName != "" {
			m.status = fmt.Sprintf("batch %d/%d: %s", msg.Progress.Current, msg.Progress.Total, msg.Progress.CurrentFileName)
		}
		return m, cmd

	// Animation ticks keep running while another tab is shown.
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.analyzeView, cmd = m.analyzeView.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.batchView, cmd = m.batchView.Update(msg)
		return m, cmd

	case analyzeview.PlayedMsg:
		m.status = playStatus(msg.Out.Target, msg.Out.Launched, msg.Err)

	case batchview.PlayedMsg:
		m.status = playStatus(msg.Out.Target, msg.Out.Launched, msg.Err)

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.activeTab == tabBatch && m.batchView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "r":
			return m.run()
		case "p":
			return m, m.playCmd(false)
		case "enter":
			if cmd := m.playCmd(true); cmd != nil {
				return m, cmd
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabAnalyze:
		m.analyzeView, tabCmd = m.analyzeView.Update(msg)
	case tabBatch:
		m.batchView, tabCmd = m.batchView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabAnalyze:
		return m.analyzeView.View()
	case tabBatch:
		return m.batchView.View()
	case tabHistory:
		return m.historyView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "vgdesk  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	who := "guest"
	if m.viewer.ID != "" {
		who = m.viewer.Name
	}
	left := theme.Hot.Render("● "+who) + "  " + m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "video":
		if rest == "" {
			m.status = "usage: video <path>"
			return m, nil
		}
		m.activeTab = tabAnalyze
		return m, m.selectFileCmd(rest)

	case "videos":
		if len(parts) < 2 {
			m.status = "usage: videos <path...>"
			return m, nil
		}
		m.activeTab = tabBatch
		return m, m.selectFilesCmd(parts[1:])

	case "query":
		switch m.activeTab {
		case tabBatch:
			m.batch.SetQuery(rest)
			m.batchView.Refresh()
		default:
			m.activeTab = tabAnalyze
			m.analyze.SetQuery(rest)
			m.analyzeView.Refresh()
		}
		m.status = "query set"
		return m, nil

	case "run":
		return m.run()

	case "play":
		rank := 0
		if len(parts) >= 2 {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				m.status = "usage: play [rank]"
				return m, nil
			}
			rank = n
		}
		if m.activeTab == tabBatch {
			return m, m.batchView.PlayCmd(m.batchView.SelectedVideo(), rank)
		}
		if n := momentCount(m.analyze.State()); rank < 0 || rank > n {
			m.status = fmt.Sprintf("play: rank must be between 0 and %d", n)
			return m, nil
		}
		return m, m.analyzeView.PlayCmd(rank)

	case "clear":
		switch m.activeTab {
		case tabBatch:
			if err := m.batch.Clear(context.Background()); err != nil {
				m.status = "clear: " + err.Error()
				return m, nil
			}
			m.batchView.Refresh()
		default:
			m.analyze.Clear(context.Background())
			m.analyzeView.Refresh()
		}
		m.status = "cleared"
		return m, nil

	case "history:refresh":
		m.activeTab = tabHistory
		return m, m.historyView.LoadCmd("")

	case "history:mine":
		m.activeTab = tabHistory
		if m.viewer.ID == "" {
			m.status = "sign in with `vgdesk auth login` to filter history"
			return m, nil
		}
		return m, m.historyView.LoadCmd(m.viewer.ID)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) run() (tea.Model, tea.Cmd) {
	switch m.activeTab {
	case tabBatch:
		if m.batchView.Loading() {
			m.status = "batch already running"
			return m, nil
		}
		m.batchView.Begin()
		m.status = "batch started"
		return m, m.batchView.SubmitCmd()
	case tabAnalyze:
		if m.analyzeView.Loading() {
			m.status = "analysis already running"
			return m, nil
		}
		m.analyzeView.Begin()
		m.status = "analyzing…"
		return m, m.analyzeView.SubmitCmd()
	}
	return m, nil
}

// playCmd plays the selection on the active tab. With atMoment false the whole
// video is played.
func (m Model) playCmd(atMoment bool) tea.Cmd {
	switch m.activeTab {
	case tabAnalyze:
		rank := 0
		if atMoment {
			rank = m.analyzeView.SelectedRank()
		}
		return m.analyzeView.PlayCmd(rank)
	case tabBatch:
		rank := 0
		if atMoment {
			rank = 1
		}
		return m.batchView.PlayCmd(m.batchView.SelectedVideo(), rank)
	}
	return nil
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.analyzeView, _ = m.analyzeView.Update(sz)
	m.batchView, _ = m.batchView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

func momentCount(state analysisdto.StateOutput) int {
	if state.Results == nil {
		return 0
	}
	return len(state.Results.Ranked)
}

func submitStatus(what string, err error) string {
	switch {
	case err == nil:
		return what + " completed"
	case errors.Is(err, apperrors.ErrValidation):
		return what + ": missing video or query"
	case errors.Is(err, apperrors.ErrSubmissionInFlight):
		return what + " already running"
	default:
		return what + " failed"
	}
}

func playStatus(target string, launched bool, err error) string {
	switch {
	case err != nil:
		return "play: " + err.Error()
	case launched:
		return "playing " + target
	default:
		return "stream at " + target
	}
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) selectFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		err := m.analyze.SelectFile(context.Background(), path)
		return fileSelectedMsg{path: path, err: err}
	}
}

func (m Model) selectFilesCmd(paths []string) tea.Cmd {
	return func() tea.Msg {
		n, err := m.batch.SelectPaths(context.Background(), paths)
		return filesSelectedMsg{count: n, err: err}
	}
}
