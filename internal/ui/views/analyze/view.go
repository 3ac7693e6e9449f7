package analyze

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analysisdomain "vgdesk/internal/modules/analysis/domain"
	analysisdto "vgdesk/internal/modules/analysis/dto"
	"vgdesk/internal/platform/timecode"
	"vgdesk/internal/ui/components"
	"vgdesk/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AnalyzePort interface {
	SelectFile(ctx context.Context, path string) error
	SetQuery(query string)
	Submit(ctx context.Context) (analysisdto.StateOutput, error)
	State() analysisdto.StateOutput
	Play(ctx context.Context, rank int) (analysisdto.PlayOutput, error)
	Clear(ctx context.Context)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SubmittedMsg struct {
	State analysisdto.StateOutput
	Err   error
}

type PlayedMsg struct {
	Out analysisdto.PlayOutput
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type momentItem struct {
	rank   int
	moment analysisdomain.Moment
}

func (i momentItem) Title() string {
	return fmt.Sprintf("#%d  %s → %s", i.rank, i.moment.StartTime, i.moment.EndTime)
}
func (i momentItem) Description() string {
	return theme.Score(i.moment.Score).Render(timecode.Percent(i.moment.Score)) + "  " + string(timecode.ScoreBand(i.moment.Score))
}
func (i momentItem) FilterValue() string { return i.moment.StartTime }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    AnalyzePort
	state   analysisdto.StateOutput
	moments list.Model
	spinner spinner.Model
	width   int
	height  int
}

func New(port AnalyzePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Moments"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, moments: l, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SubmittedMsg:
		m.Refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var lCmd tea.Cmd
	m.moments, lCmd = m.moments.Update(msg)
	cmds = append(cmds, lCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	detailW := m.width - listW

	left := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.moments.View())
	right := theme.Pane.Width(max(detailW-4, 10)).Height(max(m.height-2, 1)).Render(m.renderDetail(detailW - 6))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// Refresh pulls a fresh snapshot from the store.
func (m *Model) Refresh() {
	m.state = m.port.State()
	items := []list.Item{}
	if r := m.state.Results; r != nil {
		for i, mo := range r.Ranked {
			items = append(items, momentItem{rank: i + 1, moment: mo})
		}
	}
	m.moments.SetItems(items)
}

// SelectedRank is the 1-based rank of the highlighted moment, or zero.
func (m Model) SelectedRank() int {
	if item, ok := m.moments.SelectedItem().(momentItem); ok {
		return item.rank
	}
	return 0
}

func (m Model) Loading() bool { return m.state.Loading }

// Begin shows the loading state until the submission reports back.
func (m *Model) Begin() {
	m.state.Loading = true
	m.state.Error = ""
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) SubmitCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.port.Submit(context.Background())
		return SubmittedMsg{State: state, Err: err}
	}
}

func (m Model) PlayCmd(rank int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Play(context.Background(), rank)
		return PlayedMsg{Out: out, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	m.moments.SetSize(m.width*4/10, m.height)
}

func (m Model) renderDetail(width int) string {
	s := m.state
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Single video") + "\n\n")
	if s.FileName == "" {
		sb.WriteString(theme.Muted.Render("file:   ") + "none, use :video <path>\n")
	} else {
		sb.WriteString(theme.Muted.Render("file:   ") + s.FileName + " (" + timecode.FormatFileSize(s.FileSize) + ")\n")
	}
	sb.WriteString(theme.Muted.Render("query:  ") + s.Query + "\n")
	if s.VideoURL != "" {
		sb.WriteString(theme.Muted.Render("stream: ") + s.VideoURL + "\n")
	}
	sb.WriteString("\n")

	switch {
	case s.Loading:
		sb.WriteString(m.spinner.View() + " Analyzing video…\n")
	case s.Error != "":
		sb.WriteString(theme.Error.Render(s.Error) + "\n")
	case s.Results != nil:
		r := s.Results
		if r.HasBest {
			sb.WriteString(theme.Hot.Render("Best moment ") +
				fmt.Sprintf("%s → %s  ", r.Best.StartTime, r.Best.EndTime) +
				theme.Score(r.Best.Score).Render(timecode.Percent(r.Best.Score)) + "\n\n")
		} else {
			sb.WriteString(theme.Muted.Render("No moments matched the query.") + "\n\n")
		}
		sb.WriteString(theme.Title.Render("Highlight curve") + "\n")
		sb.WriteString(components.Sparkline(r.Highlights, max(width, 10)) + "\n")
	default:
		sb.WriteString(theme.Muted.Render("Set a video and a query, then :run") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: play moment  p: play video  r: run"))
	return sb.String()
}
