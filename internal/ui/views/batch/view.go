package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	batchdomain "vgdesk/internal/modules/batch/domain"
	batchdto "vgdesk/internal/modules/batch/dto"
	"vgdesk/internal/platform/timecode"
	"vgdesk/internal/ui/components"
	"vgdesk/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type BatchPort interface {
	SelectPaths(ctx context.Context, paths []string) (int, error)
	SetQuery(query string)
	Submit(ctx context.Context) (batchdto.StateOutput, error)
	State() batchdto.StateOutput
	OnProgress(listener func(batchdto.ProgressOutput)) func()
	Play(ctx context.Context, video, rank int) (batchdto.PlayOutput, error)
	Clear(ctx context.Context) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type SubmittedMsg struct {
	State batchdto.StateOutput
	Err   error
}

type ProgressMsg struct {
	Progress batchdto.ProgressOutput
}

type PlayedMsg struct {
	Out batchdto.PlayOutput
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type videoItem struct {
	pos   int
	video batchdomain.VideoResult
	best  bool
}

func (i videoItem) Title() string {
	if i.best {
		return "★ " + i.video.FileName
	}
	return i.video.FileName
}
func (i videoItem) Description() string {
	return theme.Score(i.video.HighestScore).Render(timecode.Percent(i.video.HighestScore)) +
		fmt.Sprintf("  %d moments  %s", len(i.video.Results.MomentRetrieval), timecode.FormatFileSize(i.video.FileSize))
}
func (i videoItem) FilterValue() string { return i.video.FileName }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     BatchPort
	state    batchdto.StateOutput
	progress batchdto.ProgressOutput
	updates  chan batchdto.ProgressOutput
	videos   list.Model
	bar      progress.Model
	width    int
	height   int
}

// New subscribes to progress updates for the lifetime of the program.
func New(port BatchPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Batch results"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	updates := make(chan batchdto.ProgressOutput, 16)
	if port != nil {
		port.OnProgress(func(p batchdto.ProgressOutput) {
			select {
			case updates <- p:
			default:
			}
		})
	}

	return Model{
		port:    port,
		updates: updates,
		videos:  l,
		bar:     progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Green))),
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitProgress()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ProgressMsg:
		m.progress = msg.Progress
		cmds = append(cmds, m.waitProgress())
		if msg.Progress.Total > 0 {
			cmds = append(cmds, m.bar.SetPercent(float64(msg.Progress.Current)/float64(msg.Progress.Total)))
		}

	case SubmittedMsg:
		m.Refresh()

	case progress.FrameMsg:
		model, cmd := m.bar.Update(msg)
		if bar, ok := model.(progress.Model); ok {
			m.bar = bar
		}
		cmds = append(cmds, cmd)
	}

	var lCmd tea.Cmd
	m.videos, lCmd = m.videos.Update(msg)
	cmds = append(cmds, lCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width / 2
	detailW := m.width - listW
	left := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.videos.View())
	right := theme.Pane.Width(max(detailW-4, 10)).Height(max(m.height-2, 1)).Render(m.renderDetail(detailW - 6))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *Model) Refresh() {
	m.state = m.port.State()
	items := []list.Item{}
	if r := m.state.Results; r != nil {
		for i, v := range r.Videos {
			best := r.HasBest && v.FileName == r.Best.FileName && v.VideoURL == r.Best.VideoURL
			items = append(items, videoItem{pos: i + 1, video: v, best: best})
		}
	}
	m.videos.SetItems(items)
}

// Begin shows the loading state until the batch reports back.
func (m *Model) Begin() {
	m.state.Loading = true
	m.state.Error = ""
}

// SelectedVideo is the 1-based position of the highlighted video, or zero.
func (m Model) SelectedVideo() int {
	if item, ok := m.videos.SelectedItem().(videoItem); ok {
		return item.pos
	}
	return 0
}

func (m Model) Filtering() bool {
	return m.videos.FilterState() == list.Filtering
}

func (m Model) Loading() bool { return m.state.Loading }

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) SubmitCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.port.Submit(context.Background())
		return SubmittedMsg{State: state, Err: err}
	}
}

func (m Model) PlayCmd(video, rank int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Play(context.Background(), video, rank)
		return PlayedMsg{Out: out, Err: err}
	}
}

func (m Model) waitProgress() tea.Cmd {
	return func() tea.Msg {
		return ProgressMsg{Progress: <-m.updates}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	m.videos.SetSize(m.width/2, m.height)
	m.bar.Width = max(m.width/2-8, 10)
}

func (m Model) renderDetail(width int) string {
	s := m.state
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Batch") + "\n\n")
	sb.WriteString(theme.Muted.Render("files:  ") + fmt.Sprintf("%d selected", len(s.Files)) + "\n")
	sb.WriteString(theme.Muted.Render("query:  ") + s.Query + "\n\n")

	switch {
	case s.Loading:
		p := m.progress
		sb.WriteString(fmt.Sprintf("Processing %d of %d", p.Current, p.Total))
		if p.CurrentFileName != "" {
			sb.WriteString(": " + p.CurrentFileName)
		}
		sb.WriteString("\n" + m.bar.View() + "\n")
	case s.Error != "":
		sb.WriteString(theme.Error.Render(s.Error) + "\n")
	case s.Results != nil:
		r := s.Results
		sb.WriteString(fmt.Sprintf("%d of %d videos processed\n\n", r.TotalProcessed, len(s.Files)))
		if r.HasBest {
			sb.WriteString(theme.Hot.Render("Best video ") + r.Best.FileName + "  " +
				theme.Score(r.Best.HighestScore).Render(timecode.Percent(r.Best.HighestScore)) + "\n")
			if r.Best.BestMoment != nil {
				sb.WriteString(theme.Muted.Render("moment: ") + r.Best.BestMoment.StartTime + " → " + r.Best.BestMoment.EndTime + "\n")
			}
			sb.WriteString("\n" + components.Sparkline(r.Best.Results.HighlightDetection, max(width, 10)) + "\n")
		}
	default:
		sb.WriteString(theme.Muted.Render("Pick videos with :videos <path...>, then :run") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: play best moment  r: run"))
	return sb.String()
}
