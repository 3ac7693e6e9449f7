package history

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	historydto "vgdesk/internal/modules/history/dto"
	"vgdesk/internal/ui/theme"
)

type HistoryPort interface {
	List(ctx context.Context, limit int, userID string) ([]historydto.ItemOutput, error)
}

type LoadedMsg struct {
	Items []historydto.ItemOutput
	Err   error
}

type Model struct {
	port   HistoryPort
	table  table.Model
	items  []historydto.ItemOutput
	err    error
	width  int
	height int
}

func New(port HistoryPort) Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Sapphire).BorderForeground(theme.Surface1).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Lavender)
	t.SetStyles(styles)
	return Model{port: port, table: t}
}

func (m Model) Init() tea.Cmd {
	return m.LoadCmd("")
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(m.width))
		m.table.SetHeight(max(m.height-2, 3))

	case LoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.items = msg.Items
			m.table.SetRows(rows(msg.Items))
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Error.Render("history: " + m.err.Error())
	}
	if len(m.items) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No analyses yet"))
	}
	return m.table.View()
}

// LoadCmd reads up to 200 entries, only userID's when set.
func (m Model) LoadCmd(userID string) tea.Cmd {
	return func() tea.Msg {
		items, err := m.port.List(context.Background(), 0, userID)
		return LoadedMsg{Items: items, Err: err}
	}
}

func columns(width int) []table.Column {
	rest := max(width-16-12-12-4, 30)
	return []table.Column{
		{Title: "When", Width: 16},
		{Title: "File", Width: rest / 2},
		{Title: "Query", Width: rest - rest/2},
		{Title: "Type", Width: 12},
		{Title: "Status", Width: 12},
	}
}

func rows(items []historydto.ItemOutput) []table.Row {
	out := make([]table.Row, 0, len(items))
	for _, it := range items {
		out = append(out, table.Row{
			it.Time.Local().Format("2006-01-02 15:04"),
			it.FileName,
			it.Query,
			it.AnomalyType,
			it.Status,
		})
	}
	return out
}
