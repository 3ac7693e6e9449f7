package components

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vgdesk/internal/ui/theme"
)

type PaletteSubmitMsg struct{ Input string }

type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle  = lipgloss.NewStyle().Foreground(theme.Subtext0)
	matchStyle = lipgloss.NewStyle().Foreground(theme.Sapphire)
)

// paletteCommands mirrors executePalette in app/model.go.
var paletteCommands = []struct {
	verb  string
	usage string
}{
	{"video", "video <path>            pick one video (tab completes)"},
	{"videos", "videos <path...>        pick files or folders for a batch"},
	{"query", "query <text>            what to look for"},
	{"run", "run                     analyse the current tab"},
	{"play", "play [rank]             stream, seeking to the Nth moment"},
	{"clear", "clear                   reset the current tab"},
	{"history:refresh", "history:refresh         reload history"},
	{"history:mine", "history:mine            only my analyses"},
}

const maxShown = 6

// Palette reads one command line. Paths after video/videos complete on tab.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	matches []string
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "video ~/clips/lobby.mp4"
	ti.CharLimit = 1024
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.matches = nil
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			line, matches := CompleteLine(p.input.Value())
			p.input.SetValue(line)
			p.input.CursorEnd()
			p.matches = matches
			return p, nil
		}
		p.matches = nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.matches = nil
	p.input.Blur()
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var lines []string
	if len(p.matches) > 1 {
		for _, m := range p.matches[:min(len(p.matches), maxShown)] {
			lines = append(lines, matchStyle.Render("  "+filepath.Base(strings.TrimSuffix(m, string(filepath.Separator)))))
		}
		if extra := len(p.matches) - maxShown; extra > 0 {
			lines = append(lines, hintStyle.Render("  …"))
		}
	} else {
		for _, usage := range Hints(p.input.Value()) {
			lines = append(lines, hintStyle.Render("  "+usage))
		}
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(lines) > 0 {
		sb.WriteString("\n" + strings.Join(lines, "\n") + "\n")
	}

	w := p.width
	if w < 20 {
		w = 72
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

// Hints returns the usage lines whose command starts with the first word
// typed so far.
func Hints(line string) []string {
	verb, _, typedArgs := strings.Cut(strings.TrimLeft(strings.ToLower(line), " "), " ")
	var out []string
	for _, c := range paletteCommands {
		if (typedArgs && c.verb == verb) || (!typedArgs && strings.HasPrefix(c.verb, verb)) {
			out = append(out, c.usage)
		}
	}
	return out
}

// CompleteLine extends the last word of a video or videos command to the
// longest prefix shared by the paths it matches. Directories get a trailing
// separator. Other commands come back unchanged.
func CompleteLine(line string) (string, []string) {
	verb, _, ok := strings.Cut(line, " ")
	if !ok || (verb != "video" && verb != "videos") {
		return line, nil
	}
	cut := strings.LastIndex(line, " ") + 1
	word := line[cut:]
	matches, err := filepath.Glob(escapeGlob(expandHome(word)) + "*")
	if err != nil || len(matches) == 0 {
		return line, nil
	}
	sort.Strings(matches)
	for i, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			matches[i] = m + string(filepath.Separator)
		}
	}
	return line[:cut] + commonPrefix(matches), matches
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func escapeGlob(path string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(path)
}

func commonPrefix(values []string) string {
	prefix := values[0]
	for _, v := range values[1:] {
		for !strings.HasPrefix(v, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
