package components

import (
	"strings"

	"github.com/samber/lo"

	"vgdesk/internal/modules/analysis/domain"
	"vgdesk/internal/platform/timecode"
	"vgdesk/internal/ui/theme"
)

var blocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the highlight curve in width cells. Each cell shows the
// highest sample that falls inside its time slice; empty slices repeat the
// previous cell.
func Sparkline(points []domain.HighlightPoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return theme.Muted.Render("no highlight data")
	}
	last := lo.MaxBy(points, func(a, b domain.HighlightPoint) bool { return a.X > b.X }).X
	span := last
	if span <= 0 {
		span = 1
	}
	cells := make([]float64, width)
	filled := make([]bool, width)
	for _, p := range points {
		idx := int(p.X / span * float64(width-1))
		idx = max(0, min(idx, width-1))
		if !filled[idx] || p.Y > cells[idx] {
			cells[idx] = p.Y
			filled[idx] = true
		}
	}
	var sb strings.Builder
	prev := 0.0
	for i, y := range cells {
		if !filled[i] {
			y = prev
		}
		prev = y
		level := int(y * float64(len(blocks)-1))
		level = max(0, min(level, len(blocks)-1))
		sb.WriteString(theme.Score(y).Render(string(blocks[level])))
	}
	axis := timecode.FromSeconds(0) + strings.Repeat(" ", max(1, width-10)) + timecode.FromSeconds(last)
	return sb.String() + "\n" + theme.Muted.Render(axis)
}
