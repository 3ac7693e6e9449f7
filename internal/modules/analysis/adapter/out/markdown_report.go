package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"vgdesk/internal/modules/analysis/domain"
	analysisout "vgdesk/internal/modules/analysis/port/out"
	"vgdesk/internal/platform/markdown"
	"vgdesk/internal/platform/slug"
	"vgdesk/internal/platform/timecode"
)

const momentsBlock = "moments"

// MarkdownReportWriter renders a report note. Re-exporting into an existing
// note rewrites the frontmatter and the moments block and keeps the rest.
type MarkdownReportWriter struct {
	dir string
}

func NewMarkdownReportWriter(dir string) analysisout.ReportWriter {
	return &MarkdownReportWriter{dir: dir}
}

func (w *MarkdownReportWriter) Write(_ context.Context, path string, report domain.Report) (string, error) {
	if path == "" {
		path = filepath.Join(w.dir, "reports", slug.FromFile(report.File.Name)+".md")
	}
	body := "# " + report.File.Name + "\n\n" + "Query: " + report.Query + "\n"
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		_, prior, splitErr := markdown.SplitFrontmatter(string(existing))
		if splitErr != nil {
			return "", fmt.Errorf("read existing report %s: %w", path, splitErr)
		}
		body = prior
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read existing report %s: %w", path, err)
	}

	body = markdown.ReplaceBlock(body, momentsBlock, momentsTable(report.Results))
	doc, err := markdown.RenderFrontmatter(reportFields(report), body)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func reportFields(report domain.Report) []markdown.Field {
	fields := []markdown.Field{
		{Key: "query", Value: report.Query},
		{Key: "file", Value: report.File.Name},
		{Key: "size", Value: timecode.FormatFileSize(report.File.Size)},
		{Key: "generated_at", Value: report.GeneratedAt.UTC().Format(time.RFC3339)},
		{Key: "moments", Value: len(report.Results.MomentRetrieval)},
		{Key: "highlights", Value: len(report.Results.HighlightDetection)},
	}
	if best, ok := report.Results.BestMoment(); ok {
		fields = append(fields,
			markdown.Field{Key: "best_moment", Value: best.StartTime + "-" + best.EndTime},
			markdown.Field{Key: "best_score", Value: best.Score},
		)
	}
	return fields
}

func momentsTable(results domain.Results) string {
	ranked := results.Ranked()
	if len(ranked) == 0 {
		return "_No moments found._"
	}
	rows := make([][]string, 0, len(ranked))
	for i, m := range ranked {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			m.StartTime,
			m.EndTime,
			timecode.Percent(m.Score),
			string(timecode.ScoreBand(m.Score)),
		})
	}
	return markdown.Table([]string{"#", "Start", "End", "Score", "Band"}, rows)
}
