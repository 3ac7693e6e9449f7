package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	analysisout "vgdesk/internal/modules/analysis/adapter/out"
	"vgdesk/internal/modules/analysis/domain"
	"vgdesk/internal/platform/markdown"
)

func sampleReport() domain.Report {
	return domain.Report{
		Query: "person falling",
		File:  domain.VideoFile{Name: "Hall Cam 2.mp4", Size: 3 * 1024 * 1024},
		Results: domain.Results{MomentRetrieval: []domain.Moment{
			{StartTime: "00:02", EndTime: "00:05", Score: 0.3},
			{StartTime: "00:40", EndTime: "00:44", Score: 0.88},
		}},
		GeneratedAt: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestMarkdownReportDefaultPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path, err := analysisout.NewMarkdownReportWriter(dir).Write(context.Background(), "", sampleReport())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(dir, "reports", "hall-cam-2.md") {
		t.Fatalf("unexpected path %s", path)
	}
	raw, _ := os.ReadFile(path)
	meta, body, err := markdown.SplitFrontmatter(string(raw))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta["best_moment"] != "00:40-00:44" || meta["moments"] != 2 || meta["size"] != "3.00 MB" {
		t.Fatalf("unexpected frontmatter %+v", meta)
	}
	if strings.Index(body, "00:40") > strings.Index(body, "00:02") {
		t.Fatalf("expected moments ranked by score:\n%s", body)
	}
	if !strings.Contains(body, "| 88.0% | high |") {
		t.Fatalf("expected score band column:\n%s", body)
	}
}

func TestMarkdownReportKeepsNotes(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "report.md")
	writer := analysisout.NewMarkdownReportWriter(t.TempDir())
	if _, err := writer.Write(context.Background(), path, sampleReport()); err != nil {
		t.Fatalf("first write: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if err := os.WriteFile(path, append(raw, []byte("\nReviewed by night shift.\n")...), 0o644); err != nil {
		t.Fatalf("append notes: %v", err)
	}

	report := sampleReport()
	report.Results.MomentRetrieval = report.Results.MomentRetrieval[:1]
	if _, err := writer.Write(context.Background(), path, report); err != nil {
		t.Fatalf("second write: %v", err)
	}
	raw, _ = os.ReadFile(path)
	doc := string(raw)
	if !strings.Contains(doc, "Reviewed by night shift.") {
		t.Fatalf("notes were dropped:\n%s", doc)
	}
	if strings.Contains(doc, "00:40") || strings.Count(doc, "vgdesk:moments:start") != 1 {
		t.Fatalf("moments block not replaced:\n%s", doc)
	}
}
