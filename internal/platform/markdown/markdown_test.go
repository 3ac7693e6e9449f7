package markdown_test

import (
	"strings"
	"testing"

	"vgdesk/internal/platform/markdown"
)

func TestRenderFrontmatterKeepsOrderAndSplits(t *testing.T) {
	t.Parallel()
	doc, err := markdown.RenderFrontmatter([]markdown.Field{
		{Key: "query", Value: "person falling"},
		{Key: "best_score", Value: 0.9},
		{Key: "moments", Value: 2},
	}, "# Report\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Index(doc, "query:") > strings.Index(doc, "best_score:") {
		t.Fatalf("expected field order to be preserved:\n%s", doc)
	}
	meta, body, err := markdown.SplitFrontmatter(doc)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta["query"] != "person falling" || meta["moments"] != 2 {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if !strings.Contains(body, "# Report") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestSplitFrontmatterWithoutHeader(t *testing.T) {
	t.Parallel()
	meta, body, err := markdown.SplitFrontmatter("plain")
	if err != nil || len(meta) != 0 || body != "plain" {
		t.Fatalf("unexpected split: %+v %q %v", meta, body, err)
	}
	if _, _, err := markdown.SplitFrontmatter("---\nkey: 1\n"); err == nil {
		t.Fatalf("expected missing separator error")
	}
}

func TestReplaceBlockPreservesSurroundingText(t *testing.T) {
	t.Parallel()
	body := markdown.ReplaceBlock("my notes\n", "moments", "v1")
	if !strings.HasPrefix(body, "my notes\n\n<!-- vgdesk:moments:start -->\nv1\n") {
		t.Fatalf("unexpected first render %q", body)
	}
	body = markdown.ReplaceBlock(body+"footer\n", "moments", "v2")
	if strings.Contains(body, "v1") || !strings.Contains(body, "v2") || !strings.HasSuffix(body, "footer\n") {
		t.Fatalf("unexpected replace %q", body)
	}
	if got := markdown.ReplaceBlock("", "x", "y"); got != "<!-- vgdesk:x:start -->\ny\n<!-- vgdesk:x:end -->\n" {
		t.Fatalf("unexpected empty-body render %q", got)
	}
}

func TestTableEscapesPipes(t *testing.T) {
	t.Parallel()
	got := markdown.Table([]string{"a", "b"}, [][]string{{"1", "x|y"}})
	want := "| a | b |\n| --- | --- |\n| 1 | x\\|y |\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
