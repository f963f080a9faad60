package store

import (
	"context"
	"testing"

	"github.com/yougen/yougen/internal/youtube"
)

func TestExportMarkdownFormat(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	_ = s.Notes.col.SaveAll(ctx, []Note{
		{ID: "1", Title: "Intro", Content: "plain body", Pinned: false, CreatedAt: 1},
		{
			ID:             "2",
			Title:          "Key point",
			Content:        "ignored",
			RichContent:    "<h2>Idea</h2><p>Use <strong>Go</strong> &amp; tests</p><ul><li>one</li><li>two</li></ul>",
			VideoTimestamp: &youtube.Timestamp{Seconds: 83, Formatted: "1:23"},
			Pinned:         true,
			CreatedAt:      2,
		},
	})

	got, err := s.Notes.ExportMarkdown(ctx)
	if err != nil {
		t.Fatalf("ExportMarkdown: %v", err)
	}

	want := "# Intro\n\nplain body\n\n---\n\n" +
		"# Key point\n\nTimestamp: 1:23\n\nIdea\nUse Go & tests\none\ntwo\n\n---\n\n"
	if got != want {
		t.Fatalf("unexpected export:\n%q\nwant:\n%q", got, want)
	}
}

func TestExportMarkdownIsStable(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	for _, title := range []string{"b", "a", "c"} {
		_, _ = s.Notes.Create(ctx, NoteDraft{ResourceID: "v1", Title: title, RichContent: "<p>x</p>"})
	}

	first, err := s.Notes.ExportMarkdown(ctx)
	if err != nil {
		t.Fatalf("ExportMarkdown: %v", err)
	}
	second, _ := s.Notes.ExportMarkdown(ctx)
	if first != second {
		t.Fatalf("export not byte-identical")
	}
}

func TestExportMarkdownEmpty(t *testing.T) {
	s, _, _ := newTestStore(t)
	got, err := s.Notes.ExportMarkdown(context.Background())
	if err != nil || got != "" {
		t.Fatalf("ExportMarkdown on empty store = %q, %v", got, err)
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "no markup", want: "no markup"},
		{name: "inline", in: "<em>a</em> <code>b</code>", want: "a b"},
		{name: "paragraphs", in: "<p>one</p><p>two</p>", want: "one\ntwo"},
		{name: "break", in: "line<br>next<br/>last", want: "line\nnext\nlast"},
		{name: "entities", in: "<p>&lt;tag&gt; &quot;q&quot; &#39;s&#39;</p>", want: `<tag> "q" 's'`},
		{name: "empty paragraphs collapse", in: "<p>a</p><p></p><p></p><p>b</p>", want: "a\n\nb"},
		{name: "script dropped", in: "<p>ok</p><script>alert(1)</script>", want: "ok"},
		{name: "unclosed", in: "<p>dangling <b>bold", want: "dangling bold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Fatalf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
