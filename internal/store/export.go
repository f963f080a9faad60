package store

import (
	"context"
	"strings"

	"golang.org/x/net/html"
)

// ExportMarkdown renders every note in storage order as
//
//	# <title>
//
//	Timestamp: <formatted>      (only for anchored notes)
//
//	<plain text>
//
//	---
//
// The output depends only on the stored notes.
func (s *NoteStore) ExportMarkdown(ctx context.Context) (string, error) {
	notes, err := s.col.All(ctx)
	if err != nil {
		return "", err
	}
	return RenderMarkdown(notes), nil
}

// RenderMarkdown is ExportMarkdown over an explicit note list.
func RenderMarkdown(notes []Note) string {
	var b strings.Builder
	for _, n := range notes {
		b.WriteString("# ")
		b.WriteString(n.Title)
		b.WriteString("\n\n")
		if n.VideoTimestamp != nil {
			b.WriteString("Timestamp: ")
			b.WriteString(n.VideoTimestamp.Formatted)
			b.WriteString("\n\n")
		}
		b.WriteString(NoteText(n))
		b.WriteString("\n\n---\n\n")
	}
	return b.String()
}

// NoteText returns the plain text of a note: the rich content with markup
// removed when present, otherwise the content field.
func NoteText(n Note) string {
	if n.RichContent != "" {
		return StripMarkup(n.RichContent)
	}
	return n.Content
}

var blockTags = map[string]bool{
	"address": true, "article": true, "blockquote": true, "br": true, "div": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "li": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "tr": true, "ul": true,
}

// StripMarkup converts an HTML fragment to plain text. Entities are decoded,
// block elements end a line and script or style bodies are dropped.
func StripMarkup(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tidyLines(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				switch tt {
				case html.StartTagToken:
					skip++
				case html.EndTagToken:
					if skip > 0 {
						skip--
					}
				}
				continue
			}
			if !blockTags[tag] {
				continue
			}
			if tt != html.StartTagToken || tag == "br" || tag == "hr" {
				b.WriteByte('\n')
			}
		}
	}
}

// tidyLines trims trailing blanks from each line, collapses runs of empty
// lines into one and trims the result.
func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r\u00a0")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.Trim(strings.Join(out, "\n"), "\n")
}
