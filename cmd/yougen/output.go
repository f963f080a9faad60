package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yougen/yougen/internal/store"
)

func outputJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// flexWidth returns the width left for one free-text column after the fixed
// columns and table borders are taken out of the terminal width.
func flexWidth(fixed ...int) int {
	width := getTerminalWidth() - 3*(len(fixed)+1) - 1
	for _, w := range fixed {
		width -= w
	}
	if width < 15 {
		width = 15
	}
	return width
}

// truncate cuts s to maxWidth display columns. Newlines become spaces.
func truncate(s string, maxWidth int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, maxWidth, "...")
}

// maxWidth returns the widest display width among values, capped at limit.
func maxWidth(values []string, floor, limit int) int {
	width := floor
	for _, v := range values {
		if w := runewidth.StringWidth(v); w > width {
			width = w
		}
	}
	if width > limit {
		width = limit
	}
	return width
}

func relative(ms store.Millis) string {
	if ms == 0 {
		return "-"
	}
	return humanize.Time(ms.Time())
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}

func tableRow(cells ...any) table.Row {
	return table.Row(cells)
}
