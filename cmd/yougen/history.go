package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yougen/yougen/internal/store"
)

type historyOutput struct {
	Notes store.History[store.Note] `json:"notes"`
	Chats store.History[store.Chat] `json:"chats"`
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent notes and chats grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				ctx := context.Background()
				notes, err := a.store.Notes.History(ctx)
				if err != nil {
					return err
				}
				chats, err := a.store.Chats.History(ctx)
				if err != nil {
					return err
				}
				if format == "json" {
					return outputJSON(cmd, historyOutput{Notes: notes, Chats: chats})
				}

				out := cmd.OutOrStdout()
				if notes.Len()+chats.Len() == 0 {
					fmt.Fprintln(out, "No history yet")
					return nil
				}
				sections := []struct {
					name  string
					notes []store.Note
					chats []store.Chat
				}{
					{"Today", notes.Today, chats.Today},
					{"This week", notes.ThisWeek, chats.ThisWeek},
					{"Older", notes.Older, chats.Older},
				}
				for _, s := range sections {
					if len(s.notes)+len(s.chats) == 0 {
						continue
					}
					fmt.Fprintf(out, "%s\n", s.name)
					t := newTable(cmd)
					width := flexWidth(4, 34, 14)
					t.AppendHeader(tableRow("Kind", "Resource", "Title", "Updated"))
					for _, c := range s.chats {
						t.AppendRow(tableRow("chat", c.ResourceID, truncate(c.Title, width), relative(c.UpdatedAt)))
					}
					for _, n := range s.notes {
						t.AppendRow(tableRow("note", n.ResourceID, truncate(n.Title, width), relative(n.UpdatedAt)))
					}
					t.Render()
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}
