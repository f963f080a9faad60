package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yougen/yougen/internal/services"
	"github.com/yougen/yougen/internal/store"
	"github.com/yougen/yougen/internal/youtube"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask questions about a video or playlist",
	}
	cmd.AddCommand(newChatAskCmd(opts))
	cmd.AddCommand(newChatShowCmd(opts))
	cmd.AddCommand(newChatListCmd(opts))
	return cmd
}

// resourceID accepts a video or playlist URL, or a bare resource id.
func resourceID(arg string) string {
	if res, err := youtube.Parse(arg); err == nil {
		return res.ID
	}
	return strings.TrimSpace(arg)
}

// parsePosition turns a --at value into a video timestamp.
func parsePosition(at string) (*youtube.Timestamp, error) {
	if at == "" {
		return nil, nil
	}
	seconds, err := youtube.ParseDuration(at)
	if err != nil {
		return nil, fmt.Errorf("invalid --at value %q: %w", at, err)
	}
	ts := youtube.TimestampAt(float64(seconds))
	return &ts, nil
}

func newChatAskCmd(opts *rootOptions) *cobra.Command {
	var (
		language string
		at       string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "ask <id|url> <message...>",
		Short: "Ask the assistant a question and store the exchange",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			position, err := parsePosition(at)
			if err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				res, err := a.chat.Ask(context.Background(), services.AskInput{
					ResourceID:     resourceID(args[0]),
					Message:        strings.Join(args[1:], " "),
					Language:       language,
					VideoTimestamp: position,
				})
				if err != nil {
					return err
				}
				if format == "json" {
					return outputJSON(cmd, res)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, res.Answer.Content)
				if len(res.Suggestions) > 0 {
					fmt.Fprintln(out)
					fmt.Fprintln(out, "Follow-up questions:")
					for _, s := range res.Suggestions {
						fmt.Fprintf(out, "  - %s\n", s)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", services.DefaultLanguage, "Answer language")
	cmd.Flags().StringVar(&at, "at", "", "Video position the question refers to (e.g. 1:23)")
	addFormatFlag(cmd, &format)
	return cmd
}

func newChatShowCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id|url>",
		Short: "Print the chat attached to a video or playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			id := resourceID(args[0])
			return withApp(opts, func(a *app) error {
				chat, err := a.store.Chats.ByResource(context.Background(), id)
				if err != nil {
					return err
				}
				if chat == nil {
					return fmt.Errorf("no chat for %s", id)
				}
				if format == "json" {
					return outputJSON(cmd, chat)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s\n\n", chat.Title)
				for _, m := range chat.Messages {
					when := m.Timestamp.Time().Format(time.DateTime)
					if m.VideoTimestamp != nil {
						when += " @ " + m.VideoTimestamp.Formatted
					}
					fmt.Fprintf(out, "[%s] %s (%s)\n%s\n\n", m.Role, when, m.ID, m.Content)
				}
				return nil
			})
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

func newChatListCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List chats, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				chats, err := a.store.Chats.Recent(context.Background(), limit)
				if err != nil {
					return err
				}
				if format == "json" {
					return outputJSON(cmd, chats)
				}
				outputChatTable(cmd, chats)
				return nil
			})
		},
	}

	addFormatFlag(cmd, &format)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n chats (0 for all)")
	return cmd
}

func outputChatTable(cmd *cobra.Command, chats []store.Chat) {
	t := newTable(cmd)
	ids := make([]string, 0, len(chats))
	for _, c := range chats {
		ids = append(ids, c.ResourceID)
	}
	resourceWidth := maxWidth(ids, 8, 34)
	titleWidth := flexWidth(resourceWidth, 8, 14)

	t.AppendHeader(tableRow("Resource", "Title", "Messages", "Updated"))
	for _, c := range chats {
		t.AppendRow(tableRow(c.ResourceID, truncate(c.Title, titleWidth), len(c.Messages), relative(c.UpdatedAt)))
	}
	t.Render()
}
