package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yougen/yougen/internal/store"
	"github.com/yougen/yougen/internal/youtube"
)

func newVideoCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Show cached video metadata",
	}
	cmd.AddCommand(newVideoGetCmd(opts))
	cmd.AddCommand(newVideoListCmd(opts))
	cmd.AddCommand(newVideoFetchCmd(opts))
	return cmd
}

// resolveID accepts a bare id or any YouTube URL of the wanted kind.
func resolveID(arg string, want youtube.Kind) (string, error) {
	res, err := youtube.Parse(arg)
	if err != nil {
		if want == youtube.KindPlaylist {
			return arg, nil
		}
		return "", err
	}
	if res.Kind != want {
		return "", fmt.Errorf("%s is a %s, not a %s", arg, res.Kind, want)
	}
	return res.ID, nil
}

func newVideoGetCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <id|url>",
		Short: "Show a cached video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			id, err := resolveID(args[0], youtube.KindVideo)
			if err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				v, err := a.store.Videos.Get(context.Background(), id)
				if err != nil {
					return err
				}
				if v == nil {
					return fmt.Errorf("video not found: %s (use 'yougen video fetch' to load it)", id)
				}
				return outputVideo(cmd, *v, format)
			})
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

func newVideoFetchCmd(opts *rootOptions) *cobra.Command {
	var (
		format  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <id|url>",
		Short: "Load video metadata from the backend and cache it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			id, err := resolveID(args[0], youtube.KindVideo)
			if err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				v, err := a.library.OpenVideo(context.Background(), id, refresh)
				if err != nil {
					return err
				}
				return outputVideo(cmd, v, format)
			})
		},
	}

	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch even when the video is cached")
	return cmd
}

func newVideoListCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached videos, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				videos, err := a.store.Videos.Recent(context.Background(), limit)
				if err != nil {
					return err
				}
				if format == "json" {
					return outputJSON(cmd, videos)
				}
				outputVideoTable(cmd, videos)
				return nil
			})
		},
	}

	addFormatFlag(cmd, &format)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n videos (0 for all)")
	return cmd
}

func outputVideo(cmd *cobra.Command, v store.VideoMetadata, format string) error {
	if format == "json" {
		return outputJSON(cmd, v)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", v.ID)
	fmt.Fprintf(out, "Title:     %s\n", v.Title)
	fmt.Fprintf(out, "Channel:   %s\n", v.ChannelTitle)
	fmt.Fprintf(out, "Duration:  %s\n", v.Duration)
	fmt.Fprintf(out, "Published: %s\n", v.PublishedAt)
	fmt.Fprintf(out, "Views:     %s\n", v.ViewCount)
	fmt.Fprintf(out, "URL:       %s\n", youtube.VideoURL(v.ID))
	fmt.Fprintf(out, "Updated:   %s\n", relative(v.UpdatedAt))
	return nil
}

func outputVideoTable(cmd *cobra.Command, videos []store.VideoMetadata) {
	t := newTable(cmd)
	channels := make([]string, 0, len(videos))
	for _, v := range videos {
		channels = append(channels, v.ChannelTitle)
	}
	channelWidth := maxWidth(channels, 7, 24)
	titleWidth := flexWidth(11, channelWidth, 8, 14)

	t.AppendHeader(tableRow("ID", "Title", "Channel", "Duration", "Updated"))
	for _, v := range videos {
		t.AppendRow(tableRow(v.ID, truncate(v.Title, titleWidth), truncate(v.ChannelTitle, channelWidth), v.Duration, relative(v.UpdatedAt)))
	}
	t.Render()
}
