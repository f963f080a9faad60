package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yougen/yougen/internal/store"
	"github.com/yougen/yougen/internal/youtube"
)

func newPlaylistCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Show cached playlist metadata",
	}
	cmd.AddCommand(newPlaylistGetCmd(opts))
	cmd.AddCommand(newPlaylistListCmd(opts))
	cmd.AddCommand(newPlaylistFetchCmd(opts))
	return cmd
}

func newPlaylistGetCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <id|url>",
		Short: "Show a cached playlist and its videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			id, err := resolveID(args[0], youtube.KindPlaylist)
			if err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				p, err := a.store.Playlists.Get(context.Background(), id)
				if err != nil {
					return err
				}
				if p == nil {
					return fmt.Errorf("playlist not found: %s (use 'yougen playlist fetch' to load it)", id)
				}
				return outputPlaylist(cmd, *p, format)
			})
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

func newPlaylistFetchCmd(opts *rootOptions) *cobra.Command {
	var (
		format  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <id|url>",
		Short: "Load playlist metadata from the backend and cache it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			id, err := resolveID(args[0], youtube.KindPlaylist)
			if err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				p, err := a.library.OpenPlaylist(context.Background(), id, refresh)
				if err != nil {
					return err
				}
				return outputPlaylist(cmd, p, format)
			})
		},
	}

	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch even when the playlist is cached")
	return cmd
}

func newPlaylistListCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached playlists, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				playlists, err := a.store.Playlists.Recent(context.Background(), limit)
				if err != nil {
					return err
				}
				if format == "json" {
					return outputJSON(cmd, playlists)
				}
				t := newTable(cmd)
				titleWidth := flexWidth(34, 6, 14)
				t.AppendHeader(tableRow("ID", "Title", "Videos", "Updated"))
				for _, p := range playlists {
					t.AppendRow(tableRow(p.ID, truncate(p.Title, titleWidth), p.ItemCount, relative(p.UpdatedAt)))
				}
				t.Render()
				return nil
			})
		},
	}

	addFormatFlag(cmd, &format)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n playlists (0 for all)")
	return cmd
}

func outputPlaylist(cmd *cobra.Command, p store.PlaylistMetadata, format string) error {
	if format == "json" {
		return outputJSON(cmd, p)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:      %s\n", p.ID)
	fmt.Fprintf(out, "Title:   %s\n", p.Title)
	fmt.Fprintf(out, "Channel: %s\n", p.ChannelTitle)
	fmt.Fprintf(out, "Videos:  %d\n", p.ItemCount)
	fmt.Fprintf(out, "URL:     %s\n", youtube.PlaylistURL(p.ID))
	fmt.Fprintf(out, "Updated: %s\n", relative(p.UpdatedAt))
	if len(p.Videos) > 0 {
		fmt.Fprintln(out)
		outputVideoTable(cmd, p.Videos)
	}
	return nil
}
