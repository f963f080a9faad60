package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/yougen/yougen/internal/config"
	"github.com/yougen/yougen/internal/database"
)

type infoOutput struct {
	Version  string         `json:"version"`
	Medium   string         `json:"medium"`
	DataDir  string         `json:"dataDir"`
	Location string         `json:"location,omitempty"`
	Schema   uint           `json:"schemaVersion,omitempty"`
	APIURL   string         `json:"apiUrl"`
	Counts   map[string]int `json:"counts"`
	Keys     []keyInfo      `json:"keys"`
}

type keyInfo struct {
	Key       string `json:"key"`
	Size      int64  `json:"size"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func newInfoCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show storage location and usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				info, err := collectInfo(context.Background(), a)
				if err != nil {
					return err
				}
				if format == "json" {
					return outputJSON(cmd, info)
				}
				return outputInfoTable(cmd, info)
			})
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

func collectInfo(ctx context.Context, a *app) (infoOutput, error) {
	info := infoOutput{
		Version: version,
		Medium:  a.cfg.Medium,
		DataDir: a.cfg.DataDir,
		APIURL:  a.cfg.APIURL,
		Counts:  map[string]int{},
	}
	switch a.cfg.Medium {
	case config.MediumSQLite:
		info.Location = a.cfg.DBPath()
		if a.db != nil {
			info.Schema = a.db.SchemaVersion
		}
	case config.MediumFile:
		info.Location = a.cfg.KVDir()
	}

	videos, err := a.store.Videos.List(ctx)
	if err != nil {
		return info, err
	}
	playlists, err := a.store.Playlists.List(ctx)
	if err != nil {
		return info, err
	}
	chats, err := a.store.Chats.List(ctx)
	if err != nil {
		return info, err
	}
	notes, err := a.store.Notes.List(ctx)
	if err != nil {
		return info, err
	}
	info.Counts["videos"] = len(videos)
	info.Counts["playlists"] = len(playlists)
	info.Counts["chats"] = len(chats)
	info.Counts["notes"] = len(notes)

	if repo, ok := a.store.Medium().(*database.KVRepository); ok {
		stats, err := repo.Stats(ctx)
		if err != nil {
			return info, err
		}
		for _, s := range stats {
			info.Keys = append(info.Keys, keyInfo{Key: s.Key, Size: s.Size, UpdatedAt: s.UpdatedAt.Format(time.RFC3339)})
		}
		return info, nil
	}

	medium := a.store.Medium()
	keys, err := medium.Keys(ctx)
	if err != nil {
		return info, err
	}
	for _, key := range keys {
		value, _, err := medium.Get(ctx, key)
		if err != nil {
			return info, err
		}
		info.Keys = append(info.Keys, keyInfo{Key: key, Size: int64(len(value))})
	}
	return info, nil
}

func outputInfoTable(cmd *cobra.Command, info infoOutput) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Version:   %s\n", info.Version)
	fmt.Fprintf(out, "Medium:    %s\n", info.Medium)
	fmt.Fprintf(out, "Data dir:  %s\n", info.DataDir)
	if info.Location != "" {
		fmt.Fprintf(out, "Location:  %s\n", info.Location)
	}
	if info.Schema > 0 {
		fmt.Fprintf(out, "Schema:    v%d\n", info.Schema)
	}
	fmt.Fprintf(out, "Backend:   %s\n", info.APIURL)
	fmt.Fprintf(out, "Records:   %d videos, %d playlists, %d chats, %d notes\n",
		info.Counts["videos"], info.Counts["playlists"], info.Counts["chats"], info.Counts["notes"])

	if len(info.Keys) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	t := newTable(cmd)
	t.AppendHeader(tableRow("Key", "Size", "Updated"))
	for _, k := range info.Keys {
		updated := "-"
		if when, err := time.Parse(time.RFC3339, k.UpdatedAt); err == nil {
			updated = humanize.Time(when)
		}
		t.AppendRow(tableRow(k.Key, humanize.Bytes(uint64(k.Size)), updated))
	}
	t.Render()
	return nil
}
