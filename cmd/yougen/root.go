package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	medium     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "yougen",
		Short:         "yougen - notes and chats for YouTube videos",
		Long:          "yougen keeps video metadata, AI chats and notes for YouTube videos and playlists on the local machine.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config.toml (default $XDG_CONFIG_HOME/yougen/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.medium, "medium", "", "Storage medium: sqlite, file or memory")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(newVideoCmd(opts))
	cmd.AddCommand(newPlaylistCmd(opts))
	cmd.AddCommand(newChatCmd(opts))
	cmd.AddCommand(newNoteCmd(opts))
	cmd.AddCommand(newSettingsCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newInfoCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))

	return cmd
}
