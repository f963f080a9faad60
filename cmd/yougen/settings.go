package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yougen/yougen/internal/store"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change application settings",
	}
	cmd.AddCommand(newSettingsShowCmd(opts))
	cmd.AddCommand(newSettingsSetCmd(opts))
	cmd.AddCommand(newSettingsResetCmd(opts))
	return cmd
}

func newSettingsShowCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				settings, err := a.store.Settings.Load(context.Background())
				if err != nil {
					return err
				}
				return outputSettings(cmd, settings, format)
			})
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

func newSettingsSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "set <key=value>...",
		Short:   "Change one or more settings",
		Example: "  yougen settings set theme=dark fontScale=1.2 autoplay=false",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				ctx := context.Background()
				current, err := a.store.Settings.Load(ctx)
				if err != nil {
					return err
				}
				updated, err := applyAssignments(current, args)
				if err != nil {
					return err
				}
				if err := a.store.Settings.Save(ctx, updated); err != nil {
					return err
				}
				return outputSettings(cmd, updated, "table")
			})
		},
	}
}

func newSettingsResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(a *app) error {
				settings, err := a.store.Settings.Reset(context.Background())
				if err != nil {
					return err
				}
				return outputSettings(cmd, settings, "table")
			})
		},
	}
}

// applyAssignments sets key=value pairs on settings by their JSON names. The
// value is parsed according to the current field's type.
func applyAssignments(settings store.Settings, assignments []string) (store.Settings, error) {
	fields, err := settingsFields(settings)
	if err != nil {
		return settings, err
	}

	for _, assignment := range assignments {
		key, raw, ok := strings.Cut(assignment, "=")
		if !ok {
			return settings, fmt.Errorf("invalid assignment %q (expected key=value)", assignment)
		}
		current, known := fields[key]
		if !known {
			return settings, fmt.Errorf("unknown setting: %s", key)
		}
		switch current.(type) {
		case bool:
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return settings, fmt.Errorf("%s must be true or false", key)
			}
			fields[key] = v
		case float64:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return settings, fmt.Errorf("%s must be a number", key)
			}
			fields[key] = v
		default:
			fields[key] = raw
		}
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return settings, err
	}
	var updated store.Settings
	if err := json.Unmarshal(data, &updated); err != nil {
		return settings, err
	}
	return updated, nil
}

func settingsFields(settings store.Settings) (map[string]any, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func outputSettings(cmd *cobra.Command, settings store.Settings, format string) error {
	if format == "json" {
		return outputJSON(cmd, settings)
	}
	fields, err := settingsFields(settings)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := newTable(cmd)
	t.AppendHeader(tableRow("Setting", "Value"))
	for _, k := range keys {
		t.AppendRow(tableRow(k, fields[k]))
	}
	t.Render()
	return nil
}
