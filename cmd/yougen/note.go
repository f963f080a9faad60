package main

import (
	"bufio"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yougen/yougen/internal/store"
)

func newNoteCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes",
	}
	cmd.AddCommand(newNoteAddCmd(opts))
	cmd.AddCommand(newNoteEditCmd(opts))
	cmd.AddCommand(newNotePinCmd(opts, true))
	cmd.AddCommand(newNotePinCmd(opts, false))
	cmd.AddCommand(newNoteRemoveCmd(opts))
	cmd.AddCommand(newNoteListCmd(opts))
	cmd.AddCommand(newNoteSearchCmd(opts))
	cmd.AddCommand(newNoteExportCmd(opts))
	cmd.AddCommand(newNoteFromMessageCmd(opts))
	return cmd
}

func newNoteAddCmd(opts *rootOptions) *cobra.Command {
	var (
		title    string
		filePath string
		at       string
		color    string
		pinned   bool
	)

	cmd := &cobra.Command{
		Use:   "add <id|url>",
		Short: "Add a note to a video or playlist",
		Long:  "Add a note to a video or playlist. The body is read from --file or stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parsePosition(at)
			if err != nil {
				return err
			}
			content, err := readContent(cmd, filePath)
			if err != nil {
				return err
			}
			if title == "" {
				title = firstLine(content)
			}
			return withApp(opts, func(a *app) error {
				note, err := a.store.Notes.Create(context.Background(), store.NoteDraft{
					ResourceID:     resourceID(args[0]),
					Title:          title,
					Content:        strings.TrimRight(content, "\n"),
					Color:          color,
					Pinned:         pinned,
					VideoTimestamp: position,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), note.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Note title (default: first line of the body)")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Read content from file instead of stdin")
	cmd.Flags().StringVar(&at, "at", "", "Video position the note refers to (e.g. 1:23)")
	cmd.Flags().StringVar(&color, "color", "", "Note color (default: derived from the id)")
	cmd.Flags().BoolVar(&pinned, "pin", false, "Pin the note")
	return cmd
}

func newNoteEditCmd(opts *rootOptions) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "edit <note-id>",
		Short: "Edit a note with $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withApp(opts, func(a *app) error {
				ctx := context.Background()
				note, err := a.store.Notes.Get(ctx, id)
				if err != nil {
					return err
				}
				if note == nil {
					return fmt.Errorf("note not found: %s", id)
				}

				current := []byte(store.NoteText(*note))
				edited, editor, err := editInEditor(id, current)
				if err != nil {
					return err
				}

				titleChanged := cmd.Flags().Changed("title") && title != note.Title
				if sha256.Sum256(current) == sha256.Sum256(edited) && !titleChanged {
					fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
					return nil
				}

				updated := *note
				if titleChanged {
					updated.Title = title
				}
				if sha256.Sum256(current) != sha256.Sum256(edited) {
					updated.Content = strings.TrimRight(string(edited), "\n")
					updated.RichContent = ""
				}
				if _, err := a.store.Notes.Update(ctx, updated); err != nil {
					return err
				}
				a.logger.Debug("note edited", "note_id", id, "editor", editor)
				fmt.Fprintln(cmd.OutOrStdout(), "Note updated")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Also change the title")
	return cmd
}

// editInEditor opens content in $EDITOR and returns the saved result.
func editInEditor(name string, content []byte) ([]byte, string, error) {
	tempDir, err := os.MkdirTemp("", "yougen-edit-")
	if err != nil {
		return nil, "", err
	}
	defer os.RemoveAll(tempDir)

	tempFile := filepath.Join(tempDir, name+".md")
	if err := os.WriteFile(tempFile, content, 0o600); err != nil {
		return nil, "", err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, tempFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return nil, editor, fmt.Errorf("editor exited with error: %w", err)
	}

	//nolint:gosec // G304: tempFile is created above
	edited, err := os.ReadFile(tempFile)
	if err != nil {
		return nil, editor, err
	}
	return edited, editor, nil
}

func newNotePinCmd(opts *rootOptions, pinned bool) *cobra.Command {
	use, short := "pin <note-id>", "Pin a note to the top of lists"
	if !pinned {
		use, short = "unpin <note-id>", "Unpin a note"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				note, err := a.store.Notes.SetPinned(context.Background(), args[0], pinned)
				if err != nil {
					return err
				}
				if note == nil {
					return fmt.Errorf("note not found: %s", args[0])
				}
				return nil
			})
		},
	}
}

func newNoteRemoveCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "rm <note-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withApp(opts, func(a *app) error {
				ctx := context.Background()
				note, err := a.store.Notes.Get(ctx, id)
				if err != nil {
					return err
				}
				if note == nil {
					return fmt.Errorf("note not found: %s", id)
				}

				if !force {
					ok, err := confirm(cmd, fmt.Sprintf("Delete note '%s'? (y/N) ", note.Title))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled")
						return nil
					}
				}

				if err := a.store.Notes.Remove(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note '%s'\n", note.Title)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func confirm(cmd *cobra.Command, message string) (bool, error) {
	reader := bufio.NewReader(cmd.InOrStdin())
	fmt.Fprint(cmd.ErrOrStderr(), message)
	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}

func newNoteListCmd(opts *rootOptions) *cobra.Command {
	var (
		format   string
		resource string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, pinned first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				ctx := context.Background()
				var (
					notes []store.Note
					err   error
				)
				if resource != "" {
					notes, err = a.store.Notes.ListByResource(ctx, resourceID(resource))
				} else {
					notes, err = a.store.Notes.ListAllSorted(ctx)
				}
				if err != nil {
					return err
				}
				return outputNotes(cmd, notes, format)
			})
		},
	}

	addFormatFlag(cmd, &format)
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "Only notes for this video or playlist")
	return cmd
}

func newNoteSearchCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search note titles and content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				notes, err := a.store.Notes.Search(context.Background(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				return outputNotes(cmd, notes, format)
			})
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

func newNoteExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all notes as Markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(a *app) error {
				md, err := a.store.Notes.ExportMarkdown(context.Background())
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err := io.WriteString(cmd.OutOrStdout(), md)
					return err
				}
				if err := os.WriteFile(output, []byte(md), 0o600); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func newNoteFromMessageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "from-message <chat-id> <message-id>",
		Short: "Save a chat message as a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				note, err := a.notes.SaveMessageAsNote(context.Background(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), note.ID)
				return nil
			})
		},
	}
}

func outputNotes(cmd *cobra.Command, notes []store.Note, format string) error {
	if format == "json" {
		return outputJSON(cmd, notes)
	}

	t := newTable(cmd)
	titles := make([]string, 0, len(notes))
	for _, n := range notes {
		titles = append(titles, n.Title)
	}
	titleWidth := maxWidth(titles, 5, 40)
	textWidth := flexWidth(36, 1, titleWidth, 8, 14)

	t.AppendHeader(tableRow("ID", "", "Title", "Text", "At", "Updated"))
	for _, n := range notes {
		pin := ""
		if n.Pinned {
			pin = "*"
		}
		at := ""
		if n.VideoTimestamp != nil {
			at = n.VideoTimestamp.Formatted
		}
		t.AppendRow(tableRow(n.ID, pin, truncate(n.Title, titleWidth), truncate(store.NoteText(n), textWidth), at, relative(n.UpdatedAt)))
	}
	t.Render()
	return nil
}

func readContent(cmd *cobra.Command, filePath string) (string, error) {
	if filePath != "" {
		//nolint:gosec // G304: path comes from the user's own flag
		bytes, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		return string(bytes), nil
	}

	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Enter content (Ctrl-D when done):")
	}

	bytes, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return truncate(line, 60)
		}
	}
	return "Untitled note"
}
