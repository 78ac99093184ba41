package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newTranscriptCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newListCommand(ctx),
		newShowCommand(ctx),
		newUploadCommand(ctx),
		newReplaceAudioCommand(ctx),
		newRenameCommand(ctx),
		newEditCommand(ctx),
		newRemoveCommand(ctx),
		newAudioCommand(ctx),
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transcripts, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := ctx.transcripts.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No transcripts")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Words", "WPM", "Audio", "Created"},
				transcriptRows(list),
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a transcript with its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ctx.transcripts.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTranscript(cmd.OutOrStdout(), t)
			return nil
		},
	}
}

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an audio file and wait for its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ctx.transcripts.Upload(cmd.Context(), args[0], name)
			if err != nil {
				return fmt.Errorf("upload: %w", err)
			}
			printTranscript(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Transcript name (defaults to a timestamp)")
	return cmd
}

func newReplaceAudioCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "replace-audio <id> <file>",
		Short: "Replace a transcript's audio without transcribing it again",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ctx.transcripts.ReplaceAudio(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Audio replaced for %s\n", t.ID)
			return nil
		},
	}
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name...>",
		Short: "Rename a transcript",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ctx.transcripts.Rename(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", t.ID, t.Name)
			return nil
		},
	}
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> [text...]",
		Short: "Replace a transcript's text; reads stdin when no text is given",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				var err error
				text, err = GetMultiline(ctx.input(cmd), "New text", cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}
			t, err := ctx.transcripts.EditText(cmd.Context(), args[0], text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %d words, %d sentences, %.1f wpm\n",
				t.ID, t.WordCount, t.SentenceCount, t.SpeechRate)
			return nil
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a transcript and its audio",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.transcripts.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newAudioCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "audio <id> <out>",
		Short: "Download a transcript's audio; use - for stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			id, out := args[0], args[1]
			if out == "-" {
				_, err = ctx.transcripts.DownloadAudio(cmd.Context(), id, cmd.OutOrStdout())
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = cerr
				}
				if err != nil {
					_ = os.Remove(out)
				}
			}()

			n, err := ctx.transcripts.DownloadAudio(cmd.Context(), id, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d bytes to %s\n", n, out)
			return nil
		},
	}
}
