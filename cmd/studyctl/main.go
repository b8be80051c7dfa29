// Command studyctl answers study questions and manages study content from
// the terminal.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-study/internal/agent"
	"github.com/p-n-ai/pai-study/internal/export"
	"github.com/p-n-ai/pai-study/internal/knowledge"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Content comes from --content when set,
// otherwise from the compiled-in study material.
func newRootCmd() *cobra.Command {
	var (
		contentDir string
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "studyctl",
		Short:         "Oligopoly study assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVar(&contentDir, "content", "", "content directory (default: built-in content)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	load := func() (*knowledge.Store, error) {
		if contentDir == "" {
			return knowledge.Default()
		}
		return knowledge.LoadDir(contentDir)
	}

	root.AddCommand(
		newAskCmd(load),
		newTopicsCmd(load),
		newValidateCmd(load, &contentDir),
		newExportCmd(load),
	)
	return root
}

type loader func() (*knowledge.Store, error)

func newAskCmd(load loader) *cobra.Command {
	var (
		videoID  string
		showRule bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a study question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := load()
			if err != nil {
				return err
			}
			if videoID != "" {
				if _, ok := store.GetVideo(videoID); !ok {
					return fmt.Errorf("video %q: %w", videoID, knowledge.ErrNotFound)
				}
			}

			reply := agent.NewEngine(knowledge.NewHolder(store)).Respond(args[0], videoID)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, reply.Text)
			if showRule {
				fmt.Fprintf(out, "\n[rule: %s]\n", reply.Rule)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&videoID, "video", "", "answer in the context of this video id")
	cmd.Flags().BoolVar(&showRule, "rule", false, "print which response rule fired")
	return cmd
}

func newTopicsCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List knowledge-base topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := load()
			if err != nil {
				return err
			}
			return writeTopics(cmd.OutOrStdout(), store)
		},
	}
}

func writeTopics(w io.Writer, store *knowledge.Store) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tKEYWORDS")
	for _, t := range store.AllTopics() {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", t.Key, t.Title(), len(t.Keywords))
	}
	return tw.Flush()
}

// newValidateCmd checks the directory given as an argument, falling back to
// --content and then the built-in content.
func newValidateCmd(load loader, contentDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check a content directory for schema and consistency errors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				store *knowledge.Store
				err   error
				src   string
			)
			switch {
			case len(args) == 1:
				src = args[0]
				store, err = knowledge.LoadDir(src)
			case *contentDir != "":
				src = *contentDir
				store, err = load()
			default:
				src = "built-in content"
				store, err = load()
			}
			if err != nil {
				return fmt.Errorf("%s: %w", src, err)
			}

			st := store.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d topics, %d videos, %d quiz questions, %d flashcards (version %s)\n",
				src, st.Topics, st.Videos, st.Quiz, st.Flashcards, store.Version())
			return nil
		},
	}
}

func newExportCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write flashcards and quiz questions to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := load()
			if err != nil {
				return err
			}

			err = writeFile(args[0], func(w io.Writer) error {
				return export.WriteWorkbook(w, store)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}

// writeFile creates path and fills it with write. A failed write leaves no
// partial file behind.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Warn("removing partial file", "path", path, "error", rmErr)
		}
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
