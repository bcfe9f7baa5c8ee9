package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"linksum/internal/config"

	"github.com/spf13/cobra"
)

// errReported marks failures that were already shown to the user.
var errReported = errors.New("error is reported")

type app struct {
	cfg config.Config
	log *slog.Logger
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}

		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "linksum",
		Short:         "Summarize YouTube videos and web pages with a language model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.AddCommand(
		newSummarizeCommand(a),
		newServeCommand(a),
		newModelCommand(a),
		newHistoryCommand(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Summaries go to stdout, so one-shot commands log to stderr.
	var w io.Writer = os.Stderr
	if cmd.Name() == "serve" {
		w = os.Stdout
	}

	a.cfg = cfg
	a.log = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(a.log)

	return nil
}
