package main

import (
	"context"
	"fmt"

	"linksum/internal/domain"
	"linksum/internal/modelconfig"
	"linksum/internal/pipeline"

	"github.com/spf13/cobra"
)

func newSummarizeCommand(a *app) *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "summarize <url>",
		Short: "Print a summary of a YouTube video or web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSummarize(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Model, "model", "", "model to use instead of the configured one")
	cmd.Flags().IntVar(&opts.TargetWords, "words", 0, "target summary length in words")
	cmd.Flags().BoolVar(&opts.SkipHistory, "no-history", false, "do not record the summary in history")

	return cmd
}

func (a *app) runSummarize(cmd *cobra.Command, rawURL string, opts pipeline.Options) error {
	ctx := cmd.Context()

	if opts.Model != "" {
		if err := modelconfig.ValidateModel(opts.Model); err != nil {
			return fmt.Errorf("invalid --model: %w", err)
		}
	}
	if opts.TargetWords < 0 {
		return fmt.Errorf("invalid --words: %d", opts.TargetWords)
	}

	var history pipeline.HistoryStore
	if !opts.SkipHistory {
		db, err := a.openDatabase(ctx)
		if err != nil {
			a.log.WarnContext(ctx, "History is disabled for this run",
				"error", err,
				"dbPath", a.cfg.DBPath)
		} else {
			defer a.closeDatabase(ctx, db)
			history = db
		}
	}

	p, err := a.newPipeline(ctx, history)
	if err != nil {
		return err
	}

	requestCtx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
	defer cancel()

	summary, err := p.Summarize(requestCtx, rawURL, opts)
	if err != nil {
		kind, _ := domain.KindOf(err)
		a.log.ErrorContext(ctx, "Failed to summarize URL",
			"error", err,
			"kind", kind,
			"url", rawURL)

		fmt.Fprintln(cmd.ErrOrStderr(), domain.UserMessage(err))

		return errReported
	}

	fmt.Fprintln(cmd.OutOrStdout(), summary.Text)

	return nil
}
