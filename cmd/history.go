package main

import (
	"fmt"
	"io"
	"time"

	"linksum/internal/database"
	"linksum/internal/domain"

	"github.com/spf13/cobra"
)

func newHistoryCommand(a *app) *cobra.Command {
	var (
		limit  int
		chatID int64
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := a.openDatabase(ctx)
			if err != nil {
				return err
			}
			defer a.closeDatabase(ctx, db)

			records, err := db.GetChatHistory(ctx, chatID, limit)
			if err != nil {
				return fmt.Errorf("get chat history: %w", err)
			}

			printHistory(cmd.OutOrStdout(), records)

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", database.DefaultHistoryLimit, "number of summaries to print")
	cmd.Flags().Int64Var(&chatID, "chat", 0, "Telegram chat ID; 0 is the command line")

	return cmd
}

func printHistory(w io.Writer, records []domain.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "History is empty.")
		return
	}

	for i, r := range records {
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "%s  %s  %s  %s\n%s\n",
			r.CreatedAt.UTC().Format(time.DateTime),
			r.Source,
			r.Model,
			r.URL,
			r.Summary)
	}
}
