package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"linksum/internal/database"
	"linksum/internal/domain"
	"linksum/internal/markdown"
	"linksum/internal/modelconfig"
)

const welcomeText = `🤖 *Welcome to Linksum\!*

Send me a link and I will reply with a concise summary:

– YouTube videos are summarized from their transcripts
– Any other web page is summarized from its text
– Show or change the language model with /model or /model <id>
– See your recent summaries with /history`

const timeLayout = "2006-01-02 15:04 UTC"

func (b *Bot) handleModelCommand(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		model := b.chatModel(ctx, chatID)
		if model == "" {
			model = b.summarizer.DefaultModel()
		}

		return b.sendMessage(ctx, chatID,
			fmt.Sprintf("🧠 Current model is `%s`\\.", markdown.EscapeV2(model)))
	}

	if err := modelconfig.ValidateModel(args); err != nil {
		b.log.InfoContext(ctx, "Rejected model override",
			"error", err,
			"chatID", chatID,
			"model", args)

		return b.sendMessage(ctx, chatID, "❌ "+markdown.EscapeV2(err.Error()))
	}

	if err := b.store.UpsertChatSettings(ctx, &domain.ChatSettings{ChatID: chatID, Model: args}); err != nil {
		errs := []error{fmt.Errorf("upsert chat settings: %w", err)}

		if sendErr := b.sendMessage(ctx, chatID, "❌ Failed\\."); sendErr != nil {
			errs = append(errs, fmt.Errorf("send message: %w", sendErr))
		}

		return errors.Join(errs...)
	}

	return b.sendMessage(ctx, chatID,
		fmt.Sprintf("✅ Model is set to `%s`\\.", markdown.EscapeV2(args)))
}

func (b *Bot) handleHistoryCommand(ctx context.Context, chatID int64) error {
	records, err := b.store.GetChatHistory(ctx, chatID, database.DefaultHistoryLimit)
	if err != nil {
		errs := []error{fmt.Errorf("get chat history: %w", err)}

		if sendErr := b.sendMessage(ctx, chatID, "❌ Failed\\."); sendErr != nil {
			errs = append(errs, fmt.Errorf("send message: %w", sendErr))
		}

		return errors.Join(errs...)
	}

	if len(records) == 0 {
		return b.sendMessage(ctx, chatID, "✖️ History is empty\\.")
	}

	return b.sendMessage(ctx, chatID, formatHistory(records))
}

func formatHistory(records []domain.HistoryRecord) string {
	var sb strings.Builder

	sb.WriteString("📜 *Recent summaries*")

	for _, r := range records {
		fmt.Fprintf(&sb, "\n\n*%s* \\(%s\\)\n%s\n%s",
			markdown.EscapeV2(r.CreatedAt.UTC().Format(timeLayout)),
			markdown.EscapeV2(r.Model),
			markdown.EscapeV2(r.URL),
			markdown.EscapeV2(r.Summary))
	}

	return sb.String()
}
