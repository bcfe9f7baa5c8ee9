package bot

import (
	"context"
	"fmt"
	"strings"

	"linksum/internal/domain"
	"linksum/internal/markdown"
	"linksum/internal/pipeline"

	"github.com/go-telegram/bot/models"
	"mvdan.cc/xurls/v2"
)

const throttledText = "⏳ Too many requests\\. Please wait a bit and try again\\."

//nolint:gochecknoglobals // Compiled once, safe for concurrent use.
var urlPattern = xurls.Strict()

func (b *Bot) handleMessage(ctx context.Context, message *models.Message) error {
	text := strings.TrimSpace(message.Text)
	chatID := message.Chat.ID
	command, args := parseCommand(text)

	switch command {
	case "/start", "/help":
		return b.sendMessage(ctx, chatID, welcomeText)
	case "/model":
		return b.handleModelCommand(ctx, chatID, args)
	case "/history":
		return b.handleHistoryCommand(ctx, chatID)
	}

	if text == "" {
		return nil
	}

	userID, _ := sender(message)

	return b.handleURLText(ctx, chatID, userID, text)
}

func (b *Bot) handleURLText(ctx context.Context, chatID int64, userID int64, text string) error {
	if !b.allowRequest(chatID, userID) {
		b.log.InfoContext(ctx, "Request is throttled",
			"chatID", chatID,
			"userID", userID)

		return b.sendMessage(ctx, chatID, throttledText)
	}

	rawURL := extractURL(text)

	return b.withSpinner(ctx, chatID, func() error {
		requestCtx, cancel := context.WithTimeout(ctx, b.requestTimeout)
		defer cancel()

		model := b.chatModel(requestCtx, chatID)

		summary, err := b.summarizer.Summarize(requestCtx, rawURL, pipeline.Options{
			Model:  model,
			ChatID: chatID,
		})
		if err != nil {
			kind, _ := domain.KindOf(err)
			b.log.WarnContext(ctx, "Failed to summarize URL",
				"error", err,
				"kind", kind,
				"url", rawURL,
				"chatID", chatID,
				"model", model)

			return b.sendMessage(ctx, chatID, "❌ "+markdown.EscapeV2(domain.UserMessage(err)))
		}

		b.log.InfoContext(ctx, "URL is summarized",
			"url", summary.SourceURL,
			"source", summary.Source.String(),
			"model", summary.Model,
			"cached", summary.Cached,
			"chatID", chatID)

		return b.sendMessage(ctx, chatID, formatSummary(summary))
	})
}

// chatModel returns the chat's model override, or "" for the pipeline default.
func (b *Bot) chatModel(ctx context.Context, chatID int64) string {
	settings, err := b.store.GetChatSettingsWithDefault(ctx, chatID)
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to get chat settings",
			"error", err,
			"chatID", chatID)

		return ""
	}

	return settings.Model
}

// extractURL returns the first URL in text, or the whole text when there is none.
func extractURL(text string) string {
	if found := urlPattern.FindString(text); found != "" {
		return found
	}

	return strings.TrimSpace(text)
}

// parseCommand splits "/cmd@bot args" into "/cmd" and "args".
// Text that is not a command yields an empty command.
func parseCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	command, args, _ := strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")

	return strings.ToLower(command), strings.TrimSpace(args)
}

func formatSummary(summary *domain.Summary) string {
	var sb strings.Builder

	if title := strings.TrimSpace(summary.Title); title != "" {
		fmt.Fprintf(&sb, "*%s*\n\n", markdown.EscapeV2(title))
	}

	sb.WriteString(markdown.EscapeV2(strings.TrimSpace(summary.Text)))
	fmt.Fprintf(&sb, "\n\n🔗 %s", markdown.EscapeV2(summary.SourceURL))

	return sb.String()
}
