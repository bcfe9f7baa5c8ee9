package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"linksum/internal/domain"
	"linksum/internal/pipeline"
	"linksum/internal/ratelimiter"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"
)

const (
	updateProcessingTimeout = 3 * time.Minute
	defaultRequestTimeout   = 2 * time.Minute

	// A limiter idle this long has refilled its single token, so dropping it
	// loses no state.
	limiterIdleTTL = time.Hour
)

// Summarizer runs the summary pipeline for one URL.
type Summarizer interface {
	Summarize(ctx context.Context, rawURL string, opts pipeline.Options) (*domain.Summary, error)
	DefaultModel() string
}

// Store keeps per-chat history and settings.
type Store interface {
	GetChatHistory(ctx context.Context, chatID int64, limit int) ([]domain.HistoryRecord, error)
	GetChatSettingsWithDefault(ctx context.Context, chatID int64) (*domain.ChatSettings, error)
	UpsertChatSettings(ctx context.Context, settings *domain.ChatSettings) error
}

type messenger interface {
	Send(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	ChatAction(ctx context.Context, params *bot.SendChatActionParams) error
}

type Options struct {
	AllowedUsers      []int64
	RequestsPerMinute int
	RequestTimeout    time.Duration
}

type Bot struct {
	api            *bot.Bot
	rateLimiter    *ratelimiter.RateLimiter
	messenger      messenger
	summarizer     Summarizer
	store          Store
	allowedUsers   []int64
	userLimit      rate.Limit
	userLimiters   map[int64]*userLimiter
	limitersMu     sync.Mutex
	lastSweep      time.Time
	now            func() time.Time
	requestTimeout time.Duration
	log            *slog.Logger
}

func New(
	token string,
	summarizer Summarizer,
	store Store,
	opts Options,
	log *slog.Logger,
) (*Bot, error) {
	b := newBot(nil, summarizer, store, opts, log)

	api, err := bot.New(strings.TrimSpace(token),
		bot.WithDefaultHandler(b.handleUpdate),
		bot.WithErrorsHandler(func(err error) {
			b.log.Error("Telegram API error",
				"error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	b.api = api
	b.rateLimiter = ratelimiter.New(api, log)
	b.messenger = b.rateLimiter

	return b, nil
}

func newBot(
	m messenger,
	summarizer Summarizer,
	store Store,
	opts Options,
	log *slog.Logger,
) *Bot {
	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	userLimit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		userLimit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}

	return &Bot{
		messenger:      m,
		summarizer:     summarizer,
		store:          store,
		allowedUsers:   opts.AllowedUsers,
		userLimit:      userLimit,
		userLimiters:   make(map[int64]*userLimiter),
		now:            time.Now,
		requestTimeout: requestTimeout,
		log:            log,
	}
}

// Start polls for updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	b.api.Start(ctx)

	b.log.InfoContext(ctx, "Bot context is done",
		"error", ctx.Err())
}

func (b *Bot) Stop() {
	if b.rateLimiter != nil {
		b.rateLimiter.Stop()
	}
}

func (b *Bot) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}

	message := update.Message

	updateCtx, cancel := context.WithTimeout(ctx, updateProcessingTimeout)
	defer cancel()

	chatID := message.Chat.ID
	userID, username := sender(message)

	if !b.userAllowed(userID) {
		b.log.DebugContext(updateCtx, "User is not allowed",
			"userID", userID,
			"chatID", chatID,
			"username", username,
			"chatType", message.Chat.Type)

		return
	}

	if err := b.handleMessage(updateCtx, message); err != nil {
		b.log.ErrorContext(updateCtx, "Failed to handle message",
			"error", err,
			"chatID", chatID,
			"userID", userID,
			"chatType", message.Chat.Type,
			"messageID", message.ID)
	}
}

func sender(message *models.Message) (int64, string) {
	if message.From == nil {
		return 0, ""
	}

	return message.From.ID, message.From.Username
}

func (b *Bot) userAllowed(userID int64) bool {
	if len(b.allowedUsers) == 0 {
		return true
	}

	for _, id := range b.allowedUsers {
		if id == userID {
			return true
		}
	}

	return false
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// allowRequest reports whether the sender may start another summary now.
// Messages without a sender are limited per chat instead of sharing one bucket.
func (b *Bot) allowRequest(chatID int64, userID int64) bool {
	key := userID
	if key == 0 {
		key = chatID
	}

	now := b.now()

	b.limitersMu.Lock()
	defer b.limitersMu.Unlock()

	if now.Sub(b.lastSweep) >= limiterIdleTTL {
		b.sweepLimiters(now)
	}

	entry, ok := b.userLimiters[key]
	if !ok {
		entry = &userLimiter{limiter: rate.NewLimiter(b.userLimit, 1)}
		b.userLimiters[key] = entry
	}

	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

func (b *Bot) sweepLimiters(now time.Time) {
	for key, entry := range b.userLimiters {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(b.userLimiters, key)
		}
	}

	b.lastSweep = now
}
