package pipeline

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"linksum/internal/classifier"
	"linksum/internal/domain"
	"linksum/internal/summarizer"
)

const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = time.Hour
)

// Loader turns a classified URL into a Document.
type Loader interface {
	Load(ctx context.Context, source domain.ContentSource, u *url.URL) (*domain.Document, error)
}

// HistoryStore persists produced summaries.
type HistoryStore interface {
	AddSummary(ctx context.Context, record *domain.HistoryRecord) error
}

type Config struct {
	DefaultModel string
	TargetWords  int
	CacheSize    int
	CacheTTL     time.Duration
}

type Options struct {
	// Model overrides Config.DefaultModel.
	Model string
	// TargetWords overrides Config.TargetWords.
	TargetWords int
	// ChatID is recorded with the summary in history.
	ChatID int64
	// SkipHistory disables the history record for this request.
	SkipHistory bool
}

type Pipeline struct {
	loader     Loader
	summarizer summarizer.Summarizer
	history    HistoryStore
	cache      *summaryCache
	cfg        Config
	now        func() time.Time
	log        *slog.Logger
}

// New wires the pipeline. history may be nil.
func New(
	l Loader,
	s summarizer.Summarizer,
	history HistoryStore,
	cfg Config,
	log *slog.Logger,
) *Pipeline {
	if cfg.TargetWords <= 0 {
		cfg.TargetWords = summarizer.DefaultTargetWords
	}

	return &Pipeline{
		loader:     l,
		summarizer: s,
		history:    history,
		cache:      newSummaryCache(cfg.CacheSize, cfg.CacheTTL),
		cfg:        cfg,
		now:        time.Now,
		log:        log,
	}
}

func (p *Pipeline) DefaultModel() string {
	return p.cfg.DefaultModel
}

// Summarize runs classify, load and summarize once for rawURL.
func (p *Pipeline) Summarize(
	ctx context.Context,
	rawURL string,
	opts Options,
) (*domain.Summary, error) {
	source, u, err := classifier.Classify(rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := p.loader.Load(ctx, source, u)
	if err != nil {
		return nil, err
	}

	if doc == nil || strings.TrimSpace(doc.Text) == "" {
		return nil, emptyDocumentError(source, u.String())
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = p.cfg.DefaultModel
	}

	targetWords := opts.TargetWords
	if targetWords <= 0 {
		targetWords = p.cfg.TargetWords
	}

	sourceURL := doc.SourceURL
	if sourceURL == "" {
		sourceURL = u.String()
	}

	now := p.now().UTC()
	cacheKey, cacheable := newSummaryKey(sourceURL, model, targetWords, doc.Text)

	var (
		text   string
		cached bool
	)
	if cacheable {
		text, cached = p.cache.get(cacheKey, now)
	}

	if cached {
		p.log.InfoContext(ctx, "Summary cache hit",
			"url", sourceURL,
			"model", model,
			"source", source.String())
	} else {
		text, err = p.summarizer.Summarize(ctx, summarizer.Request{
			Text:        doc.Text,
			SourceURL:   sourceURL,
			Model:       model,
			TargetWords: targetWords,
		})
		if err != nil {
			return nil, err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			return nil, domain.NewError(domain.KindModelRequestError, sourceURL, "summary is empty", nil)
		}

		if cacheable {
			p.cache.put(cacheKey, text, now)
		}

		p.log.InfoContext(ctx, "Summary is generated",
			"url", sourceURL,
			"model", model,
			"source", source.String(),
			"textLen", len(doc.Text),
			"summaryLen", len(text))
	}

	summary := &domain.Summary{
		Text:      text,
		SourceURL: sourceURL,
		Source:    source,
		Title:     doc.Title,
		Model:     model,
		Cached:    cached,
		CreatedAt: now,
	}

	if !opts.SkipHistory {
		p.recordHistory(ctx, opts.ChatID, summary)
	}

	return summary, nil
}

func (p *Pipeline) recordHistory(ctx context.Context, chatID int64, summary *domain.Summary) {
	if p.history == nil {
		return
	}

	err := p.history.AddSummary(ctx, &domain.HistoryRecord{
		ChatID:    chatID,
		URL:       summary.SourceURL,
		Source:    summary.Source,
		Model:     summary.Model,
		Summary:   summary.Text,
		CreatedAt: summary.CreatedAt,
	})
	if err != nil {
		p.log.ErrorContext(ctx, "Failed to record summary history",
			"error", err,
			"url", summary.SourceURL,
			"chatID", chatID)
	}
}

func emptyDocumentError(source domain.ContentSource, rawURL string) error {
	if source == domain.SourceVideoTranscript {
		return domain.NewError(domain.KindTranscriptUnavailable, rawURL, "transcript is empty", nil)
	}

	return domain.NewError(domain.KindFetchBlocked, rawURL, "page has no readable text", nil)
}
