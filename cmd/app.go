package main

import (
	"context"
	"fmt"

	"linksum/internal/database"
	"linksum/internal/loader"
	"linksum/internal/modelconfig"
	"linksum/internal/pipeline"
	"linksum/internal/summarizer"
)

// defaultModel reads the persisted model, falling back to DEFAULT_MODEL.
func (a *app) defaultModel(ctx context.Context) string {
	mc, err := modelconfig.Load(a.cfg.ModelConfigPath, a.cfg.DefaultModel)
	if err != nil {
		a.log.WarnContext(ctx, "Failed to load model config so default is used",
			"error", err,
			"path", a.cfg.ModelConfigPath,
			"model", mc.Model)
	}

	return mc.Model
}

func (a *app) newPipeline(ctx context.Context, history pipeline.HistoryStore) (*pipeline.Pipeline, error) {
	model := a.defaultModel(ctx)

	if a.cfg.InsecureSkipVerify {
		a.log.WarnContext(ctx, "TLS certificate verification is disabled",
			"envVar", "INSECURE_SKIP_VERIFY")
	}

	httpClient := loader.NewHTTPClient(a.cfg.FetchTimeout, a.cfg.InsecureSkipVerify)
	l := loader.New(loader.NewYouTubeTranscripts(httpClient), httpClient, a.cfg.TranscriptLangs, a.log)

	if a.cfg.LLMAPIKey == "" {
		a.log.WarnContext(ctx, "LLM_API_KEY is missing so model requests will fail",
			"envVar", "LLM_API_KEY")
	}

	s, err := summarizer.NewOpenAISummarizer(summarizer.OpenAIConfig{
		APIKey:          a.cfg.LLMAPIKey,
		BaseURL:         a.cfg.LLMBaseURL,
		Model:           model,
		MaxOutputTokens: a.cfg.LLMMaxOutputTokens,
		MaxRetries:      a.cfg.LLMMaxRetries,
		RequestTimeout:  a.cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create summarizer: %w", err)
	}

	a.log.DebugContext(ctx, "Pipeline is initialized",
		"model", model,
		"baseURL", a.cfg.LLMBaseURL,
		"languages", l.Languages(),
		"cacheSize", a.cfg.SummaryCacheSize)

	return pipeline.New(l, s, history, pipeline.Config{
		DefaultModel: model,
		TargetWords:  a.cfg.SummaryWords,
		CacheSize:    a.cfg.SummaryCacheSize,
		CacheTTL:     a.cfg.SummaryCacheTTL,
	}, a.log), nil
}

func (a *app) openDatabase(ctx context.Context) (*database.Database, error) {
	db, err := database.New(ctx, a.cfg.DBPath, a.log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return db, nil
}

func (a *app) closeDatabase(ctx context.Context, db *database.Database) {
	if err := db.Close(); err != nil {
		a.log.ErrorContext(ctx, "Failed to close db",
			"error", err,
			"dbPath", a.cfg.DBPath)
	}
}
