package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"linksum/internal/domain"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultBaseURL         = "https://api.groq.com/openai/v1/"
	DefaultMaxOutputTokens = 1024
	DefaultMaxRetries      = 2

	limitMaxOutputTokens int64 = 4096
	finishReasonLength         = "length"

	temperature = 0.2

	systemPrompt = `You summarize web pages and video transcripts.
Write in the same language as the content.
Output only the summary, without preambles or closing remarks.`
)

// OpenAIConfig contains configuration for the OpenAI-compatible summarizer.
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int64
	MaxRetries      int
	RequestTimeout  time.Duration
	HTTPClient      *http.Client
}

// OpenAISummarizer calls a Chat Completions API to produce summaries.
type OpenAISummarizer struct {
	client          openai.Client
	apiKey          string
	model           string
	maxOutputTokens int64
}

// NewOpenAISummarizer builds a new summarizer instance.
func NewOpenAISummarizer(cfg OpenAIConfig) (*OpenAISummarizer, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("model is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	maxOutputTokens := cfg.MaxOutputTokens
	if maxOutputTokens <= 0 {
		maxOutputTokens = DefaultMaxOutputTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(max(cfg.MaxRetries, 0)),
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.RequestTimeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAISummarizer{
		client:          openai.NewClient(opts...),
		apiKey:          strings.TrimSpace(cfg.APIKey),
		model:           model,
		maxOutputTokens: maxOutputTokens,
	}, nil
}

func (s *OpenAISummarizer) Model() string {
	return s.model
}

// Summarize sends the whole text in one request and returns the generated text.
func (s *OpenAISummarizer) Summarize(
	ctx context.Context,
	req Request,
) (string, error) {
	sourceURL := strings.TrimSpace(req.SourceURL)

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", domain.NewError(domain.KindModelRequestError, sourceURL, "input is empty", nil)
	}

	if s.apiKey == "" {
		return "", domain.NewError(domain.KindModelAuthError, sourceURL, "API key is missing", nil)
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = s.model
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(Prompt(text, req.TargetWords)),
		},
		Temperature: openai.Float(temperature),
	}

	maxOutputTokens := s.maxOutputTokens
	limit := max(maxOutputTokens, limitMaxOutputTokens)

	for {
		params.MaxCompletionTokens = openai.Int(maxOutputTokens)

		resp, err := s.client.Chat.Completions.New(ctx, params)
		if err != nil {
			var apiErr *openai.Error
			if errors.As(err, &apiErr) &&
				(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
				return "", domain.NewError(domain.KindModelAuthError, sourceURL, "do request", err)
			}

			return "", domain.NewError(domain.KindModelRequestError, sourceURL, "do request", err)
		}

		if len(resp.Choices) > 0 && resp.Choices[0].FinishReason == finishReasonLength {
			if maxOutputTokens < limit {
				maxOutputTokens = min(maxOutputTokens*2, limit)
				continue
			}

			return "", domain.NewError(domain.KindModelRequestError, sourceURL, fmt.Sprintf(
				"response is incomplete (reason = %s, maxOutputTokens = %d)",
				resp.Choices[0].FinishReason,
				maxOutputTokens,
			), nil)
		}

		return completionText(sourceURL, resp)
	}
}

// completionText returns the first choice's content, or the raw response when
// the content is missing so the caller still sees what the model returned.
func completionText(sourceURL string, resp *openai.ChatCompletion) (string, error) {
	if resp == nil {
		return "", domain.NewError(domain.KindModelRequestError, sourceURL, "response is missing", nil)
	}

	if len(resp.Choices) > 0 {
		if summary := strings.TrimSpace(resp.Choices[0].Message.Content); summary != "" {
			return summary, nil
		}
	}

	if raw := strings.TrimSpace(resp.RawJSON()); raw != "" {
		return raw, nil
	}

	return "", domain.NewError(domain.KindModelRequestError, sourceURL,
		fmt.Sprintf("response has no content (choices = %d)", len(resp.Choices)), nil)
}
