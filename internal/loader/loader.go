package loader

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"linksum/internal/domain"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"
	acceptHeader         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguageHeader = "en-US,en;q=0.9"

	maxBodyBytes = 10 << 20

	DefaultFetchTimeout = 30 * time.Second
)

//nolint:gochecknoglobals // Immutable default.
var DefaultLanguages = []string{"en", "hi"}

type Loader struct {
	httpClient  *http.Client
	transcripts TranscriptClient
	languages   []string
	log         *slog.Logger
}

func New(
	transcripts TranscriptClient,
	httpClient *http.Client,
	languages []string,
	log *slog.Logger,
) *Loader {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultFetchTimeout, false)
	}

	normalized := normalizeLanguages(languages)
	if len(normalized) == 0 {
		normalized = slices.Clone(DefaultLanguages)
	}

	return &Loader{
		httpClient:  httpClient,
		transcripts: transcripts,
		languages:   normalized,
		log:         log,
	}
}

// NewHTTPClient builds the client used for page and transcript requests.
func NewHTTPClient(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: insecureSkipVerify, //nolint:gosec // Opt-in via INSECURE_SKIP_VERIFY.
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func (l *Loader) Languages() []string {
	return slices.Clone(l.languages)
}

// Load produces a Document with non-empty text or a *domain.Error.
func (l *Loader) Load(
	ctx context.Context,
	source domain.ContentSource,
	u *url.URL,
) (*domain.Document, error) {
	if u == nil {
		return nil, domain.NewError(domain.KindInvalidURL, "", "URL is nil", nil)
	}

	switch source {
	case domain.SourceVideoTranscript:
		return l.loadTranscript(ctx, u)
	case domain.SourceWebPage:
		return l.loadWebPage(ctx, u)
	default:
		return nil, domain.NewError(domain.KindInvalidURL, u.String(),
			fmt.Sprintf("unsupported content source %q", source), nil)
	}
}

func normalizeLanguages(languages []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(languages))

	for _, lang := range languages {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" {
			continue
		}

		if _, ok := seen[lang]; ok {
			continue
		}

		seen[lang] = struct{}{}
		out = append(out, lang)
	}

	return out
}
