package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"linksum/internal/domain"
)

func (l *Loader) loadWebPage(ctx context.Context, u *url.URL) (*domain.Document, error) {
	rawURL := u.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, domain.NewError(domain.KindFetchError, rawURL, "create request", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguageHeader)

	resp, err := l.httpClient.Do(req) //nolint:gosec // URL is validated by the classifier.
	if err != nil {
		return nil, domain.NewError(domain.KindFetchError, rawURL, "do request", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			l.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", rawURL,
				"operation", "loadWebPage")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.NewError(domain.KindFetchBlocked, rawURL,
			fmt.Sprintf("unexpected status: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.NewError(domain.KindFetchError, rawURL, "read body", err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, domain.NewError(domain.KindFetchBlocked, rawURL, "response body is empty", nil)
	}

	contentType := resp.Header.Get("Content-Type")

	page, err := extractPage(body, contentType)
	if err != nil {
		return nil, domain.NewError(domain.KindFetchBlocked, rawURL, "extract text", err)
	}

	if page.text == "" {
		return nil, domain.NewError(domain.KindFetchBlocked, rawURL, "page has no readable text", nil)
	}

	l.log.DebugContext(ctx, "Web page is loaded",
		"url", rawURL,
		"status", resp.StatusCode,
		"contentType", contentType,
		"bodyLen", len(body),
		"textLen", len(page.text),
		"feed", page.feed)

	return &domain.Document{
		Text:      page.text,
		SourceURL: rawURL,
		Source:    domain.SourceWebPage,
		Title:     page.title,
	}, nil
}
