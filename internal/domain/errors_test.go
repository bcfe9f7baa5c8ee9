package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"linksum/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesSentinelByKind(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("load page: %w",
		domain.NewError(domain.KindFetchError, "https://example.com", "do request", cause))

	assert.ErrorIs(t, err, domain.ErrFetchError)
	assert.NotErrorIs(t, err, domain.ErrFetchBlocked)
	assert.ErrorIs(t, err, cause)

	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindFetchError, kind)
}

func TestKindOfForeignError(t *testing.T) {
	_, ok := domain.KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorString(t *testing.T) {
	err := domain.NewError(domain.KindFetchBlocked, "https://example.com", "unexpected status: 403", nil)
	assert.Equal(t, "fetch_blocked: unexpected status: 403 (URL = https://example.com)", err.Error())
}

func TestUserMessageCoversEveryKind(t *testing.T) {
	kinds := []domain.Kind{
		domain.KindInvalidURL,
		domain.KindTranscriptUnavailable,
		domain.KindTranscriptNotFound,
		domain.KindTranscriptFetchError,
		domain.KindFetchBlocked,
		domain.KindFetchError,
		domain.KindModelAuthError,
		domain.KindModelRequestError,
	}

	fallback := domain.UserMessage(errors.New("unknown"))
	seen := make(map[string]struct{}, len(kinds))

	for _, kind := range kinds {
		msg := domain.UserMessage(&domain.Error{Kind: kind})
		assert.NotEqual(t, fallback, msg, "kind %s", kind)
		seen[msg] = struct{}{}
	}

	assert.Len(t, seen, len(kinds))
	assert.Empty(t, domain.UserMessage(nil))
}

func TestContentSourceRoundTrip(t *testing.T) {
	for _, s := range []domain.ContentSource{domain.SourceVideoTranscript, domain.SourceWebPage} {
		assert.Equal(t, s, domain.ParseContentSource(s.String()))
	}
	assert.Equal(t, domain.SourceUnknown, domain.ParseContentSource("bogus"))
}
