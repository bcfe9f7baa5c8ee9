package domain

import (
	"errors"
	"fmt"
)

// Kind discriminates pipeline failures so callers never match on messages.
type Kind string

const (
	KindInvalidURL            Kind = "invalid_url"
	KindTranscriptUnavailable Kind = "transcript_unavailable"
	KindTranscriptNotFound    Kind = "transcript_not_found"
	KindTranscriptFetchError  Kind = "transcript_fetch_error"
	KindFetchBlocked          Kind = "fetch_blocked"
	KindFetchError            Kind = "fetch_error"
	KindModelAuthError        Kind = "model_auth_error"
	KindModelRequestError     Kind = "model_request_error"
)

var (
	ErrInvalidURL            = &Error{Kind: KindInvalidURL}
	ErrTranscriptUnavailable = &Error{Kind: KindTranscriptUnavailable}
	ErrTranscriptNotFound    = &Error{Kind: KindTranscriptNotFound}
	ErrTranscriptFetchError  = &Error{Kind: KindTranscriptFetchError}
	ErrFetchBlocked          = &Error{Kind: KindFetchBlocked}
	ErrFetchError            = &Error{Kind: KindFetchError}
	ErrModelAuthError        = &Error{Kind: KindModelAuthError}
	ErrModelRequestError     = &Error{Kind: KindModelRequestError}
)

// Error is returned by every stage of the pipeline.
// Two errors are equal under errors.Is when their kinds match.
type Error struct {
	Kind    Kind
	URL     string
	Message string
	Cause   error
}

func NewError(kind Kind, rawURL string, message string, cause error) *Error {
	return &Error{Kind: kind, URL: rawURL, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.URL != "" {
		msg += fmt.Sprintf(" (URL = %s)", e.URL)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return "", false
}

// UserMessage renders err as text suitable for an end user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	kind, _ := KindOf(err)

	switch kind {
	case KindInvalidURL:
		return "Invalid URL. Please enter a correct YouTube or website URL."
	case KindTranscriptUnavailable:
		return "Transcripts are disabled or unavailable for this video."
	case KindTranscriptNotFound:
		return "Could not find a video ID in this URL."
	case KindTranscriptFetchError:
		return "Error fetching transcript. Please try again later."
	case KindFetchBlocked:
		return "Failed to retrieve content. The page might be blocking requests."
	case KindFetchError:
		return "Failed to fetch the page. Check the URL and your connection."
	case KindModelAuthError:
		return "The language model rejected the credentials. Check the API key."
	case KindModelRequestError:
		return "The language model request failed. Please try again later."
	default:
		return "An unexpected error occurred."
	}
}
