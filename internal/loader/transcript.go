package loader

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"linksum/internal/classifier"
	"linksum/internal/domain"
)

// ErrTranscriptsDisabled is returned by a TranscriptClient when the video has
// no transcript in any of the requested languages.
var ErrTranscriptsDisabled = errors.New("transcripts are disabled")

type Transcript struct {
	Segments []domain.Segment
	Language string
	Title    string
}

// TranscriptClient fetches caption segments for a video, trying languages in order.
type TranscriptClient interface {
	Transcript(ctx context.Context, videoID string, languages []string) (*Transcript, error)
}

func (l *Loader) loadTranscript(ctx context.Context, u *url.URL) (*domain.Document, error) {
	rawURL := u.String()

	videoID, ok := classifier.VideoID(u)
	if !ok {
		return nil, domain.NewError(domain.KindTranscriptNotFound, rawURL, "video ID is not found", nil)
	}

	if l.transcripts == nil {
		return nil, domain.NewError(domain.KindTranscriptFetchError, rawURL, "transcript client is not configured", nil)
	}

	transcript, err := l.transcripts.Transcript(ctx, videoID, l.languages)
	if err != nil {
		if errors.Is(err, ErrTranscriptsDisabled) {
			return nil, domain.NewError(domain.KindTranscriptUnavailable, rawURL, "get transcript", err)
		}

		return nil, domain.NewError(domain.KindTranscriptFetchError, rawURL, "get transcript", err)
	}

	if transcript == nil {
		return nil, domain.NewError(domain.KindTranscriptUnavailable, rawURL, "transcript is missing", nil)
	}

	text := JoinSegments(transcript.Segments)
	if text == "" {
		return nil, domain.NewError(domain.KindTranscriptUnavailable, rawURL, "transcript is empty", nil)
	}

	l.log.DebugContext(ctx, "Transcript is loaded",
		"videoID", videoID,
		"language", transcript.Language,
		"segmentCount", len(transcript.Segments),
		"textLen", len(text))

	return &domain.Document{
		Text:      text,
		SourceURL: rawURL,
		Source:    domain.SourceVideoTranscript,
		Title:     strings.TrimSpace(transcript.Title),
		VideoID:   videoID,
		Language:  transcript.Language,
	}, nil
}

// JoinSegments concatenates segment texts in order, separated by single spaces.
func JoinSegments(segments []domain.Segment) string {
	var b strings.Builder

	for _, segment := range segments {
		fragment := strings.Join(strings.Fields(segment.Text), " ")
		if fragment == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(fragment)
	}

	return b.String()
}
