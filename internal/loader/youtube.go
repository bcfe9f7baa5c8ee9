package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"linksum/internal/domain"

	"github.com/kkdai/youtube/v2"
)

// YouTubeTranscripts reads caption tracks through YouTube's innertube API.
// It is safe for concurrent use.
type YouTubeTranscripts struct {
	httpClient *http.Client
}

func NewYouTubeTranscripts(httpClient *http.Client) *YouTubeTranscripts {
	return &YouTubeTranscripts{httpClient: httpClient}
}

// newClient returns a client for one request.
// youtube.Client mutates itself while serving calls, so it is never shared.
func (y *YouTubeTranscripts) newClient() *youtube.Client {
	return &youtube.Client{HTTPClient: y.httpClient}
}

func (y *YouTubeTranscripts) Transcript(
	ctx context.Context,
	videoID string,
	languages []string,
) (*Transcript, error) {
	if len(languages) == 0 {
		return nil, errors.New("languages are empty")
	}

	client := y.newClient()
	video := &youtube.Video{ID: videoID}

	var errs []error
	disabled := 0

	for _, lang := range languages {
		transcript, err := client.GetTranscriptCtx(ctx, video, lang)
		if err == nil && len(transcript) == 0 {
			err = youtube.ErrTranscriptDisabled
		}
		if err != nil {
			if errors.Is(err, youtube.ErrTranscriptDisabled) {
				disabled++
			}

			errs = append(errs, fmt.Errorf("get transcript (lang = %s): %w", lang, err))

			continue
		}

		return &Transcript{
			Segments: toSegments(transcript),
			Language: lang,
			Title:    y.title(ctx, videoID),
		}, nil
	}

	if disabled == len(languages) {
		return nil, fmt.Errorf("%w: %w", ErrTranscriptsDisabled, errors.Join(errs...))
	}

	return nil, errors.Join(errs...)
}

// title looks up the video title on a best-effort basis.
// The player may refuse the video (no formats, age gate) after the title is
// already parsed, so the error is ignored.
func (y *YouTubeTranscripts) title(ctx context.Context, videoID string) string {
	video, _ := y.newClient().GetVideoContext(ctx, videoID)
	if video == nil {
		return ""
	}

	return strings.TrimSpace(video.Title)
}

func toSegments(transcript youtube.VideoTranscript) []domain.Segment {
	segments := make([]domain.Segment, 0, len(transcript))

	for _, s := range transcript {
		segments = append(segments, domain.Segment{
			Text:     s.Text,
			Start:    time.Duration(s.StartMs) * time.Millisecond,
			Duration: time.Duration(s.Duration) * time.Millisecond,
		})
	}

	return segments
}
