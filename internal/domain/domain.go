package domain

import "time"

type ContentSource int

const (
	SourceUnknown ContentSource = iota
	SourceVideoTranscript
	SourceWebPage
)

func (s ContentSource) String() string {
	switch s {
	case SourceVideoTranscript:
		return "video_transcript"
	case SourceWebPage:
		return "web_page"
	default:
		return "unknown"
	}
}

// ParseContentSource is the inverse of ContentSource.String.
func ParseContentSource(s string) ContentSource {
	switch s {
	case "video_transcript":
		return SourceVideoTranscript
	case "web_page":
		return SourceWebPage
	default:
		return SourceUnknown
	}
}

type Segment struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
}

type Document struct {
	Text      string
	SourceURL string
	Source    ContentSource
	Title     string
	VideoID   string
	Language  string
}

type Summary struct {
	Text      string
	SourceURL string
	Source    ContentSource
	Title     string
	Model     string
	Cached    bool
	CreatedAt time.Time
}

type HistoryRecord struct {
	ID        int64
	ChatID    int64
	URL       string
	Source    ContentSource
	Model     string
	Summary   string
	CreatedAt time.Time
}

type ChatSettings struct {
	ChatID int64
	Model  string
}
