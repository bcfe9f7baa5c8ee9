package classifier_test

import (
	"errors"
	"net/url"
	"testing"

	"linksum/internal/classifier"
	"linksum/internal/domain"
)

func TestClassifyRejectsNonURLs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"Empty", ""},
		{"Whitespace only", "   "},
		{"Plain words", "not a url"},
		{"Missing scheme", "www.youtube.com/watch?v=abc123"},
		{"Missing host", "https://"},
		{"Unsupported scheme", "ftp://example.com/file"},
		{"Opaque", "mailto:someone@example.com"},
		{"Path only", "/watch?v=abc123"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			source, u, err := classifier.Classify(test.raw)
			if !errors.Is(err, domain.ErrInvalidURL) {
				t.Fatalf("expected invalid URL error, got %v", err)
			}

			if source != domain.SourceUnknown || u != nil {
				t.Fatalf("expected no classification, got %v and %v", source, u)
			}
		})
	}
}

func TestClassifyVideoHosts(t *testing.T) {
	tests := []string{
		"https://www.youtube.com/watch?v=abc123",
		"https://youtube.com/shorts/abc123",
		"https://m.youtube.com/watch?v=abc123&t=10s",
		"https://music.youtube.com/watch?v=abc123",
		"https://youtu.be/abc123",
		"https://www.youtube-nocookie.com/embed/abc123",
		"HTTPS://WWW.YOUTUBE.COM:443/watch?v=abc123",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			source, u, err := classifier.Classify(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if source != domain.SourceVideoTranscript {
				t.Fatalf("expected video transcript, got %v", source)
			}

			if u == nil {
				t.Fatalf("expected parsed URL")
			}
		})
	}
}

func TestClassifyWebPages(t *testing.T) {
	tests := []string{
		"https://example.com",
		"http://127.0.0.1:8080/article",
		"https://blog.example.org/posts/youtube-tips",
		"https://vimeo.com/12345",
		"  https://example.com/trimmed  ",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			source, _, err := classifier.Classify(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if source != domain.SourceWebPage {
				t.Fatalf("expected web page, got %v", source)
			}
		})
	}
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		raw    string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=abc123", "abc123", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL1&index=2", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?si=share", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/abc_-123", "abc_-123", true},
		{"https://www.youtube.com/embed/abc123", "abc123", true},
		{"https://www.youtube.com/live/abc123?feature=share", "abc123", true},
		{"https://www.youtube.com/", "", false},
		{"https://www.youtube.com/feed/trending", "", false},
		{"https://www.youtube.com/watch?v=bad%20id", "", false},
		{"https://youtu.be/", "", false},
	}

	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			u, err := url.Parse(test.raw)
			if err != nil {
				t.Fatalf("parse test URL: %v", err)
			}

			id, ok := classifier.VideoID(u)
			if ok != test.wantOK {
				t.Fatalf("ok mismatch: got %v want %v (id = %q)", ok, test.wantOK, id)
			}

			if ok && id != test.wantID {
				t.Fatalf("id mismatch: got %q want %q", id, test.wantID)
			}
		})
	}
}

func TestVideoIDNil(t *testing.T) {
	if _, ok := classifier.VideoID(nil); ok {
		t.Fatalf("expected nil URL to have no video ID")
	}
}
