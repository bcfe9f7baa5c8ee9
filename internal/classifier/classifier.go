package classifier

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"linksum/internal/domain"
)

const minPartsForPathVideoID = 2

var (
	videoHostMarkers = []string{"youtube.com", "youtube-nocookie.com", "youtu.be"}
	shortLinkHost    = "youtu.be"

	// Path prefixes whose next segment is the video ID.
	videoIDPathPrefixes = map[string]struct{}{
		"shorts": {},
		"embed":  {},
		"live":   {},
		"v":      {},
	}

	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Classify validates rawURL and decides where its text comes from.
func Classify(rawURL string) (domain.ContentSource, *url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return domain.SourceUnknown, nil,
			domain.NewError(domain.KindInvalidURL, rawURL, "URL is empty", nil)
	}

	if strings.ContainsAny(trimmed, " \t\r\n") {
		return domain.SourceUnknown, nil,
			domain.NewError(domain.KindInvalidURL, trimmed, "URL contains whitespace", nil)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return domain.SourceUnknown, nil,
			domain.NewError(domain.KindInvalidURL, trimmed, "parse URL", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.SourceUnknown, nil,
			domain.NewError(domain.KindInvalidURL, trimmed, "scheme must be http or https", nil)
	}

	if hostname(u) == "" {
		return domain.SourceUnknown, nil,
			domain.NewError(domain.KindInvalidURL, trimmed, "host is missing", nil)
	}

	if IsVideoHost(u) {
		return domain.SourceVideoTranscript, u, nil
	}

	return domain.SourceWebPage, u, nil
}

func IsVideoHost(u *url.URL) bool {
	host := hostname(u)
	for _, marker := range videoHostMarkers {
		if strings.Contains(host, marker) {
			return true
		}
	}

	return false
}

// VideoID finds the video identifier in a video-host URL, either in the "v"
// query parameter or in the trailing path segment.
func VideoID(u *url.URL) (string, bool) {
	if u == nil {
		return "", false
	}

	if id := strings.TrimSpace(u.Query().Get("v")); id != "" {
		return id, videoIDRe.MatchString(id)
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", false
	}

	parts := strings.Split(path, "/")

	var id string

	switch {
	case strings.HasSuffix(hostname(u), shortLinkHost):
		id = parts[0]
	case len(parts) >= minPartsForPathVideoID:
		if _, ok := videoIDPathPrefixes[parts[0]]; !ok {
			return "", false
		}
		id = parts[1]
	default:
		return "", false
	}

	id = strings.TrimSpace(id)
	if !videoIDRe.MatchString(id) {
		return "", false
	}

	return id, true
}

func hostname(u *url.URL) string {
	host := u.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	return strings.ToLower(strings.Trim(host, "[]"))
}
