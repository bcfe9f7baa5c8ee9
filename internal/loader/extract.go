package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const noiseSelector = "script, style, noscript, template, iframe, svg, canvas, " +
	"nav, footer, header, form, aside, .ad, .ads, .advertisement, .cookie-banner, .popup"

//nolint:gochecknoglobals // Immutable lookup tables.
var (
	contentSelectors = []string{
		"article",
		"main",
		"[role='main']",
		"#content",
		".content",
	}

	blockElements = map[string]bool{
		"address": true, "article": true, "blockquote": true, "dd": true, "div": true,
		"dl": true, "dt": true, "figcaption": true, "h1": true, "h2": true,
		"h3": true, "h4": true, "h5": true, "h6": true, "hr": true,
		"li": true, "main": true, "ol": true, "p": true, "pre": true,
		"section": true, "table": true, "td": true, "th": true, "tr": true,
		"ul": true,
	}
)

type extractedPage struct {
	title string
	text  string
	feed  bool
}

func extractPage(body []byte, contentType string) (extractedPage, error) {
	if isFeed(body, contentType) {
		return extractFeed(body)
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return extractedPage{}, fmt.Errorf("create charset reader: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return extractedPage{}, fmt.Errorf("create document from reader: %w", err)
	}

	return extractedPage{
		title: documentTitle(doc),
		text:  mainText(doc),
	}, nil
}

func isFeed(body []byte, contentType string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "html") {
		return false
	}

	return gofeed.DetectFeedType(bytes.NewReader(body)) != gofeed.FeedTypeUnknown
}

func extractFeed(body []byte) (extractedPage, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return extractedPage{}, fmt.Errorf("parse feed: %w", err)
	}

	var lines []string

	title := strings.TrimSpace(parsed.Title)
	if title != "" {
		lines = append(lines, title)
	}
	if description := htmlFragmentText(parsed.Description); description != "" {
		lines = append(lines, description)
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		if itemTitle := strings.TrimSpace(item.Title); itemTitle != "" {
			lines = append(lines, itemTitle)
		}

		content := item.Content
		if strings.TrimSpace(content) == "" {
			content = item.Description
		}
		if itemText := htmlFragmentText(content); itemText != "" {
			lines = append(lines, itemText)
		}
	}

	return extractedPage{
		title: title,
		text:  strings.Join(lines, "\n"),
		feed:  true,
	}, nil
}

func documentTitle(doc *goquery.Document) string {
	if content, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		if title := strings.TrimSpace(content); title != "" {
			return title
		}
	}

	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}

// mainText strips noise elements and returns the text of the first content
// container that has any, falling back to the whole body.
func mainText(doc *goquery.Document) string {
	doc.Find(noiseSelector).Remove()

	for _, selector := range contentSelectors {
		if text := selectionText(doc.Find(selector)); text != "" {
			return text
		}
	}

	if text := selectionText(doc.Find("body")); text != "" {
		return text
	}

	return selectionText(doc.Selection)
}

func htmlFragmentText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return cleanWhitespace(fragment)
	}

	doc.Find(noiseSelector).Remove()

	return selectionText(doc.Selection)
}

func selectionText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		collectText(&b, n)
		b.WriteByte('\n')
	}

	return cleanWhitespace(b.String())
}

func collectText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}

	if n.Type == html.ElementNode && blockElements[n.Data] {
		b.WriteByte('\n')
	}
}

// cleanWhitespace collapses runs of spaces and drops blank lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
