package markdown

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is Telegram's limit for message text, in characters.
const MaxMessageLength = 4096

// Taken from https://core.telegram.org/bots/api#markdownv2-style.
const mdV2SpecialChars = `\_*[](){}~>#+-=|.!` + "`"

func EscapeV2(input string) string {
	lookup := mdV2SpecialCharLookup()
	charsToEscape := 0

	for i := range len(input) {
		if lookup[input[i]] {
			charsToEscape++
		}
	}
	if charsToEscape == 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input) + charsToEscape)

	for i := range len(input) {
		c := input[i]
		if lookup[c] {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return b.String()
}

// Split breaks text into chunks of at most maxLen characters, preferring
// paragraph, line and word boundaries. Escape sequences are never cut.
func Split(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = MaxMessageLength
	}

	var chunks []string

	for utf8.RuneCountInString(text) > maxLen {
		cut := cutIndex(text, maxLen)

		chunk := strings.TrimRight(text[:cut], " \n")
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		text = strings.TrimLeft(text[cut:], " \n")
	}

	if text != "" {
		chunks = append(chunks, text)
	}

	return chunks
}

// cutIndex returns a byte offset within the first maxLen runes of text.
func cutIndex(text string, maxLen int) int {
	limit := 0
	for i := 0; i < maxLen; i++ {
		_, size := utf8.DecodeRuneInString(text[limit:])
		limit += size
	}

	window := text[:limit]

	for _, sep := range []string{"\n\n", "\n", " "} {
		if i := strings.LastIndex(window, sep); i > 0 {
			return i + len(sep)
		}
	}

	// An odd run of trailing backslashes ends in an escape without its target.
	backslashes := 0
	for i := limit - 1; i >= 0 && text[i] == '\\'; i-- {
		backslashes++
	}
	if backslashes%2 == 1 && limit > 1 {
		limit--
	}

	return limit
}

func mdV2SpecialCharLookup() [256]bool {
	var m [256]bool
	for _, c := range []byte(mdV2SpecialChars) {
		m[c] = true
	}
	return m
}
