package summarizer

import (
	"context"
	"fmt"
)

const DefaultTargetWords = 300

const promptTemplate = "Provide a concise summary of the following content in %d words:\nContent: %s"

// Request describes the payload for a summary request.
type Request struct {
	// Text contains the original plain text to summarise.
	Text string
	// SourceURL is optional metadata that helps the model reference the origin.
	SourceURL string
	// Model overrides the summarizer's default model when set.
	Model string
	// TargetWords is a soft length instruction for the model.
	TargetWords int
}

// Summarizer produces a single summary for a given input text.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (string, error)
}

// Prompt fills the summarization template with text.
func Prompt(text string, targetWords int) string {
	if targetWords <= 0 {
		targetWords = DefaultTargetWords
	}

	return fmt.Sprintf(promptTemplate, targetWords, text)
}
