package api

import (
	"fmt"
	"strings"
)

const summaryPromptTemplate = `Please provide a concise summary of the following transcribed text.
Keep the summary to approximately %d words or less.
Focus on the main points and key information.

Text to summarize:
%s

Summary:`

// SummaryPrompt embeds the word target as advisory wording; nothing truncates
// the model output to it.
func SummaryPrompt(text string, maxWords int) string {
	return fmt.Sprintf(summaryPromptTemplate, maxWords, strings.TrimSpace(text))
}
