// Package services contains domain business logic.
package services

import (
	"regexp"
	"strings"
)

// reReasoning matches <think>...</think> blocks, including across newlines.
var reReasoning = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripReasoning removes every <think>...</think> section from model
// output and trims surrounding whitespace. Applying it twice yields the
// same result as once.
func StripReasoning(text string) string {
	return strings.TrimSpace(reReasoning.ReplaceAllString(text, ""))
}
