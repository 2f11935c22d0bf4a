package llm

import (
	_ "embed"
	"strings"
)

const (
	PromptVersionLegalV1 = "legal_v1"

	userMessagePrefix = "Please analyze and simplify this legal document:\n\n"
)

//go:embed prompts/legal_v1.txt
var promptLegalV1 string

// PromptTemplate returns the system prompt text and whether the version was recognized.
func PromptTemplate(version string) (string, bool) {
	switch version {
	case PromptVersionLegalV1, "":
		return strings.TrimSpace(promptLegalV1), true
	default:
		return strings.TrimSpace(promptLegalV1), false
	}
}

// UserMessage wraps raw document text in the fixed user instruction.
func UserMessage(content string) string {
	return userMessagePrefix + content
}
