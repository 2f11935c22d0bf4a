package openai

import (
	"strings"

	"legalsim-backend/internal/llm"
	"legalsim-backend/internal/shared/telemetry"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

// BuildPrompt creates the chat messages for a document analysis request.
func BuildPrompt(promptVersion, content string) []Message {
	system, ok := llm.PromptTemplate(strings.TrimSpace(promptVersion))
	if !ok {
		telemetry.Warn("llm.unknown_prompt_version", map[string]any{
			"prompt_version": promptVersion,
			"fallback":       llm.PromptVersionLegalV1,
		})
	}
	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: llm.UserMessage(content)},
	}
}
