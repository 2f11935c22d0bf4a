package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Client abstracts completion providers for legal document analysis.
type Client interface {
	AnalyzeDocument(ctx context.Context, input AnalyzeInput) (json.RawMessage, error)
}

// AnalyzeInput captures the inputs needed for a document analysis.
type AnalyzeInput struct {
	Content       string
	Title         string
	PromptVersion string
}

// ErrMissingAPIKey is returned when the completion service has no credential.
var ErrMissingAPIKey = errors.New("OpenAI API key not configured")

// StatusError reports a non-2xx answer from the completion service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("OpenAI API error: %d", e.StatusCode)
}
