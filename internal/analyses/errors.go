package analyses

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidOutput = errors.New("invalid analysis output")
)

// Failure reasons, also used as the analysis_failed metric label.
const (
	ReasonValidation     = "validation"
	ReasonDocumentStore  = "document_store"
	ReasonLLMCredentials = "llm_credentials"
	ReasonLLMUpstream    = "llm_upstream"
	ReasonLLMOutput      = "llm_output"
	ReasonAnalysisStore  = "analysis_store"
)

// Where a stored document ends up after a failed run.
const (
	OutcomeFailed   = "failed"
	OutcomeStranded = "stranded"
)

// StepError is a pipeline failure carrying the caller-facing message for its step.
// Outcome is empty when the failure happened before a document was stored.
type StepError struct {
	Reason     string
	DocumentID string
	Outcome    string
	Err        error
}

func (e *StepError) Error() string {
	switch e.Reason {
	case ReasonValidation:
		return "Document content is required"
	case ReasonDocumentStore:
		return fmt.Sprintf("Failed to store document: %v", e.Err)
	case ReasonLLMOutput:
		return fmt.Sprintf("Invalid analysis response: %v", e.Err)
	case ReasonAnalysisStore:
		return fmt.Sprintf("Failed to store analysis: %v", e.Err)
	default:
		if e.Err == nil {
			return e.Reason
		}
		return e.Err.Error()
	}
}

func (e *StepError) Unwrap() error { return e.Err }

func stepError(reason string, err error) *StepError {
	return &StepError{Reason: reason, Err: err}
}

// FailureReason extracts the pipeline step that produced err.
func FailureReason(err error) string {
	var se *StepError
	if errors.As(err, &se) {
		return se.Reason
	}
	return ""
}
