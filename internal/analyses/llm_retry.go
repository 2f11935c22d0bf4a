package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"legalsim-backend/internal/llm"
	"legalsim-backend/internal/shared/telemetry"
)

const llmRetryBaseDelay = 300 * time.Millisecond

type retryingLLM struct {
	base       llm.Client
	requestID  string
	documentID string
	delay      time.Duration
}

func newRetryingLLM(base llm.Client, documentID, requestID string) llm.Client {
	if base == nil {
		return nil
	}
	return retryingLLM{
		base:       base,
		requestID:  requestID,
		documentID: documentID,
		delay:      llmRetryBaseDelay,
	}
}

func (r retryingLLM) AnalyzeDocument(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	resp, err := r.base.AnalyzeDocument(ctx, input)
	if err == nil || !shouldRetryLLM(err) {
		return resp, err
	}

	telemetry.Warn("llm.retry", map[string]any{
		"request_id":  r.requestID,
		"document_id": r.documentID,
		"attempt":     1,
		"error":       err.Error(),
	})
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return r.base.AnalyzeDocument(ctx, input)
}

// shouldRetryLLM is true for timeouts, dropped connections and 5xx answers.
// Client errors and credential problems are returned as is.
func shouldRetryLLM(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, llm.ErrMissingAPIKey) || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.HasSuffix(msg, "eof") {
		return true
	}
	return false
}
