package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"legalsim-backend/internal/llm"
)

type flakyLLM struct {
	errs  []error
	calls int
}

func (f *flakyLLM) AnalyzeDocument(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return nil, f.errs[f.calls-1]
	}
	return json.RawMessage(`{}`), nil
}

func TestRetryingLLMRetriesServerErrorsOnce(t *testing.T) {
	base := &flakyLLM{errs: []error{&llm.StatusError{StatusCode: 503}}}
	client := retryingLLM{base: base, delay: time.Millisecond}

	if _, err := client.AnalyzeDocument(context.Background(), llm.AnalyzeInput{}); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if base.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", base.calls)
	}
}

func TestRetryingLLMGivesUpAfterSecondFailure(t *testing.T) {
	base := &flakyLLM{errs: []error{&llm.StatusError{StatusCode: 502}, &llm.StatusError{StatusCode: 502}, nil}}
	client := retryingLLM{base: base, delay: time.Millisecond}

	if _, err := client.AnalyzeDocument(context.Background(), llm.AnalyzeInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if base.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", base.calls)
	}
}

func TestShouldRetryLLM(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{llm.ErrMissingAPIKey, false},
		{&llm.StatusError{StatusCode: 400}, false},
		{&llm.StatusError{StatusCode: 429}, false},
		{&llm.StatusError{StatusCode: 500}, true},
		{fmt.Errorf("openai request: %w", context.DeadlineExceeded), true},
		{context.Canceled, false},
		{errors.New("read tcp: connection reset by peer"), true},
		{errors.New("unexpected EOF"), true},
		{errors.New("bad things"), false},
	}
	for _, tc := range cases {
		if got := shouldRetryLLM(tc.err); got != tc.want {
			t.Fatalf("shouldRetryLLM(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
