package analyses

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalsim-backend/internal/documents"
	"legalsim-backend/internal/llm"
	"legalsim-backend/internal/queue"
	"legalsim-backend/internal/shared/config"
)

func leaseInput() documents.NewDocument {
	return documents.NewDocument{
		Title:    "Test Lease",
		Content:  "Tenant shall pay rent of $1000 monthly.",
		FileType: "text/plain",
		FileSize: 40,
	}
}

func TestProcessStoresAnalysisAndCompletesDocument(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: validAnalysisJSON})

	out, err := env.svc.Process(context.Background(), leaseInput())
	require.NoError(t, err)

	assert.NotEmpty(t, out.Document.ID)
	assert.Equal(t, documents.StatusCompleted, out.Document.AnalysisStatus)
	assert.Equal(t, out.Document.ID, out.Analysis.DocumentID)
	assert.Equal(t, 12, out.Analysis.ComplexityScore)
	assert.Equal(t, 25, out.Analysis.RiskScore)
	assert.NotNil(t, out.Analysis.CriticalClauses)

	stored, err := env.docRepo.GetByID(context.Background(), out.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusCompleted, stored.AnalysisStatus)
	assert.Equal(t, "Test Lease", stored.Title)
	assert.Equal(t, int64(40), stored.FileSize)

	first, err := env.repo.FirstForDocument(context.Background(), out.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Analysis.ID, first.ID)

	assert.Equal(t, "Test Lease", env.llm.last.Title)
	assert.Equal(t, llm.PromptVersionLegalV1, env.llm.last.PromptVersion)
}

func TestProcessPublishesAndCaches(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: validAnalysisJSON})
	ctx := WithRequestID(context.Background(), "req-42")

	out, err := env.svc.Process(ctx, leaseInput())
	require.NoError(t, err)

	require.Len(t, env.events.messages, 1)
	msg := env.events.messages[0]
	assert.Equal(t, queue.EventAnalysisCompleted, msg.Event)
	assert.Equal(t, out.Document.ID, msg.DocumentID)
	assert.Equal(t, "req-42", msg.RequestID)
	assert.Equal(t, 25, msg.RiskScore)

	snap, ok := env.cache.items[out.Document.ID]
	require.True(t, ok)
	assert.Equal(t, out.Analysis.ID, snap.Analysis.ID)
}

func TestProcessPublishFailureDoesNotFailRequest(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: validAnalysisJSON})
	env.events.err = errors.New("broker down")

	_, err := env.svc.Process(context.Background(), leaseInput())
	require.NoError(t, err)
}

func TestProcessAppliesDefaults(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: validAnalysisJSON})

	out, err := env.svc.Process(context.Background(), documents.NewDocument{Content: "Either party may terminate.", FileSize: -1})
	require.NoError(t, err)
	assert.Equal(t, documents.DefaultTitle, out.Document.Title)
	assert.Equal(t, documents.DefaultFileType, out.Document.FileType)
	assert.Equal(t, int64(len("Either party may terminate.")), out.Document.FileSize)
}

func TestProcessRejectsEmptyContent(t *testing.T) {
	client := &staticLLM{resp: validAnalysisJSON}
	env := newTestEnv(t, client)

	_, err := env.svc.Process(context.Background(), documents.NewDocument{Title: "x", Content: "   "})
	require.Error(t, err)
	assert.Equal(t, ReasonValidation, FailureReason(err))
	assert.Equal(t, "Document content is required", err.Error())
	assert.Zero(t, client.calls)
}

func TestProcessNonJSONLeavesDocumentProcessing(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: "Sure! Here is a summary of your lease."})

	_, err := env.svc.Process(context.Background(), leaseInput())
	require.Error(t, err)
	assert.Equal(t, ReasonLLMOutput, FailureReason(err))

	var se *StepError
	require.True(t, errors.As(err, &se))
	require.NotEmpty(t, se.DocumentID)

	doc, err := env.docRepo.GetByID(context.Background(), se.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusProcessing, doc.AnalysisStatus)

	_, err = env.repo.FirstForDocument(context.Background(), se.DocumentID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, env.events.messages)
}

func TestProcessMarkFailedPolicy(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: "not json"})
	env.svc.FailurePolicy = config.FailurePolicyMarkFailed

	_, err := env.svc.Process(context.Background(), leaseInput())
	require.Error(t, err)

	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, OutcomeFailed, se.Outcome)
	doc, err := env.docRepo.GetByID(context.Background(), se.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusFailed, doc.AnalysisStatus)
}

// statusLockedRepo refuses every status update, so compensation cannot run.
type statusLockedRepo struct {
	*documents.MemoryRepo
}

func (statusLockedRepo) UpdateStatus(ctx context.Context, documentID, status string) error {
	return errors.New("connection reset")
}

func TestProcessMarkFailedFallsBackToStranded(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: "not json"})
	env.svc.FailurePolicy = config.FailurePolicyMarkFailed
	env.svc.Documents = &documents.Service{Repo: statusLockedRepo{env.docRepo}}

	_, err := env.svc.Process(context.Background(), leaseInput())
	require.Error(t, err)

	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, OutcomeStranded, se.Outcome)
	doc, err := env.docRepo.GetByID(context.Background(), se.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusProcessing, doc.AnalysisStatus)
}

func TestProcessValidationHasNoOutcome(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: validAnalysisJSON})

	_, err := env.svc.Process(context.Background(), documents.NewDocument{Content: ""})
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Empty(t, se.DocumentID)
	assert.Empty(t, se.Outcome)
}

func TestProcessMissingCredential(t *testing.T) {
	env := newTestEnv(t, &staticLLM{err: llm.ErrMissingAPIKey})

	_, err := env.svc.Process(context.Background(), leaseInput())
	require.Error(t, err)
	assert.Equal(t, ReasonLLMCredentials, FailureReason(err))
	assert.Equal(t, "OpenAI API key not configured", err.Error())
	assert.Equal(t, 1, env.llm.calls)
}

func TestProcessUpstreamClientErrorIsNotRetried(t *testing.T) {
	env := newTestEnv(t, &staticLLM{err: &llm.StatusError{StatusCode: http.StatusUnauthorized}})

	_, err := env.svc.Process(context.Background(), leaseInput())
	require.Error(t, err)
	assert.Equal(t, ReasonLLMUpstream, FailureReason(err))
	assert.Equal(t, "OpenAI API error: 401", err.Error())
	assert.Equal(t, 1, env.llm.calls)
}

type failingRepo struct{}

func (failingRepo) CreateForDocument(ctx context.Context, analysis Analysis) error {
	return errors.New("connection refused")
}

func (failingRepo) FirstForDocument(ctx context.Context, documentID string) (Analysis, error) {
	return Analysis{}, ErrNotFound
}

func TestProcessAnalysisStoreFailure(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: validAnalysisJSON})
	env.svc.Repo = failingRepo{}

	_, err := env.svc.Process(context.Background(), leaseInput())
	require.Error(t, err)
	assert.Equal(t, ReasonAnalysisStore, FailureReason(err))
	assert.Equal(t, "Failed to store analysis: connection refused", err.Error())
}

func TestProcessSurvivesCanceledCaller(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: validAnalysisJSON})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := env.svc.Process(ctx, leaseInput())
	require.NoError(t, err)
	assert.Equal(t, documents.StatusCompleted, out.Document.AnalysisStatus)
}

func TestRetrieveWithoutAnalysisReturnsNil(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: "garbage"})
	_, err := env.svc.Process(context.Background(), leaseInput())
	var se *StepError
	require.True(t, errors.As(err, &se))

	doc, analysis, err := env.svc.Retrieve(context.Background(), se.DocumentID)
	require.NoError(t, err)
	assert.Nil(t, analysis)
	assert.Equal(t, documents.StatusProcessing, doc.AnalysisStatus)
}

func TestRetrieveUsesCacheAfterFirstRead(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: validAnalysisJSON})
	out, err := env.svc.Process(context.Background(), leaseInput())
	require.NoError(t, err)

	delete(env.cache.items, out.Document.ID)
	_, analysis, err := env.svc.Retrieve(context.Background(), out.Document.ID)
	require.NoError(t, err)
	require.NotNil(t, analysis)
	_, cached := env.cache.items[out.Document.ID]
	assert.True(t, cached)

	env.svc.Repo = failingRepo{}
	_, analysis, err = env.svc.Retrieve(context.Background(), out.Document.ID)
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, out.Analysis.ID, analysis.ID)
}

func TestRetrieveUnknownDocument(t *testing.T) {
	env := newTestEnv(t, &staticLLM{resp: validAnalysisJSON})

	_, _, err := env.svc.Retrieve(context.Background(), "9a4e5c4e-1111-4c8e-8f4f-000000000000")
	assert.ErrorIs(t, err, documents.ErrNotFound)

	_, _, err = env.svc.Retrieve(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, documents.ErrNotFound)
}
