package analyses

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"legalsim-backend/internal/documents"
	"legalsim-backend/internal/llm"
	"legalsim-backend/internal/queue"
	"legalsim-backend/internal/shared/config"
	"legalsim-backend/internal/shared/metrics"
	"legalsim-backend/internal/shared/telemetry"
)

// Service runs the document pipeline: store, analyze, parse, persist.
type Service struct {
	Documents     *documents.Service
	Repo          Repo
	LLM           llm.Client
	Cache         Cache
	Events        queue.Client
	FailurePolicy string
	PromptVersion string
	Now           func() time.Time
}

// Outcome is what a successful Process call produced.
type Outcome struct {
	Document documents.Document
	Analysis Analysis
}

// Process stores the document, asks the completion service for an analysis and persists it.
// The document is created in processing state before the completion call is made. When a later
// step fails the document is handled per FailurePolicy.
func (s *Service) Process(ctx context.Context, in documents.NewDocument) (Outcome, error) {
	ctx = detached(ctx)
	requestID := requestIDFromContext(ctx)

	doc, err := s.Documents.Create(ctx, in)
	if err != nil {
		reason := ReasonDocumentStore
		if errors.Is(err, documents.ErrInvalidInput) {
			reason = ReasonValidation
		}
		metrics.IncAnalysisFailed(reason)
		return Outcome{}, stepError(reason, err)
	}
	startedAt := s.now()
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestID,
		"document_id":       doc.ID,
		"status":            documents.StatusProcessing,
		"status_transition": "none->processing",
		"file_size":         doc.FileSize,
	})

	if s.LLM == nil {
		return Outcome{}, s.fail(ctx, doc, startedAt, stepError(ReasonLLMCredentials, llm.ErrMissingAPIKey))
	}
	client := newRetryingLLM(s.LLM, doc.ID, requestID)
	raw, err := client.AnalyzeDocument(ctx, llm.AnalyzeInput{
		Content:       doc.Content,
		Title:         doc.Title,
		PromptVersion: s.promptVersion(),
	})
	if err != nil {
		reason := ReasonLLMUpstream
		if errors.Is(err, llm.ErrMissingAPIKey) {
			reason = ReasonLLMCredentials
		}
		return Outcome{}, s.fail(ctx, doc, startedAt, stepError(reason, err))
	}

	result, err := ParseResult(raw)
	if err != nil {
		return Outcome{}, s.fail(ctx, doc, startedAt, stepError(ReasonLLMOutput, err))
	}

	analysis := result.Analysis(uuid.NewString(), doc.ID, s.now())
	if err := s.Repo.CreateForDocument(ctx, analysis); err != nil {
		return Outcome{}, s.fail(ctx, doc, startedAt, stepError(ReasonAnalysisStore, err))
	}
	doc.AnalysisStatus = documents.StatusCompleted

	completedAt := s.now()
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDuration(completedAt.Sub(startedAt))
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestID,
		"document_id":       doc.ID,
		"analysis_id":       analysis.ID,
		"status":            documents.StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(startedAt, completedAt),
		"risk_score":        analysis.RiskScore,
		"complexity_score":  analysis.ComplexityScore,
	})

	s.afterCompletion(ctx, doc, analysis)
	return Outcome{Document: doc, Analysis: analysis}, nil
}

// afterCompletion fills the cache and announces the analysis. Neither affects the response.
func (s *Service) afterCompletion(ctx context.Context, doc documents.Document, analysis Analysis) {
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, Snapshot{Document: doc, Analysis: analysis}); err != nil {
			telemetry.Warn("analysis.cache_write_failed", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
		}
	}
	if s.Events != nil {
		msg := queue.Message{
			Event:           queue.EventAnalysisCompleted,
			DocumentID:      doc.ID,
			AnalysisID:      analysis.ID,
			RequestID:       requestIDFromContext(ctx),
			RiskScore:       analysis.RiskScore,
			ComplexityScore: analysis.ComplexityScore,
			CompletedAt:     analysis.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := s.Events.Send(ctx, msg); err != nil {
			telemetry.Warn("analysis.publish_failed", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
		}
	}
}

func (s *Service) fail(ctx context.Context, doc documents.Document, startedAt time.Time, stepErr *StepError) error {
	stepErr.DocumentID = doc.ID
	metrics.IncAnalysisFailed(stepErr.Reason)
	completedAt := s.now()
	fields := map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"document_id": doc.ID,
		"reason":      stepErr.Reason,
		"error":       stepErr.Error(),
		"duration_ms": durationMs(startedAt, completedAt),
	}

	if s.FailurePolicy == config.FailurePolicyMarkFailed {
		if err := s.Documents.MarkFailed(ctx, doc.ID); err != nil {
			fields["mark_failed_error"] = err.Error()
			telemetry.Error("analysis.mark_failed_error", fields)
		} else {
			stepErr.Outcome = OutcomeFailed
			fields["status"] = documents.StatusFailed
			fields["status_transition"] = "processing->" + OutcomeFailed
			telemetry.Info("analysis.status", fields)
			return stepErr
		}
	}

	stepErr.Outcome = OutcomeStranded
	metrics.IncDocumentStranded()
	fields["status"] = documents.StatusProcessing
	fields["status_transition"] = "processing->" + OutcomeStranded
	telemetry.Warn("analysis.status", fields)
	return stepErr
}

// Retrieve returns a document and its first analysis. The analysis is nil while none exists.
func (s *Service) Retrieve(ctx context.Context, documentID string) (documents.Document, *Analysis, error) {
	if s.Cache != nil {
		snap, ok, err := s.Cache.Get(ctx, documentID)
		switch {
		case err != nil:
			metrics.IncRetrievalCache("error")
			telemetry.Warn("analysis.cache_read_failed", map[string]any{
				"document_id": documentID,
				"error":       err.Error(),
			})
		case ok:
			metrics.IncRetrievalCache("hit")
			analysis := snap.Analysis.normalize()
			return snap.Document, &analysis, nil
		default:
			metrics.IncRetrievalCache("miss")
		}
	}

	doc, err := s.Documents.Get(ctx, documentID)
	if err != nil {
		return documents.Document{}, nil, err
	}
	analysis, err := s.Repo.FirstForDocument(ctx, doc.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return doc, nil, nil
		}
		return documents.Document{}, nil, err
	}

	if s.Cache != nil && doc.AnalysisStatus == documents.StatusCompleted {
		if err := s.Cache.Set(ctx, Snapshot{Document: doc, Analysis: analysis}); err != nil {
			telemetry.Debug("analysis.cache_write_failed", map[string]any{"document_id": doc.ID, "error": err.Error()})
		}
	}
	return doc, &analysis, nil
}

func (s *Service) promptVersion() string {
	if s.PromptVersion != "" {
		return s.PromptVersion
	}
	return llm.PromptVersionLegalV1
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}
