// Package workerproc handles analysis.completed events: it decodes them and warms the
// retrieval cache for the completed document.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"legalsim-backend/internal/analyses"
	"legalsim-backend/internal/documents"
	"legalsim-backend/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body []byte) MessageMeta {
	if len(body) == 0 {
		return MessageMeta{}
	}
	sum := sha256.Sum256(body)
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrMissingDocumentID indicates a message without a document id.
type ErrMissingDocumentID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingDocumentID) Error() string { return "missing document id" }

// ErrProcess indicates warming failed after successful parsing.
type ErrProcess struct {
	DocumentID string
	RequestID  string
	Err        error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "warm analysis"
	}
	return "warm analysis: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ErrNotCompleted is returned when the event arrives before the analysis is readable.
var ErrNotCompleted = errors.New("analysis not readable yet")

// Retriever loads a document and its first analysis. analyses.Service satisfies it and
// caches completed snapshots as a side effect.
type Retriever interface {
	Retrieve(ctx context.Context, documentID string) (documents.Document, *analyses.Analysis, error)
}

// Unrecoverable reports whether redelivering the message can never succeed.
func Unrecoverable(err error) bool {
	var (
		empty   ErrEmptyBody
		decode  ErrDecode
		missing ErrMissingDocumentID
	)
	if errors.As(err, &empty) || errors.As(err, &decode) || errors.As(err, &missing) {
		return true
	}
	return errors.Is(err, documents.ErrNotFound)
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body []byte) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(string(body)) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage(body)
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.DocumentID) == "" {
		return msg, meta, ErrMissingDocumentID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// HandleMessage reads the completed analysis back through r so it lands in the cache.
func HandleMessage(ctx context.Context, r Retriever, msg queue.Message) error {
	if r == nil {
		return errors.New("analysis service not configured")
	}
	ctx = analyses.WithRequestID(ctx, msg.RequestID)
	doc, analysis, err := r.Retrieve(ctx, msg.DocumentID)
	if err != nil {
		return ErrProcess{DocumentID: msg.DocumentID, RequestID: msg.RequestID, Err: err}
	}
	if analysis == nil || doc.AnalysisStatus != documents.StatusCompleted {
		return ErrProcess{DocumentID: msg.DocumentID, RequestID: msg.RequestID, Err: ErrNotCompleted}
	}
	return nil
}
