package analyses

import (
	"context"
	"sync"

	"legalsim-backend/internal/documents"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu         sync.RWMutex
	docs       documents.DocumentsRepo
	byDocument map[string][]Analysis
}

// NewMemoryRepo constructs a MemoryRepo that completes documents in docs.
func NewMemoryRepo(docs documents.DocumentsRepo) *MemoryRepo {
	return &MemoryRepo{
		docs:       docs,
		byDocument: make(map[string][]Analysis),
	}
}

// CreateForDocument stores the analysis and flips the document to completed.
func (r *MemoryRepo) CreateForDocument(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.docs.GetByID(ctx, analysis.DocumentID); err != nil {
		return err
	}
	prev := r.byDocument[analysis.DocumentID]
	r.byDocument[analysis.DocumentID] = append(prev, analysis.normalize())
	if err := r.docs.UpdateStatus(ctx, analysis.DocumentID, documents.StatusCompleted); err != nil {
		if len(prev) == 0 {
			delete(r.byDocument, analysis.DocumentID)
		} else {
			r.byDocument[analysis.DocumentID] = prev
		}
		return err
	}
	return nil
}

// FirstForDocument returns the first analysis stored for documentID.
func (r *MemoryRepo) FirstForDocument(ctx context.Context, documentID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.byDocument[documentID]
	if len(list) == 0 {
		return Analysis{}, ErrNotFound
	}
	return list[0], nil
}
