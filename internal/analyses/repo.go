package analyses

import "context"

// Repo abstracts analysis persistence.
type Repo interface {
	// CreateForDocument stores the analysis and marks its document completed as one unit.
	CreateForDocument(ctx context.Context, analysis Analysis) error
	// FirstForDocument returns the earliest analysis stored for a document.
	FirstForDocument(ctx context.Context, documentID string) (Analysis, error)
}
