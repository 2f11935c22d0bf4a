package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for documents.
type Service struct {
	Repo DocumentsRepo
	Now  func() time.Time
}

// Create validates input, applies defaults and records a document in processing state.
func (s *Service) Create(ctx context.Context, in NewDocument) (Document, error) {
	if strings.TrimSpace(in.Content) == "" {
		return Document{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = DefaultTitle
	}
	fileType := strings.TrimSpace(in.FileType)
	if fileType == "" {
		fileType = DefaultFileType
	}
	size := in.FileSize
	if size < 0 {
		size = int64(len(in.Content))
	}

	doc := Document{
		ID:             uuid.NewString(),
		Title:          title,
		Content:        in.Content,
		FileType:       fileType,
		FileSize:       size,
		AnalysisStatus: StatusProcessing,
		UploadDate:     s.now(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, documentID string) (Document, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return Document{}, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	if _, err := uuid.Parse(documentID); err != nil {
		// Not a UUID, so it cannot exist in the store.
		return Document{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, documentID)
}

// MarkFailed flips a processing document to failed.
func (s *Service) MarkFailed(ctx context.Context, documentID string) error {
	return s.Repo.UpdateStatus(ctx, documentID, StatusFailed)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
