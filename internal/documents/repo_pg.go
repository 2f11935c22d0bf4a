package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    title,
    content,
    file_type,
    file_size,
    analysis_status,
    upload_date
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Title,
		doc.Content,
		doc.FileType,
		doc.FileSize,
		doc.AnalysisStatus,
		doc.UploadDate,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT id, title, content, file_type, file_size, analysis_status, upload_date
FROM documents
WHERE id = $1
LIMIT 1`
	var doc Document
	var fileType sql.NullString
	var fileSize sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&fileType,
		&fileSize,
		&doc.AnalysisStatus,
		&doc.UploadDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if fileType.Valid {
		doc.FileType = fileType.String
	}
	if fileSize.Valid {
		doc.FileSize = fileSize.Int64
	}
	return doc, nil
}

// UpdateStatus sets the analysis status of a document.
func (r *PGRepo) UpdateStatus(ctx context.Context, documentID, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}
	const query = `
UPDATE documents
SET analysis_status = $1
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, status, documentID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
