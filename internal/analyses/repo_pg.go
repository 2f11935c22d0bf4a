package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"legalsim-backend/internal/documents"
)

// pgTypes decodes TEXT[] columns, which the pgx stdlib driver hands back as text.
var pgTypes = pgtype.NewMap()

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateForDocument inserts the analysis and completes the document in one transaction.
func (r *PGRepo) CreateForDocument(ctx context.Context, analysis Analysis) error {
	analysis = analysis.normalize()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT analysis_status FROM documents WHERE id = $1 FOR UPDATE`, analysis.DocumentID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return documents.ErrNotFound
		}
		return err
	}

	const insert = `
INSERT INTO document_analyses (
	id, document_id, simplified_content, summary, key_points, critical_clauses,
	beneficial_clauses, complexity_score, risk_score, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := tx.ExecContext(ctx, insert,
		analysis.ID,
		analysis.DocumentID,
		analysis.SimplifiedContent,
		analysis.Summary,
		analysis.KeyPoints,
		analysis.CriticalClauses,
		analysis.BeneficialClauses,
		analysis.ComplexityScore,
		analysis.RiskScore,
		analysis.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE documents SET analysis_status = $2 WHERE id = $1`, analysis.DocumentID, documents.StatusCompleted); err != nil {
		return fmt.Errorf("complete document: %w", err)
	}
	return tx.Commit()
}

// FirstForDocument returns the earliest analysis for documentID.
func (r *PGRepo) FirstForDocument(ctx context.Context, documentID string) (Analysis, error) {
	const query = `
SELECT id, document_id, simplified_content, summary, key_points, critical_clauses,
       beneficial_clauses, complexity_score, risk_score, created_at
FROM document_analyses
WHERE document_id = $1
ORDER BY created_at ASC
LIMIT 1`
	var a Analysis
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&a.ID,
		&a.DocumentID,
		&a.SimplifiedContent,
		&a.Summary,
		pgTypes.SQLScanner(&a.KeyPoints),
		pgTypes.SQLScanner(&a.CriticalClauses),
		pgTypes.SQLScanner(&a.BeneficialClauses),
		&a.ComplexityScore,
		&a.RiskScore,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return a.normalize(), nil
}
