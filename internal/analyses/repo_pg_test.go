package analyses

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"legalsim-backend/internal/documents"
)

// arrayConverter lets []string arguments through to sqlmock the way pgx accepts them.
type arrayConverter struct{}

func (arrayConverter) ConvertValue(v any) (driver.Value, error) {
	if list, ok := v.([]string); ok {
		return list, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(arrayConverter{}))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func sampleAnalysis() Analysis {
	return Analysis{
		ID:                "3b0d8f1e-3d0c-4d8e-9a1b-6f3f8f6c2a10",
		DocumentID:        "7f1c1a56-5d0a-4a53-9d0b-1c5f7f0f6b11",
		SimplifiedContent: "You pay $1000 rent each month.",
		Summary:           "A residential lease.",
		KeyPoints:         []string{"Monthly rent"},
		CriticalClauses:   nil,
		BeneficialClauses: []string{"Deposit returned in 30 days"},
		ComplexityScore:   35,
		RiskScore:         20,
		CreatedAt:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPGRepoCreateForDocumentCommitsBothWrites(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := sampleAnalysis()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT analysis_status FROM documents").
		WithArgs(a.DocumentID).
		WillReturnRows(sqlmock.NewRows([]string{"analysis_status"}).AddRow(documents.StatusProcessing))
	mock.ExpectExec("INSERT INTO document_analyses").
		WithArgs(
			a.ID,
			a.DocumentID,
			a.SimplifiedContent,
			a.Summary,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			a.ComplexityScore,
			a.RiskScore,
			a.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE documents SET analysis_status").
		WithArgs(a.DocumentID, documents.StatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.CreateForDocument(context.Background(), a); err != nil {
		t.Fatalf("CreateForDocument: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateForDocumentRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := sampleAnalysis()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT analysis_status FROM documents").
		WithArgs(a.DocumentID).
		WillReturnRows(sqlmock.NewRows([]string{"analysis_status"}).AddRow(documents.StatusProcessing))
	mock.ExpectExec("INSERT INTO document_analyses").
		WillReturnError(errors.New("check constraint violated"))
	mock.ExpectRollback()

	err := repo.CreateForDocument(context.Background(), a)
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateForDocumentMissingDocument(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := sampleAnalysis()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT analysis_status FROM documents").
		WithArgs(a.DocumentID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	if err := repo.CreateForDocument(context.Background(), a); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("expected documents.ErrNotFound, got %v", err)
	}
}

func TestPGRepoFirstForDocumentScansArrays(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := sampleAnalysis()

	rows := sqlmock.NewRows([]string{
		"id", "document_id", "simplified_content", "summary", "key_points", "critical_clauses",
		"beneficial_clauses", "complexity_score", "risk_score", "created_at",
	}).AddRow(a.ID, a.DocumentID, a.SimplifiedContent, a.Summary, `{"Monthly rent","Late fee"}`, `{}`,
		`{"Deposit returned in 30 days"}`, 35, 20, a.CreatedAt)
	mock.ExpectQuery("FROM document_analyses").WithArgs(a.DocumentID).WillReturnRows(rows)

	got, err := repo.FirstForDocument(context.Background(), a.DocumentID)
	if err != nil {
		t.Fatalf("FirstForDocument: %v", err)
	}
	if len(got.KeyPoints) != 2 || got.KeyPoints[1] != "Late fee" {
		t.Fatalf("unexpected key points %#v", got.KeyPoints)
	}
	if got.CriticalClauses == nil || len(got.CriticalClauses) != 0 {
		t.Fatalf("expected empty critical clauses, got %#v", got.CriticalClauses)
	}
	if got.RiskScore != 20 {
		t.Fatalf("unexpected risk score %d", got.RiskScore)
	}
}

func TestPGRepoFirstForDocumentNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM document_analyses").WithArgs("doc-x").WillReturnError(sql.ErrNoRows)

	if _, err := repo.FirstForDocument(context.Background(), "doc-x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
