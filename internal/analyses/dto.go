package analyses

import (
	"time"

	"legalsim-backend/internal/documents"
)

// ProcessRequest is the body accepted by the process-document function.
type ProcessRequest struct {
	Content  string `json:"content"`
	Title    string `json:"title"`
	FileType string `json:"fileType"`
	FileSize *int64 `json:"fileSize"`
}

// NewDocument converts the request, treating a missing size as unknown.
func (r ProcessRequest) NewDocument() documents.NewDocument {
	size := int64(-1)
	if r.FileSize != nil {
		size = *r.FileSize
	}
	return documents.NewDocument{
		Title:    r.Title,
		Content:  r.Content,
		FileType: r.FileType,
		FileSize: size,
	}
}

// AnalysisResponse is the outward-facing representation of an analysis.
type AnalysisResponse struct {
	ID                string    `json:"id"`
	DocumentID        string    `json:"document_id"`
	SimplifiedContent string    `json:"simplified_content"`
	Summary           string    `json:"summary"`
	KeyPoints         []string  `json:"key_points"`
	CriticalClauses   []string  `json:"critical_clauses"`
	BeneficialClauses []string  `json:"beneficial_clauses"`
	ComplexityScore   int       `json:"complexity_score"`
	RiskScore         int       `json:"risk_score"`
	CreatedAt         time.Time `json:"created_at"`
}

// ProcessResponse is returned when the pipeline succeeds.
type ProcessResponse struct {
	Success    bool             `json:"success"`
	DocumentID string           `json:"document_id"`
	Analysis   AnalysisResponse `json:"analysis"`
}

// RetrievalResponse carries a document and its analysis, which is null until one exists.
type RetrievalResponse struct {
	Success  bool                       `json:"success"`
	Document documents.DocumentResponse `json:"document"`
	Analysis *AnalysisResponse          `json:"analysis"`
}

// ToResponse renders a.
func ToResponse(a Analysis) AnalysisResponse {
	a = a.normalize()
	return AnalysisResponse{
		ID:                a.ID,
		DocumentID:        a.DocumentID,
		SimplifiedContent: a.SimplifiedContent,
		Summary:           a.Summary,
		KeyPoints:         a.KeyPoints,
		CriticalClauses:   a.CriticalClauses,
		BeneficialClauses: a.BeneficialClauses,
		ComplexityScore:   a.ComplexityScore,
		RiskScore:         a.RiskScore,
		CreatedAt:         a.CreatedAt,
	}
}
