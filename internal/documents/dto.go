package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content,omitempty"`
	FileType       string    `json:"file_type"`
	FileSize       int64     `json:"file_size"`
	AnalysisStatus string    `json:"analysis_status"`
	UploadDate     time.Time `json:"upload_date"`
}

// StatusEnvelope wraps a status lookup as {"data": ...}.
type StatusEnvelope struct {
	Data DocumentResponse `json:"data"`
}

// ToResponse renders doc, including its content.
func ToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:             doc.ID,
		Title:          doc.Title,
		Content:        doc.Content,
		FileType:       doc.FileType,
		FileSize:       doc.FileSize,
		AnalysisStatus: doc.AnalysisStatus,
		UploadDate:     doc.UploadDate,
	}
}

// ToStatusResponse renders doc without its content.
func ToStatusResponse(doc Document) DocumentResponse {
	resp := ToResponse(doc)
	resp.Content = ""
	return resp
}
