package documents

import "time"

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"

	DefaultTitle    = "Untitled Document"
	DefaultFileType = "text/plain"
)

// Document is a stored unit of legal text awaiting or having analysis.
type Document struct {
	ID             string
	Title          string
	Content        string
	FileType       string
	FileSize       int64
	AnalysisStatus string
	UploadDate     time.Time
}

// NewDocument is the caller-supplied part of a Document.
type NewDocument struct {
	Title    string
	Content  string
	FileType string
	FileSize int64
}

// ValidStatus reports whether s is a known analysis status.
func ValidStatus(s string) bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}
