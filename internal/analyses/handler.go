package analyses

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"legalsim-backend/internal/documents"
	"legalsim-backend/internal/shared/server/middleware"
	"legalsim-backend/internal/shared/server/respond"
)

const (
	ProcessDocumentPath = "/process-document"
	GetAnalysisPath     = "/get-document-analysis"
)

// Handler exposes the document functions.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the function routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST(ProcessDocumentPath, h.processDocument)
	rg.GET(GetAnalysisPath, h.getDocumentAnalysis)
	rg.POST(GetAnalysisPath, h.getDocumentAnalysis)
}

func (h *Handler) processDocument(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Failure(c, http.StatusInternalServerError, "invalid_body", "Invalid request body: "+err.Error())
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	out, err := h.Svc.Process(ctx, req.NewDocument())
	if err != nil {
		code := FailureReason(err)
		if code == "" {
			code = "internal_error"
		}
		var se *StepError
		if errors.As(err, &se) && se.DocumentID != "" {
			c.Set("documentId", se.DocumentID)
			if se.Outcome != "" {
				c.Set("statusTransition", "processing->"+se.Outcome)
			}
		}
		respond.Failure(c, http.StatusInternalServerError, code, err.Error())
		return
	}

	c.Set("documentId", out.Document.ID)
	c.Set("statusTransition", "processing->completed")
	respond.OK(c, ProcessResponse{
		Success:    true,
		DocumentID: out.Document.ID,
		Analysis:   ToResponse(out.Analysis),
	})
}

func (h *Handler) getDocumentAnalysis(c *gin.Context) {
	documentID := strings.TrimSpace(c.Query("document_id"))
	if documentID == "" && c.Request.Method == http.MethodPost {
		var body struct {
			DocumentID string `json:"document_id"`
		}
		// An unreadable body is treated like a missing identifier.
		_ = c.ShouldBindJSON(&body)
		documentID = strings.TrimSpace(body.DocumentID)
	}
	if documentID == "" {
		respond.Failure(c, http.StatusInternalServerError, "validation_error", "Document ID is required")
		return
	}
	c.Set("documentId", documentID)

	doc, analysis, err := h.Svc.Retrieve(c.Request.Context(), documentID)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Failure(c, http.StatusInternalServerError, "not_found", "Document not found")
		case errors.Is(err, documents.ErrInvalidInput):
			respond.Failure(c, http.StatusInternalServerError, "validation_error", "Document ID is required")
		default:
			respond.Failure(c, http.StatusInternalServerError, "store_error", "Failed to fetch document: "+err.Error())
		}
		return
	}

	resp := RetrievalResponse{
		Success:  true,
		Document: documents.ToResponse(doc),
	}
	if analysis != nil {
		rendered := ToResponse(*analysis)
		resp.Analysis = &rendered
	}
	respond.OK(c, resp)
}
