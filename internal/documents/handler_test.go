package documents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func setupDocumentsRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := &Service{
		Repo: NewMemoryRepo(),
		Now:  func() time.Time { return time.Date(2026, time.February, 3, 4, 5, 6, 0, time.UTC) },
	}
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, svc
}

func TestStatusReturnsDocumentWithoutContent(t *testing.T) {
	router, svc := setupDocumentsRouter(t)
	doc, err := svc.Create(context.Background(), NewDocument{
		Title:    "Test Lease",
		Content:  "Tenant shall pay rent of $1000 monthly.",
		FileType: "text/plain",
		FileSize: 40,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID+"/status", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body map[string]map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, ok := body["data"]
	if !ok || len(body) != 1 {
		t.Fatalf("expected a data envelope, got %s", resp.Body.String())
	}
	if data["analysis_status"] != StatusProcessing {
		t.Fatalf("expected processing, got %v", data["analysis_status"])
	}
	if data["title"] != "Test Lease" {
		t.Fatalf("unexpected title %v", data["title"])
	}
	if data["id"] != doc.ID {
		t.Fatalf("unexpected id %v", data["id"])
	}
	if _, ok := data["content"]; ok {
		t.Fatalf("status response must not include content")
	}
}

func TestStatusUnknownDocument(t *testing.T) {
	router, _ := setupDocumentsRouter(t)

	for _, id := range []string{"not-a-uuid", "0b9c3c9e-2f55-4f3e-8d0e-6d8a4b2c1f00"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+id+"/status", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", id, resp.Code)
		}
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error.Code != "not_found" {
			t.Fatalf("unexpected code %q", body.Error.Code)
		}
	}
}
