package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersExposedByHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	before := testutil.ToFloat64(analysisFailed.WithLabelValues("llm_output"))
	IncAnalysisStarted()
	IncAnalysisFailed("llm_output")
	IncDocumentStranded()
	ObserveAnalysisDuration(1500 * time.Millisecond)
	IncWorkerMessage("warmed")

	if got := testutil.ToFloat64(analysisFailed.WithLabelValues("llm_output")); got != before+1 {
		t.Fatalf("expected failed counter to increase by 1, got %v -> %v", before, got)
	}

	r := gin.New()
	r.GET("/metrics", Handler())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, name := range []string{
		"legalsim_analysis_started_total",
		"legalsim_analysis_failed_total",
		"legalsim_documents_stranded_total",
		"legalsim_analysis_duration_seconds_bucket",
		"legalsim_worker_messages_total",
	} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in exposition", name)
		}
	}
}

func TestRegisterDBStatsExportsPool(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sqlDB, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()
	sqlDB.SetMaxOpenConns(4)

	if err := RegisterDBStats(sqlDB); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := RegisterDBStats(sqlDB); err != nil {
		t.Fatalf("second register should be a no-op, got %v", err)
	}
	if err := RegisterDBStats(nil); err != nil {
		t.Fatalf("nil db should be ignored, got %v", err)
	}

	r := gin.New()
	r.GET("/metrics", Handler())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(resp.Body.String(), `go_sql_max_open_connections{db_name="legalsim"} 4`) {
		t.Fatalf("expected pool stats in exposition")
	}
}
