package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestInfoWritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Info("analysis.status", map[string]any{
		"document_id":       "doc-1",
		"status_transition": "processing->completed",
	})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["msg"] != "analysis.status" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload["document_id"] != "doc-1" {
		t.Fatalf("unexpected document_id: %v", payload["document_id"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("INFO")
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Debug("noisy", nil)
	Error("loud", nil)

	out := buf.String()
	if strings.Contains(out, "noisy") {
		t.Fatalf("debug line should be filtered: %s", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("expected error line, got %q", out)
	}
}
