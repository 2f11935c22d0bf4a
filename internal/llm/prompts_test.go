package llm

import (
	"strings"
	"testing"
)

func TestPromptTemplateListsAllSevenFields(t *testing.T) {
	prompt, ok := PromptTemplate(PromptVersionLegalV1)
	if !ok {
		t.Fatalf("expected legal_v1 to be recognized")
	}
	for _, field := range []string{
		"simplified_content", "summary", "key_points", "critical_clauses",
		"beneficial_clauses", "complexity_score", "risk_score",
	} {
		if !strings.Contains(prompt, field) {
			t.Fatalf("prompt missing field %s", field)
		}
	}
	if !strings.HasPrefix(prompt, "You are a legal document simplification expert.") {
		t.Fatalf("unexpected prompt start: %q", prompt[:40])
	}
}

func TestPromptTemplateUnknownVersionFallsBack(t *testing.T) {
	prompt, ok := PromptTemplate("v99")
	if ok {
		t.Fatalf("expected unknown version to report false")
	}
	if prompt == "" {
		t.Fatalf("expected fallback prompt")
	}
}

func TestUserMessage(t *testing.T) {
	got := UserMessage("Tenant shall pay rent of $1000 monthly.")
	want := "Please analyze and simplify this legal document:\n\nTenant shall pay rent of $1000 monthly."
	if got != want {
		t.Fatalf("UserMessage = %q, want %q", got, want)
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{StatusCode: 429}
	if err.Error() != "OpenAI API error: 429" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
