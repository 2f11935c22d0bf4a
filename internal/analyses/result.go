package analyses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Result is the JSON object the completion service is instructed to return.
type Result struct {
	SimplifiedContent string     `json:"simplified_content"`
	Summary           string     `json:"summary"`
	KeyPoints         StringList `json:"key_points"`
	CriticalClauses   StringList `json:"critical_clauses"`
	BeneficialClauses StringList `json:"beneficial_clauses"`
	ComplexityScore   Score      `json:"complexity_score"`
	RiskScore         Score      `json:"risk_score"`
}

// ParseResult decodes raw model output. Anything that is not a JSON object is rejected.
func ParseResult(raw []byte) (Result, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Result{}, fmt.Errorf("%w: empty response", ErrInvalidOutput)
	}
	if trimmed[0] != '{' {
		return Result{}, fmt.Errorf("%w: response is not a JSON object", ErrInvalidOutput)
	}
	var res Result
	if err := json.Unmarshal(trimmed, &res); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return res, nil
}

// Analysis converts the result into a storable record for documentID.
func (r Result) Analysis(id, documentID string, createdAt time.Time) Analysis {
	return Analysis{
		ID:                id,
		DocumentID:        documentID,
		SimplifiedContent: r.SimplifiedContent,
		Summary:           r.Summary,
		KeyPoints:         []string(r.KeyPoints),
		CriticalClauses:   []string(r.CriticalClauses),
		BeneficialClauses: []string(r.BeneficialClauses),
		ComplexityScore:   int(r.ComplexityScore),
		RiskScore:         int(r.RiskScore),
		CreatedAt:         createdAt,
	}.normalize()
}

// Score is a 0..100 integer. Fractions are rounded, strings holding numbers are accepted
// and out-of-range values are clamped.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = 0
		return nil
	}
	var f float64
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return err
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return fmt.Errorf("score %q is not a number", str)
		}
		f = parsed
	} else if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("score must be a number: %w", err)
	}
	*s = Score(clampScore(f))
	return nil
}

func clampScore(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	f = math.Round(f)
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return int(f)
}

// StringList accepts an array of strings. Object entries are reduced to their most
// descriptive text field, a bare string becomes a single entry and null becomes empty.
type StringList []string

var clauseTextKeys = []string{"clause", "text", "title", "description", "point", "summary"}

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*l = StringList{}
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*l = appendNonBlank(StringList{}, single)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return fmt.Errorf("expected a list: %w", err)
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		out = appendNonBlank(out, listItemText(item))
	}
	*l = out
	return nil
}

func listItemText(item json.RawMessage) string {
	var str string
	if err := json.Unmarshal(item, &str); err == nil {
		return str
	}
	var obj map[string]any
	if err := json.Unmarshal(item, &obj); err == nil {
		for _, key := range clauseTextKeys {
			if v, ok := obj[key].(string); ok && strings.TrimSpace(v) != "" {
				return v
			}
		}
		compact, _ := json.Marshal(obj)
		return string(compact)
	}
	return strings.TrimSpace(string(item))
}

func appendNonBlank(list StringList, s string) StringList {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return list
	}
	return append(list, s)
}
