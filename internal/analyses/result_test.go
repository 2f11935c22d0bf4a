package analyses

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultHappyPath(t *testing.T) {
	raw := []byte(`{
		"simplified_content": "You work for us.",
		"summary": "An employment agreement.",
		"key_points": ["Salary is paid monthly", "Two weeks notice"],
		"critical_clauses": ["Non-compete for 24 months"],
		"beneficial_clauses": ["20 days paid leave"],
		"complexity_score": 62,
		"risk_score": 41
	}`)

	res, err := ParseResult(raw)
	require.NoError(t, err)
	assert.Equal(t, "You work for us.", res.SimplifiedContent)
	assert.Equal(t, StringList{"Salary is paid monthly", "Two weeks notice"}, res.KeyPoints)
	assert.Equal(t, Score(62), res.ComplexityScore)
	assert.Equal(t, Score(41), res.RiskScore)
}

func TestParseResultRejectsNonJSON(t *testing.T) {
	cases := map[string]string{
		"prose":    "Here is your analysis: the contract is fine.",
		"empty":    "   ",
		"array":    `[{"summary":"x"}]`,
		"fenced":   "```json\n{\"summary\":\"x\"}\n```",
		"truncate": `{"summary": "x", "key_points": [`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseResult([]byte(raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidOutput), "got %v", err)
		})
	}
}

func TestScoreClampsAndRounds(t *testing.T) {
	raw := []byte(`{"complexity_score": 140.6, "risk_score": -3}`)
	res, err := ParseResult(raw)
	require.NoError(t, err)
	assert.Equal(t, Score(100), res.ComplexityScore)
	assert.Equal(t, Score(0), res.RiskScore)

	res, err = ParseResult([]byte(`{"complexity_score": "72.4", "risk_score": 49.5}`))
	require.NoError(t, err)
	assert.Equal(t, Score(72), res.ComplexityScore)
	assert.Equal(t, Score(50), res.RiskScore)
}

func TestScoreRejectsGarbage(t *testing.T) {
	_, err := ParseResult([]byte(`{"risk_score": "high"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestStringListTolerance(t *testing.T) {
	raw := []byte(`{
		"key_points": null,
		"critical_clauses": [{"clause": "Auto renewal", "explanation": "renews yearly"}, "", "Late fee 5%"],
		"beneficial_clauses": "Free cancellation in 14 days"
	}`)
	res, err := ParseResult(raw)
	require.NoError(t, err)
	assert.Equal(t, StringList{}, res.KeyPoints)
	assert.Equal(t, StringList{"Auto renewal", "Late fee 5%"}, res.CriticalClauses)
	assert.Equal(t, StringList{"Free cancellation in 14 days"}, res.BeneficialClauses)
}

func TestResultAnalysisNeverNilLists(t *testing.T) {
	res, err := ParseResult([]byte(`{"summary": "short"}`))
	require.NoError(t, err)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := res.Analysis("a-1", "doc-1", created)
	assert.Equal(t, "doc-1", a.DocumentID)
	assert.NotNil(t, a.KeyPoints)
	assert.NotNil(t, a.CriticalClauses)
	assert.NotNil(t, a.BeneficialClauses)
	assert.Equal(t, 0, a.RiskScore)
	assert.Equal(t, created, a.CreatedAt)
}
