package analyses

import "time"

// Analysis is the structured outcome of running a document through the completion service.
type Analysis struct {
	ID                string
	DocumentID        string
	SimplifiedContent string
	Summary           string
	KeyPoints         []string
	CriticalClauses   []string
	BeneficialClauses []string
	ComplexityScore   int
	RiskScore         int
	CreatedAt         time.Time
}

// normalize guarantees list fields are never nil and scores stay in range.
func (a Analysis) normalize() Analysis {
	a.KeyPoints = nonNil(a.KeyPoints)
	a.CriticalClauses = nonNil(a.CriticalClauses)
	a.BeneficialClauses = nonNil(a.BeneficialClauses)
	a.ComplexityScore = clampScore(float64(a.ComplexityScore))
	a.RiskScore = clampScore(float64(a.RiskScore))
	return a
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
