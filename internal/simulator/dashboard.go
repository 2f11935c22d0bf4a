package simulator

import (
	"fmt"

	"legalsim-backend/internal/client"
)

// Tab names in display order.
const (
	TabSummary   = "summary"
	TabClauses   = "clauses"
	TabScenarios = "scenarios"
	TabQuiz      = "quiz"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []string{TabSummary, TabClauses, TabScenarios, TabQuiz}

// Overview holds the headline cards.
type Overview struct {
	TotalClauses       int
	CriticalClauses    int
	BeneficialClauses  int
	RiskScore          int
	RiskLevel          string
	ComplexityScore    int
	ComprehensionLevel string
}

// Scenario is a "what if" prompt derived from a critical clause.
type Scenario struct {
	Clause   string
	Question string
}

// QuizQuestion asks whether a clause works for or against the reader.
type QuizQuestion struct {
	Clause  string
	Prompt  string
	Options []string
	Answer  int
}

// Dashboard is everything the results view renders.
type Dashboard struct {
	Title             string
	Overview          Overview
	SimplifiedContent string
	Summary           string
	KeyPoints         []string
	CriticalClauses   []string
	BeneficialClauses []string
	Scenarios         []Scenario
	Quiz              []QuizQuestion
}

var quizOptions = []string{"Critical: needs your attention", "Beneficial: works in your favor"}

const (
	answerCritical   = 0
	answerBeneficial = 1
)

// BuildDashboard derives the results view from an analysis.
func BuildDashboard(title string, a client.Analysis) Dashboard {
	critical := nonNil(a.CriticalClauses)
	beneficial := nonNil(a.BeneficialClauses)

	d := Dashboard{
		Title: title,
		Overview: Overview{
			TotalClauses:       len(critical) + len(beneficial),
			CriticalClauses:    len(critical),
			BeneficialClauses:  len(beneficial),
			RiskScore:          a.RiskScore,
			RiskLevel:          RiskLevel(a.RiskScore),
			ComplexityScore:    a.ComplexityScore,
			ComprehensionLevel: ComprehensionLevel(a.ComplexityScore),
		},
		SimplifiedContent: a.SimplifiedContent,
		Summary:           a.Summary,
		KeyPoints:         nonNil(a.KeyPoints),
		CriticalClauses:   critical,
		BeneficialClauses: beneficial,
		Scenarios:         make([]Scenario, 0, len(critical)),
		Quiz:              make([]QuizQuestion, 0, len(critical)+len(beneficial)),
	}

	for _, clause := range critical {
		d.Scenarios = append(d.Scenarios, Scenario{
			Clause:   clause,
			Question: fmt.Sprintf("What could happen to you if this term is enforced: %q?", clause),
		})
	}

	// Alternate critical and beneficial clauses so the answer is not always the same.
	for i := 0; i < len(critical) || i < len(beneficial); i++ {
		if i < len(critical) {
			d.Quiz = append(d.Quiz, quizQuestion(critical[i], answerCritical))
		}
		if i < len(beneficial) {
			d.Quiz = append(d.Quiz, quizQuestion(beneficial[i], answerBeneficial))
		}
	}
	return d
}

func quizQuestion(clause string, answer int) QuizQuestion {
	return QuizQuestion{
		Clause:  clause,
		Prompt:  fmt.Sprintf("Is this clause critical or beneficial for you? %q", clause),
		Options: quizOptions,
		Answer:  answer,
	}
}

// Grade returns how many answers match. Missing answers count as wrong.
func (d Dashboard) Grade(answers []int) (correct, total int) {
	total = len(d.Quiz)
	for i, q := range d.Quiz {
		if i < len(answers) && answers[i] == q.Answer {
			correct++
		}
	}
	return correct, total
}

// RiskLevel buckets a 0..100 risk score.
func RiskLevel(score int) string {
	switch {
	case score < 34:
		return "Low"
	case score < 67:
		return "Medium"
	default:
		return "High"
	}
}

// ComprehensionLevel buckets a 0..100 complexity score.
func ComprehensionLevel(score int) string {
	switch {
	case score < 34:
		return "Beginner"
	case score < 67:
		return "Intermediate"
	default:
		return "Advanced"
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
