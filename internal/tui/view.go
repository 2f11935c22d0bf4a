package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"legalsim-backend/internal/simulator"
)

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("LegalSim"))
	b.WriteString(" ")
	b.WriteString(a.renderSteps())
	b.WriteString("\n\n")

	switch a.wizard.Step() {
	case simulator.StepUpload:
		b.WriteString(a.viewUpload())
	case simulator.StepAnalyze:
		b.WriteString(a.viewAnalyze())
	case simulator.StepResults:
		b.WriteString(a.viewResults())
	}

	if a.err != nil && a.wizard.Step() == simulator.StepUpload {
		b.WriteString("\n")
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
	}
	if a.toast != nil {
		b.WriteString("\n\n")
		style := a.styles.Success
		if a.toast.Destructive {
			style = a.styles.Error
		}
		b.WriteString(style.Render(a.toast.Title))
		if a.toast.Description != "" {
			b.WriteString(" ")
			b.WriteString(a.styles.Muted.Render(a.toast.Description))
		}
	}
	return b.String()
}

func (a *App) renderSteps() string {
	steps := []simulator.Step{simulator.StepUpload, simulator.StepAnalyze, simulator.StepResults}
	current := a.wizard.Step()
	parts := make([]string, 0, len(steps))
	for i, s := range steps {
		label := fmt.Sprintf("%d. %s", i+1, s)
		if s == current {
			parts = append(parts, a.styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, a.styles.Tab.Render(label))
		}
	}
	return strings.Join(parts, a.styles.Muted.Render(">"))
}

func (a *App) viewUpload() string {
	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render("Choose a contract"))
	b.WriteString("\n\n")
	for i, s := range a.samples {
		line := fmt.Sprintf("%s  (%s complexity, %d clauses)", s.Title, s.Complexity, s.Clauses)
		b.WriteString(a.renderOption(i, line))
		b.WriteString("\n")
		b.WriteString(a.styles.Muted.Render("    " + s.Description))
		b.WriteString("\n")
	}
	b.WriteString(a.renderOption(len(a.samples), "Upload file (PDF, DOCX or TXT up to 10MB)"))
	b.WriteString("\n")

	if a.entering {
		b.WriteString("\n")
		b.WriteString(a.path.View())
		b.WriteString("\n")
		b.WriteString(a.styles.Help.Render("enter: analyze  esc: cancel"))
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("up/down: move  enter: select  q: quit"))
	return b.String()
}

func (a *App) renderOption(i int, label string) string {
	if i == a.cursor {
		return a.styles.Selected.Render("> " + label)
	}
	return a.styles.Normal.Render("  " + label)
}

func (a *App) viewAnalyze() string {
	snap := a.wizard.Snapshot()
	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render("Analyzing " + snap.Title))
	b.WriteString("\n\n")
	b.WriteString(a.bar.ViewAs(a.percent / 100))
	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render(fmt.Sprintf("%.0f%% (estimated)", a.percent)))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("esc: discard  q: quit"))
	return b.String()
}

func (a *App) viewResults() string {
	if a.dashboard == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render(a.dashboard.Title))
	b.WriteString("\n")
	for i, t := range simulator.Tabs {
		if i == a.tab {
			b.WriteString(a.styles.ActiveTab.Render(t))
		} else {
			b.WriteString(a.styles.Tab.Render(t))
		}
	}
	b.WriteString("\n\n")

	switch simulator.Tabs[a.tab] {
	case simulator.TabSummary:
		b.WriteString(a.viewSummary())
	case simulator.TabClauses:
		b.WriteString(a.viewClauses())
	case simulator.TabScenarios:
		b.WriteString(a.viewScenarios())
	case simulator.TabQuiz:
		b.WriteString(a.viewQuiz())
	}
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("tab: next  shift+tab: prev  esc: new document  q: quit"))
	return b.String()
}

func (a *App) viewSummary() string {
	o := a.dashboard.Overview
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		a.styles.Card.Render(fmt.Sprintf("Clauses\n%d", o.TotalClauses)),
		a.styles.Card.Render(a.styles.Error.Render(fmt.Sprintf("Critical\n%d", o.CriticalClauses))),
		a.styles.Card.Render(a.styles.Success.Render(fmt.Sprintf("Beneficial\n%d", o.BeneficialClauses))),
		a.styles.Card.Render(a.styles.riskStyle(o.RiskLevel).Render(fmt.Sprintf("Risk %d/100\n%s", o.RiskScore, o.RiskLevel))),
		a.styles.Card.Render(fmt.Sprintf("Complexity %d/100\n%s comprehension", o.ComplexityScore, o.ComprehensionLevel)),
	)

	width := clamp(a.width-4, 40, 120)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(a.styles.Subtitle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(wrap.Render(a.dashboard.Summary))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Subtitle.Render("Key points"))
	b.WriteString("\n")
	b.WriteString(a.bullets(a.dashboard.KeyPoints, a.styles.Normal))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Subtitle.Render("In plain English"))
	b.WriteString("\n")
	b.WriteString(wrap.Render(a.dashboard.SimplifiedContent))
	return b.String()
}

func (a *App) viewClauses() string {
	var b strings.Builder
	b.WriteString(a.styles.Error.Render("Critical clauses"))
	b.WriteString("\n")
	b.WriteString(a.bullets(a.dashboard.CriticalClauses, a.styles.Normal))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Success.Render("Beneficial clauses"))
	b.WriteString("\n")
	b.WriteString(a.bullets(a.dashboard.BeneficialClauses, a.styles.Normal))
	return b.String()
}

func (a *App) viewScenarios() string {
	if len(a.dashboard.Scenarios) == 0 {
		return a.styles.Muted.Render("No critical clauses to explore.")
	}
	var b strings.Builder
	for i, s := range a.dashboard.Scenarios {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(a.styles.Warning.Render(fmt.Sprintf("Scenario %d", i+1)))
		b.WriteString("\n")
		b.WriteString(a.styles.Normal.Render(s.Question))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) viewQuiz() string {
	quiz := a.dashboard.Quiz
	if len(quiz) == 0 {
		return a.styles.Muted.Render("No clauses to quiz on.")
	}
	if len(a.answers) >= len(quiz) {
		correct, total := a.dashboard.Grade(a.answers)
		return a.styles.Success.Render(fmt.Sprintf("You got %d of %d right.", correct, total)) +
			"\n" + a.styles.Help.Render("r: retry")
	}
	q := quiz[len(a.answers)]
	var b strings.Builder
	b.WriteString(a.styles.Muted.Render(fmt.Sprintf("Question %d of %d", len(a.answers)+1, len(quiz))))
	b.WriteString("\n")
	b.WriteString(a.styles.Normal.Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Error.Render("[c] " + q.Options[0]))
	b.WriteString("\n")
	b.WriteString(a.styles.Success.Render("[b] " + q.Options[1]))
	return b.String()
}

func (a *App) bullets(items []string, style lipgloss.Style) string {
	if len(items) == 0 {
		return a.styles.Muted.Render("  (none)")
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, style.Render("  - "+item))
	}
	return strings.Join(lines, "\n")
}
