package grading

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultPassThreshold is the display-only pass mark, in percent.
const DefaultPassThreshold = 60.0

// Graded is the outcome for one question.
type Graded struct {
	QuestionID    uint
	QuestionText  string
	Kind          Kind
	UserAnswer    string // option text or the raw free-text answer
	CorrectAnswer string
	IsCorrect     bool

	// Exactly one of these is set, depending on Kind. SelectedOptionID is
	// nil when the submitted value did not resolve to an option.
	SelectedOptionID *uint
	TextAnswer       *string
}

type Report struct {
	Score          int
	TotalQuestions int
	Details        []Graded
}

func (r Report) Percentage() float64 {
	return Percentage(r.Score, r.TotalQuestions)
}

// Grade scores answers (question id -> raw payload) against qs. Every
// question is graded; missing or unresolvable answers count as incorrect.
func Grade(qs []Question, answers map[uint]string) Report {
	ordered := cloneQuestions(qs)
	SortByOrder(ordered)

	report := Report{
		TotalQuestions: len(ordered),
		Details:        make([]Graded, 0, len(ordered)),
	}
	for _, q := range ordered {
		g := gradeOne(q, answers[q.ID])
		if g.IsCorrect {
			report.Score++
		}
		report.Details = append(report.Details, g)
	}
	return report
}

func gradeOne(q Question, raw string) Graded {
	g := Graded{QuestionID: q.ID, QuestionText: q.Text}

	switch body := q.Body.(type) {
	case Choice:
		g.Kind = KindChoice
		if correct, ok := body.Correct(); ok {
			g.CorrectAnswer = correct.Text
		}
		if id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64); err == nil {
			if opt, ok := body.Option(uint(id)); ok {
				optID := opt.ID
				g.SelectedOptionID = &optID
				g.UserAnswer = opt.Text
				g.IsCorrect = opt.IsCorrect
			}
		}
	case Open:
		g.Kind = KindOpen
		text := raw
		g.TextAnswer = &text
		g.UserAnswer = raw
		g.CorrectAnswer = body.Canonical
		g.IsCorrect = NormalizeText(raw) == NormalizeText(body.Canonical)
	}
	return g
}

// NormalizeText trims surrounding whitespace and case-folds s.
func NormalizeText(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Percentage is score/total*100 rounded to one decimal, or 0 for an empty test.
// Exact halves round away from zero, so 1/16 reports 6.3 rather than the 6.2 a
// binary round-half-even would give.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*1000) / 10
}

// Passed reports whether percentage reaches threshold.
func Passed(percentage, threshold float64) bool {
	return percentage >= threshold
}
