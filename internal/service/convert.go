package service

import (
	"clever_backend/internal/grading"
	"clever_backend/internal/model"
)

func toGradingQuestions(qs []model.Question) []grading.Question {
	out := make([]grading.Question, 0, len(qs))
	for _, q := range qs {
		gq := grading.Question{
			ID:       q.ID,
			Order:    q.Order,
			Text:     q.Text,
			ImageURL: q.ImageURL,
		}
		switch q.Type {
		case model.QuestionChoice:
			opts := make([]grading.Option, 0, len(q.Options))
			for _, o := range q.Options {
				opts = append(opts, grading.Option{ID: o.ID, Order: o.Order, Text: o.Text, IsCorrect: o.IsCorrect})
			}
			gq.Body = grading.Choice{Options: opts}
		default:
			gq.Body = grading.Open{Canonical: q.CorrectAnswer}
		}
		out = append(out, gq)
	}
	return out
}

func toGradingLevels(levels []model.Level) []grading.Level {
	out := make([]grading.Level, 0, len(levels))
	for _, l := range levels {
		out = append(out, grading.Level{
			ID:              l.ID,
			Order:           l.Order,
			Title:           l.Title,
			MinPercent:      l.MinPercent,
			MaxPercent:      l.MaxPercent,
			Description:     l.Description,
			Recommendations: l.Recommendations,
		})
	}
	return out
}

func testAccess(t *model.Test) grading.TestAccess {
	return grading.TestAccess{
		OwnerID:  t.OwnerID,
		GroupIDs: t.GroupIDs(),
		Active:   t.IsActive,
	}
}
