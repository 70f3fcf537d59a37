package scoring

import (
	"github.com/okvitka/mindhaven-backend/internal/domain"
)

// ComputeScores aggregates raw answers into per-category scores. A missing
// answer falls back to the scale midpoint so a partially completed test
// still scores every category; out-of-scale values are clamped. Never
// returns an error and always yields one entry per category.
func ComputeScores(q *domain.Questionnaire, answers domain.AnswerSet) map[string]domain.CategoryScore {
	midpoint := q.ScaleMidpoint()
	out := make(map[string]domain.CategoryScore, len(q.Categories))

	for _, cat := range q.Categories {
		sum := 0
		for _, question := range cat.Questions {
			val, ok := answers[question.ID]
			if !ok {
				val = midpoint
			}
			val = clamp(val, q.ScaleMin, q.ScaleMax)
			if question.Reverse {
				val = q.ScaleMin + q.ScaleMax - val
			}
			sum += val
		}
		count := len(cat.Questions)
		out[cat.ID] = domain.CategoryScore{
			Average:       float64(sum) / float64(count),
			Total:         sum,
			QuestionCount: count,
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
