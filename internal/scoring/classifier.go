package scoring

import (
	"github.com/okvitka/mindhaven-backend/internal/domain"
)

// Band fractions of the category score range. A 4-question category on a
// 1..5 scale spans 4..20: low ends at 8, medium at 14, high is 15+.
const (
	lowBandFraction    = 0.25
	mediumBandFraction = 0.625
)

// DetermineStates buckets each category total into a level and forms the
// state id. Exactly one label per category, in questionnaire definition
// order. The level string maps directly to the state-id suffix for every
// category; polarity only changes which level counts as attention-worthy
// downstream (see recommend.PrioritySet).
func DetermineStates(q *domain.Questionnaire, scores map[string]domain.CategoryScore) []domain.StateLabel {
	labels := make([]domain.StateLabel, 0, len(q.Categories))

	for _, cat := range q.Categories {
		score, ok := scores[cat.ID]
		if !ok {
			// Defensive default; ComputeScores always emits every category.
			count := len(cat.Questions)
			mid := q.ScaleMidpoint()
			score = domain.CategoryScore{
				Average:       float64(mid),
				Total:         mid * count,
				QuestionCount: count,
			}
		}

		minTotal := score.QuestionCount * q.ScaleMin
		maxTotal := score.QuestionCount * q.ScaleMax
		level := bucket(score.Total, minTotal, maxTotal)

		labels = append(labels, domain.StateLabel{
			StateID:    cat.StateIDPrefix() + "_" + string(level),
			CategoryID: cat.ID,
			Level:      level,
			Score:      score.Total,
		})
	}
	return labels
}

func bucket(total, minTotal, maxTotal int) domain.Level {
	span := maxTotal - minTotal
	lowMax := minTotal + int(lowBandFraction*float64(span))
	mediumMax := minTotal + int(mediumBandFraction*float64(span))
	switch {
	case total <= lowMax:
		return domain.LevelLow
	case total <= mediumMax:
		return domain.LevelMedium
	default:
		return domain.LevelHigh
	}
}
