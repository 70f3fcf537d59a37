package recommend

import "github.com/okvitka/mindhaven-backend/internal/domain"

// attentionSeverity is the severity rank at or above which a detected state
// flags the whole result as needing attention.
const attentionSeverity = 2

// Summarize folds resolved state details into the summary block returned
// with every submission.
func Summarize(details []domain.StateDetail) *domain.StateSummary {
	dist := make(map[int]int)
	attention := false
	for _, d := range details {
		dist[d.Severity]++
		if d.Severity >= attentionSeverity {
			attention = true
		}
	}
	return &domain.StateSummary{
		States:               details,
		TotalCount:           len(details),
		SeverityDistribution: dist,
		RequiresAttention:    attention,
	}
}
