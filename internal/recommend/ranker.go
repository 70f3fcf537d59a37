package recommend

import (
	"sort"

	"github.com/okvitka/mindhaven-backend/internal/domain"
)

const DefaultLimit = 10

// CandidateRow is one (Resource)-[HELPS_WITH]->(EmotionalState) match as
// returned by the graph store, before aggregation.
type CandidateRow struct {
	Resource      domain.Resource
	ResourceType  string
	Themes        []string
	StateID       string
	StateName     string
	EdgePriority  string
	Effectiveness float64
}

type RankOptions struct {
	Limit int
	// MinPriority drops HELPS_WITH edges below this priority before
	// aggregation ("high", "medium", "low"). Empty means no filter.
	MinPriority string
}

// PrioritySet returns the attention-worthy state ids: level high, or level
// low on a category whose favorable outcome is a high total.
func PrioritySet(q *domain.Questionnaire, labels []domain.StateLabel) map[string]bool {
	polarity := make(map[string]domain.Polarity, len(q.Categories))
	for _, cat := range q.Categories {
		polarity[cat.ID] = cat.FavorableAt
	}
	set := make(map[string]bool)
	for _, label := range labels {
		if label.Level == domain.LevelHigh {
			set[label.StateID] = true
			continue
		}
		if label.Level == domain.LevelLow && polarity[label.CategoryID] == domain.FavorableAtHigh {
			set[label.StateID] = true
		}
	}
	return set
}

// Rank aggregates candidate rows per resource and orders them by the
// relevance key: stateCount*10 + maxPriority*5 + avgEffectiveness*10,
// then state count, then effectiveness, then resource id for a
// deterministic tail order.
func Rank(rows []CandidateRow, priority map[string]bool, opts RankOptions) []domain.Recommendation {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	minRank := priorityRank(opts.MinPriority)

	type agg struct {
		rec        domain.Recommendation
		stateIDs   map[string]bool
		stateNames map[string]bool
		themes     map[string]bool
		effSum     float64
		effCount   int
	}

	byResource := make(map[string]*agg)
	order := make([]string, 0)

	for _, row := range rows {
		if minRank > 0 && priorityRank(row.EdgePriority) < minRank {
			continue
		}
		a, ok := byResource[row.Resource.ID]
		if !ok {
			a = &agg{
				rec: domain.Recommendation{
					Resource:     row.Resource,
					ResourceType: row.ResourceType,
				},
				stateIDs:   make(map[string]bool),
				stateNames: make(map[string]bool),
				themes:     make(map[string]bool),
			}
			byResource[row.Resource.ID] = a
			order = append(order, row.Resource.ID)
		}

		score := edgePriorityScore(row.EdgePriority)
		if priority[row.StateID] {
			score = 3
		}
		if score > a.rec.MaxPriority {
			a.rec.MaxPriority = score
		}
		if !a.stateIDs[row.StateID] {
			a.stateIDs[row.StateID] = true
			a.rec.StateIDs = append(a.rec.StateIDs, row.StateID)
		}
		if row.StateName != "" && !a.stateNames[row.StateName] {
			a.stateNames[row.StateName] = true
			a.rec.AddressedStates = append(a.rec.AddressedStates, row.StateName)
		}
		for _, theme := range row.Themes {
			if !a.themes[theme] {
				a.themes[theme] = true
				a.rec.Themes = append(a.rec.Themes, theme)
			}
		}
		a.effSum += row.Effectiveness
		a.effCount++
	}

	out := make([]domain.Recommendation, 0, len(byResource))
	for _, id := range order {
		a := byResource[id]
		a.rec.StateCount = len(a.stateIDs)
		if a.effCount > 0 {
			a.rec.AvgEffectiveness = a.effSum / float64(a.effCount)
		}
		a.rec.RelevanceScore = float64(a.rec.StateCount)*10 +
			float64(a.rec.MaxPriority)*5 +
			a.rec.AvgEffectiveness*10
		out = append(out, a.rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].RelevanceScore != out[j].RelevanceScore {
			return out[i].RelevanceScore > out[j].RelevanceScore
		}
		if out[i].StateCount != out[j].StateCount {
			return out[i].StateCount > out[j].StateCount
		}
		if out[i].AvgEffectiveness != out[j].AvgEffectiveness {
			return out[i].AvgEffectiveness > out[j].AvgEffectiveness
		}
		return out[i].ID < out[j].ID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func edgePriorityScore(priority string) int {
	switch priority {
	case "high":
		return 2
	case "medium":
		return 1
	default:
		return 0
	}
}

func priorityRank(priority string) int {
	switch priority {
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	default:
		return 0
	}
}
