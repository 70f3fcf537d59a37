package recommend

import (
	"sort"

	"github.com/okvitka/mindhaven-backend/internal/domain"
)

const relatedLimit = 5

// RelatedRow is one RELATED_TO edge from a detected state to a candidate
// state, as returned by the graph store.
type RelatedRow struct {
	State       domain.EmotionalState
	Correlation float64
	Type        string
	SourceName  string
}

// MergeRelated dedupes related-state rows by target id, unions the source
// state names, and orders by correlation then severity. States already in
// the detected set never appear. Capped at five results.
func MergeRelated(rows []RelatedRow, detected map[string]bool) []domain.RelatedState {
	byID := make(map[string]*domain.RelatedState)
	sources := make(map[string]map[string]bool)
	order := make([]string, 0)

	for _, row := range rows {
		if detected[row.State.ID] {
			continue
		}
		rs, ok := byID[row.State.ID]
		if !ok {
			rs = &domain.RelatedState{
				ID:               row.State.ID,
				Name:             row.State.Name,
				Description:      row.State.Description,
				Level:            row.State.Level,
				Severity:         row.State.Severity,
				Correlation:      row.Correlation,
				RelationshipType: row.Type,
			}
			byID[row.State.ID] = rs
			sources[row.State.ID] = make(map[string]bool)
			order = append(order, row.State.ID)
		}
		// A state reachable via several detected states keeps its
		// strongest correlation.
		if row.Correlation > rs.Correlation {
			rs.Correlation = row.Correlation
			rs.RelationshipType = row.Type
		}
		if row.SourceName != "" && !sources[row.State.ID][row.SourceName] {
			sources[row.State.ID][row.SourceName] = true
			rs.RelatedTo = append(rs.RelatedTo, row.SourceName)
		}
	}

	out := make([]domain.RelatedState, 0, len(byID))
	for _, id := range order {
		out = append(out, *byID[id])
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Correlation != out[j].Correlation {
			return out[i].Correlation > out[j].Correlation
		}
		if out[i].Severity != out[j].Severity {
			return out[i].Severity > out[j].Severity
		}
		return out[i].ID < out[j].ID
	})

	if len(out) > relatedLimit {
		out = out[:relatedLimit]
	}
	return out
}
