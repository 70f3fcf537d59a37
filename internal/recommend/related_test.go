package recommend

import (
	"testing"

	"github.com/okvitka/mindhaven-backend/internal/domain"
)

func relRow(id string, severity int, corr float64, relType, source string) RelatedRow {
	return RelatedRow{
		State:       domain.EmotionalState{ID: id, Name: id, Severity: severity},
		Correlation: corr,
		Type:        relType,
		SourceName:  source,
	}
}

func TestMergeRelatedExcludesDetected(t *testing.T) {
	rows := []RelatedRow{
		relRow("social_low", 3, 0.85, "comorbidity", "High Loneliness"),
		relRow("loneliness_high", 3, 0.85, "comorbidity", "Social Isolation"),
	}
	out := MergeRelated(rows, map[string]bool{"loneliness_high": true})
	if len(out) != 1 || out[0].ID != "social_low" {
		t.Fatalf("detected state leaked into related set: %+v", out)
	}
}

func TestMergeRelatedDedupesKeepingStrongest(t *testing.T) {
	rows := []RelatedRow{
		relRow("low_mood_high", 3, 0.6, "overlap", "High Anxiety"),
		relRow("low_mood_high", 3, 0.7, "comorbidity", "High Loneliness"),
	}
	out := MergeRelated(rows, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 deduped state, got %d", len(out))
	}
	rs := out[0]
	if rs.Correlation != 0.7 || rs.RelationshipType != "comorbidity" {
		t.Fatalf("kept correlation %f/%s, want 0.7/comorbidity", rs.Correlation, rs.RelationshipType)
	}
	if len(rs.RelatedTo) != 2 {
		t.Fatalf("source names = %v, want both sources unioned", rs.RelatedTo)
	}
}

func TestMergeRelatedOrderAndCap(t *testing.T) {
	rows := []RelatedRow{
		relRow("s1", 1, 0.5, "overlap", "a"),
		relRow("s2", 3, 0.5, "overlap", "a"),
		relRow("s3", 2, 0.9, "comorbidity", "a"),
		relRow("s4", 1, 0.7, "comorbidity", "a"),
		relRow("s5", 2, 0.6, "overlap", "a"),
		relRow("s6", 1, 0.4, "overlap", "a"),
		relRow("s7", 3, 0.3, "overlap", "a"),
	}
	out := MergeRelated(rows, nil)
	if len(out) != 5 {
		t.Fatalf("cap failed: got %d states, want 5", len(out))
	}
	if out[0].ID != "s3" {
		t.Fatalf("first = %s, want s3 (highest correlation)", out[0].ID)
	}
	// s2 and s1 share correlation 0.5; s2 wins on severity.
	var i1, i2 = -1, -1
	for i, rs := range out {
		if rs.ID == "s1" {
			i1 = i
		}
		if rs.ID == "s2" {
			i2 = i
		}
	}
	if i2 == -1 || (i1 != -1 && i2 > i1) {
		t.Fatalf("severity tiebreak failed: s1 at %d, s2 at %d", i1, i2)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]domain.StateDetail{
		{ID: "loneliness_high", Severity: 3},
		{ID: "anxiety_low", Severity: 1},
		{ID: "low_mood_medium", Severity: 2},
	})
	if sum.TotalCount != 3 {
		t.Fatalf("total = %d, want 3", sum.TotalCount)
	}
	if sum.SeverityDistribution[1] != 1 || sum.SeverityDistribution[2] != 1 || sum.SeverityDistribution[3] != 1 {
		t.Fatalf("distribution = %v", sum.SeverityDistribution)
	}
	if !sum.RequiresAttention {
		t.Fatalf("severity 2+ present but requires_attention is false")
	}

	calm := Summarize([]domain.StateDetail{{ID: "anxiety_low", Severity: 1}})
	if calm.RequiresAttention {
		t.Fatalf("all-low result flagged as requiring attention")
	}
}
