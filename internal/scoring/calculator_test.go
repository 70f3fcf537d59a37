package scoring

import (
	"math"
	"testing"

	"github.com/okvitka/mindhaven-backend/internal/domain"
)

func testQuestionnaire() *domain.Questionnaire {
	return &domain.Questionnaire{
		ID:       "wellbeing_screen_v1",
		ScaleMin: 1,
		ScaleMax: 5,
		Categories: []domain.Category{
			{
				ID:          "loneliness",
				FavorableAt: domain.FavorableAtLow,
				Questions: []domain.Question{
					{ID: "lon_q1"}, {ID: "lon_q2"}, {ID: "lon_q3"}, {ID: "lon_q4"},
				},
			},
			{
				ID:          "motivation",
				FavorableAt: domain.FavorableAtHigh,
				Questions: []domain.Question{
					{ID: "mot_q1"}, {ID: "mot_q2"}, {ID: "mot_q3"}, {ID: "mot_q4"},
				},
			},
			{
				ID:          "social_connectedness",
				StatePrefix: "social",
				FavorableAt: domain.FavorableAtHigh,
				Questions: []domain.Question{
					{ID: "soc_q1"}, {ID: "soc_q2"}, {ID: "soc_q3"}, {ID: "soc_q4"},
				},
			},
		},
	}
}

func TestComputeScoresAllAnswered(t *testing.T) {
	q := testQuestionnaire()
	scores := ComputeScores(q, domain.AnswerSet{
		"lon_q1": 5, "lon_q2": 5, "lon_q3": 5, "lon_q4": 5,
		"mot_q1": 2, "mot_q2": 2, "mot_q3": 2, "mot_q4": 2,
		"soc_q1": 1, "soc_q2": 2, "soc_q3": 3, "soc_q4": 4,
	})

	if got := scores["loneliness"].Total; got != 20 {
		t.Fatalf("loneliness total = %d, want 20", got)
	}
	if got := scores["motivation"].Total; got != 8 {
		t.Fatalf("motivation total = %d, want 8", got)
	}
	if got := scores["social_connectedness"].Total; got != 10 {
		t.Fatalf("social total = %d, want 10", got)
	}
}

func TestComputeScoresMissingAnswersUseMidpoint(t *testing.T) {
	q := testQuestionnaire()
	scores := ComputeScores(q, domain.AnswerSet{})

	if len(scores) != 3 {
		t.Fatalf("expected scores for all 3 categories, got %d", len(scores))
	}
	for id, cs := range scores {
		if cs.Total != cs.QuestionCount*3 {
			t.Fatalf("category %s: all-midpoint total = %d, want %d", id, cs.Total, cs.QuestionCount*3)
		}
	}
}

func TestComputeScoresTotalMatchesAverage(t *testing.T) {
	q := testQuestionnaire()
	scores := ComputeScores(q, domain.AnswerSet{
		"lon_q1": 1, "lon_q2": 4, "mot_q3": 5, "soc_q2": 2,
	})
	for id, cs := range scores {
		want := int(math.Round(cs.Average * float64(cs.QuestionCount)))
		if cs.Total != want {
			t.Fatalf("category %s: total %d != round(avg*count) %d", id, cs.Total, want)
		}
	}
}

func TestComputeScoresReverseSelfConsistent(t *testing.T) {
	forward := &domain.Questionnaire{
		ScaleMin: 1, ScaleMax: 5,
		Categories: []domain.Category{{
			ID:        "c",
			Questions: []domain.Question{{ID: "q1"}},
		}},
	}
	reversed := &domain.Questionnaire{
		ScaleMin: 1, ScaleMax: 5,
		Categories: []domain.Category{{
			ID:        "c",
			Questions: []domain.Question{{ID: "q1", Reverse: true}},
		}},
	}
	for v := 1; v <= 5; v++ {
		rev := ComputeScores(reversed, domain.AnswerSet{"q1": v})["c"].Total
		fwd := ComputeScores(forward, domain.AnswerSet{"q1": 6 - v})["c"].Total
		if rev != fwd {
			t.Fatalf("v=%d: reverse-scored %d != forward-scored(6-v) %d", v, rev, fwd)
		}
	}
}

func TestComputeScoresClampsOutOfScale(t *testing.T) {
	q := testQuestionnaire()
	scores := ComputeScores(q, domain.AnswerSet{
		"lon_q1": 99, "lon_q2": -3, "lon_q3": 5, "lon_q4": 1,
	})
	// 99 clamps to 5 and -3 clamps to 1, plus 5 and 1 as given.
	if got := scores["loneliness"].Total; got != 12 {
		t.Fatalf("clamped total = %d, want 12", got)
	}
}
