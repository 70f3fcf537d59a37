package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okvitka/mindhaven-backend/internal/domain"
	"github.com/okvitka/mindhaven-backend/internal/platform/apierr"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
	"github.com/okvitka/mindhaven-backend/internal/questionnaire"
	"github.com/okvitka/mindhaven-backend/internal/recommend"
)

type fakeStore struct {
	helpsRows   []recommend.CandidateRow
	relatedRows []recommend.RelatedRow
	details     []domain.StateDetail
	byTheme     []domain.Recommendation
	graphView   *domain.GraphView
	err         error

	savedQuestionnaire string
	savedLabels        []domain.StateLabel
	savedRecs          []domain.Recommendation
	saveCalls          int
}

func (f *fakeStore) HelpsWithRows(ctx context.Context, labels []domain.StateLabel) ([]recommend.CandidateRow, error) {
	return f.helpsRows, f.err
}

func (f *fakeStore) RelatedRows(ctx context.Context, labels []domain.StateLabel) ([]recommend.RelatedRow, error) {
	return f.relatedRows, f.err
}

func (f *fakeStore) StateDetails(ctx context.Context, labels []domain.StateLabel) ([]domain.StateDetail, error) {
	return f.details, f.err
}

func (f *fakeStore) ResourcesByTheme(ctx context.Context, themeIDs []string, limit int) ([]domain.Recommendation, error) {
	return f.byTheme, f.err
}

func (f *fakeStore) FullGraph(ctx context.Context) (*domain.GraphView, error) {
	return f.graphView, f.err
}

func (f *fakeStore) RateResource(ctx context.Context, testResultID, resourceID string, rating int) error {
	return f.err
}

func (f *fakeStore) SaveTestResult(ctx context.Context, questionnaireID string, labels []domain.StateLabel, recs []domain.Recommendation, answers domain.AnswerSet, scores map[string]domain.CategoryScore) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saveCalls++
	f.savedQuestionnaire = questionnaireID
	f.savedLabels = labels
	f.savedRecs = recs
	return "b2f7d5b0-0000-4000-8000-000000000001", nil
}

const submitCatalog = `[
  {
    "id": "screen_v1",
    "title": "Screen",
    "categories": [
      {
        "id": "loneliness",
        "name": "Loneliness",
        "questions": [
          { "id": "q1" }, { "id": "q2" }, { "id": "q3" }, { "id": "q4" }
        ]
      }
    ]
  }
]`

func testCatalog(t *testing.T) *questionnaire.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tests_data.json")
	if err := os.WriteFile(path, []byte(submitCatalog), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	c, err := questionnaire.LoadCatalog(path, testLogger(t))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	return c
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func highAnswers() domain.AnswerSet {
	return domain.AnswerSet{"q1": 5, "q2": 5, "q3": 5, "q4": 5}
}

func TestSubmitEndToEnd(t *testing.T) {
	store := &fakeStore{
		helpsRows: []recommend.CandidateRow{
			{
				Resource:      domain.Resource{ID: "res_a", Title: "Reach Out"},
				StateID:       "loneliness_high",
				StateName:     "High Loneliness",
				EdgePriority:  "high",
				Effectiveness: 0.9,
			},
		},
		relatedRows: []recommend.RelatedRow{
			{State: domain.EmotionalState{ID: "social_low", Name: "Social Isolation", Severity: 3}, Correlation: 0.85},
			{State: domain.EmotionalState{ID: "loneliness_high", Severity: 3}, Correlation: 0.9},
		},
		details: []domain.StateDetail{{ID: "loneliness_high", Severity: 3}},
	}
	svc := NewAssessmentService(testLogger(t), testCatalog(t), store, nil, nil)

	result, err := svc.Submit(context.Background(), "screen_v1", highAnswers(), SubmitOptions{Persist: true})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if result.CategoryScores["loneliness"].Total != 20 {
		t.Fatalf("loneliness total = %d, want 20", result.CategoryScores["loneliness"].Total)
	}
	if len(result.States) != 1 || result.States[0].StateID != "loneliness_high" {
		t.Fatalf("states = %+v", result.States)
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].ID != "res_a" {
		t.Fatalf("recommendations = %+v", result.Recommendations)
	}
	if result.Recommendations[0].MaxPriority != 3 {
		t.Fatalf("max priority = %d, want 3 (detected high state)", result.Recommendations[0].MaxPriority)
	}
	// Detected state must not come back as related.
	if len(result.RelatedStates) != 1 || result.RelatedStates[0].ID != "social_low" {
		t.Fatalf("related = %+v", result.RelatedStates)
	}
	if result.Summary == nil || !result.Summary.RequiresAttention {
		t.Fatalf("summary = %+v", result.Summary)
	}
	if result.TestResultID == "" || store.saveCalls != 1 {
		t.Fatalf("persist path skipped: id=%q calls=%d", result.TestResultID, store.saveCalls)
	}
	if store.savedQuestionnaire != "screen_v1" || len(store.savedRecs) != 1 {
		t.Fatalf("saved %q with %d recs", store.savedQuestionnaire, len(store.savedRecs))
	}
}

func TestSubmitWithoutPersist(t *testing.T) {
	store := &fakeStore{}
	svc := NewAssessmentService(testLogger(t), testCatalog(t), store, nil, nil)

	result, err := svc.Submit(context.Background(), "screen_v1", highAnswers(), SubmitOptions{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.TestResultID != "" || store.saveCalls != 0 {
		t.Fatalf("persist ran despite Persist=false: id=%q calls=%d", result.TestResultID, store.saveCalls)
	}
}

func TestSubmitUnknownQuestionnaire(t *testing.T) {
	svc := NewAssessmentService(testLogger(t), testCatalog(t), &fakeStore{}, nil, nil)

	_, err := svc.Submit(context.Background(), "nope", nil, SubmitOptions{})
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotFound {
		t.Fatalf("error = %v, want %s", err, apierr.CodeNotFound)
	}
}

func TestSubmitPropagatesStoreError(t *testing.T) {
	boom := apierr.Unavailable(errors.New("neo4j down"))
	svc := NewAssessmentService(testLogger(t), testCatalog(t), &fakeStore{err: boom}, nil, nil)

	_, err := svc.Submit(context.Background(), "screen_v1", highAnswers(), SubmitOptions{})
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeBackendUnavailable {
		t.Fatalf("error = %v, want %s", err, apierr.CodeBackendUnavailable)
	}
}

func TestGetQuestionnaire(t *testing.T) {
	svc := NewAssessmentService(testLogger(t), testCatalog(t), &fakeStore{}, nil, nil)

	if _, err := svc.GetQuestionnaire("screen_v1"); err != nil {
		t.Fatalf("GetQuestionnaire: %v", err)
	}
	if _, err := svc.GetQuestionnaire("missing"); err == nil {
		t.Fatalf("expected not-found error")
	}
	if got := svc.ListQuestionnaires(); len(got) != 1 {
		t.Fatalf("list = %+v", got)
	}
}

func TestCacheKeyIgnoresLabelOrder(t *testing.T) {
	a := []domain.StateLabel{{StateID: "anxiety_high"}, {StateID: "loneliness_high"}}
	b := []domain.StateLabel{{StateID: "loneliness_high"}, {StateID: "anxiety_high"}}
	opts := recommend.RankOptions{Limit: 10}
	if cacheKey(a, opts) != cacheKey(b, opts) {
		t.Fatalf("key depends on label order")
	}
	if cacheKey(a, opts) == cacheKey(a, recommend.RankOptions{Limit: 5}) {
		t.Fatalf("key ignores rank options")
	}
	if cacheKey(a, opts) == cacheKey(a, recommend.RankOptions{Limit: 10, MinPriority: "high"}) {
		t.Fatalf("key ignores min priority")
	}
}
