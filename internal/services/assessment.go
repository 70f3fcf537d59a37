package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okvitka/mindhaven-backend/internal/domain"
	"github.com/okvitka/mindhaven-backend/internal/platform/apierr"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
	"github.com/okvitka/mindhaven-backend/internal/questionnaire"
	"github.com/okvitka/mindhaven-backend/internal/recommend"
	"github.com/okvitka/mindhaven-backend/internal/repos"
	"github.com/okvitka/mindhaven-backend/internal/scoring"
)

// GraphStore is the graph-side surface the engine needs. *graph.Store is
// the production implementation; tests plug in a fake.
type GraphStore interface {
	HelpsWithRows(ctx context.Context, labels []domain.StateLabel) ([]recommend.CandidateRow, error)
	RelatedRows(ctx context.Context, labels []domain.StateLabel) ([]recommend.RelatedRow, error)
	StateDetails(ctx context.Context, labels []domain.StateLabel) ([]domain.StateDetail, error)
	ResourcesByTheme(ctx context.Context, themeIDs []string, limit int) ([]domain.Recommendation, error)
	FullGraph(ctx context.Context) (*domain.GraphView, error)
	RateResource(ctx context.Context, testResultID, resourceID string, rating int) error
	SaveTestResult(ctx context.Context, questionnaireID string, labels []domain.StateLabel, recs []domain.Recommendation, answers domain.AnswerSet, scores map[string]domain.CategoryScore) (string, error)
}

type SubmitOptions struct {
	Limit       int
	MinPriority string
	// Persist writes the TestResult node (and the Postgres row when
	// configured). On by default from the HTTP layer.
	Persist bool
}

type SubmitResult struct {
	TestResultID    string                          `json:"test_result_id,omitempty"`
	CategoryScores  map[string]domain.CategoryScore `json:"category_scores"`
	States          []domain.StateLabel             `json:"states"`
	Recommendations []domain.Recommendation         `json:"recommendations"`
	RelatedStates   []domain.RelatedState           `json:"related_states"`
	Summary         *domain.StateSummary            `json:"summary"`
}

type AssessmentService interface {
	ListQuestionnaires() []questionnaire.Summary
	GetQuestionnaire(id string) (*domain.Questionnaire, error)
	Submit(ctx context.Context, questionnaireID string, answers domain.AnswerSet, opts SubmitOptions) (*SubmitResult, error)
	ResourcesByTheme(ctx context.Context, themeIDs []string, limit int) ([]domain.Recommendation, error)
	FullGraph(ctx context.Context) (*domain.GraphView, error)
}

type assessmentService struct {
	log        *logger.Logger
	catalog    *questionnaire.Catalog
	store      GraphStore
	cache      *RecommendationCache
	resultRepo repos.TestResultRepo
}

// NewAssessmentService wires the read path. cache and resultRepo may be
// nil: caching and relational persistence are optional.
func NewAssessmentService(
	log *logger.Logger,
	catalog *questionnaire.Catalog,
	store GraphStore,
	cache *RecommendationCache,
	resultRepo repos.TestResultRepo,
) AssessmentService {
	return &assessmentService{
		log:        log.With("service", "AssessmentService"),
		catalog:    catalog,
		store:      store,
		cache:      cache,
		resultRepo: resultRepo,
	}
}

func (s *assessmentService) ListQuestionnaires() []questionnaire.Summary {
	return s.catalog.List()
}

func (s *assessmentService) GetQuestionnaire(id string) (*domain.Questionnaire, error) {
	def, ok := s.catalog.ByID(id)
	if !ok {
		return nil, apierr.NotFound("questionnaire %q not found", id)
	}
	return def, nil
}

func (s *assessmentService) Submit(ctx context.Context, questionnaireID string, answers domain.AnswerSet, opts SubmitOptions) (*SubmitResult, error) {
	def, ok := s.catalog.ByID(questionnaireID)
	if !ok {
		return nil, apierr.NotFound("questionnaire %q not found", questionnaireID)
	}

	scores := scoring.ComputeScores(def, answers)
	labels := scoring.DetermineStates(def, scores)
	priority := recommend.PrioritySet(def, labels)

	result := &SubmitResult{
		CategoryScores: scores,
		States:         labels,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := s.recommendations(gctx, def, labels, priority, opts)
		if err != nil {
			return err
		}
		result.Recommendations = recs
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.RelatedRows(gctx, labels)
		if err != nil {
			return err
		}
		detected := make(map[string]bool, len(labels))
		for _, l := range labels {
			detected[l.StateID] = true
		}
		result.RelatedStates = recommend.MergeRelated(rows, detected)
		return nil
	})
	g.Go(func() error {
		details, err := s.store.StateDetails(gctx, labels)
		if err != nil {
			return err
		}
		result.Summary = recommend.Summarize(details)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Persist {
		testID, err := s.store.SaveTestResult(ctx, questionnaireID, labels, result.Recommendations, answers, scores)
		if err != nil {
			return nil, err
		}
		result.TestResultID = testID
		s.saveRecord(ctx, testID, questionnaireID, labels, answers, scores)
	}
	return result, nil
}

func (s *assessmentService) recommendations(
	ctx context.Context,
	def *domain.Questionnaire,
	labels []domain.StateLabel,
	priority map[string]bool,
	opts SubmitOptions,
) ([]domain.Recommendation, error) {
	rankOpts := recommend.RankOptions{Limit: opts.Limit, MinPriority: opts.MinPriority}

	if s.cache != nil {
		if recs, ok := s.cache.Get(ctx, labels, rankOpts); ok {
			return recs, nil
		}
	}

	rows, err := s.store.HelpsWithRows(ctx, labels)
	if err != nil {
		return nil, err
	}
	recs := recommend.Rank(rows, priority, rankOpts)

	if s.cache != nil {
		s.cache.Set(ctx, labels, rankOpts, recs)
	}
	return recs, nil
}

// saveRecord mirrors the graph node into Postgres for reporting. Best
// effort: a failed row write is logged, never surfaced.
func (s *assessmentService) saveRecord(
	ctx context.Context,
	testID, questionnaireID string,
	labels []domain.StateLabel,
	answers domain.AnswerSet,
	scores map[string]domain.CategoryScore,
) {
	if s.resultRepo == nil {
		return
	}
	id, err := uuid.Parse(testID)
	if err != nil {
		s.log.Warn("test result record skipped", "error", err)
		return
	}
	answersJSON, _ := json.Marshal(answers)
	scoresJSON, _ := json.Marshal(scores)
	ids := make([]string, 0, len(labels))
	for _, l := range labels {
		ids = append(ids, l.StateID)
	}
	idsJSON, _ := json.Marshal(ids)

	record := &domain.TestResultRecord{
		ID:              id,
		QuestionnaireID: questionnaireID,
		RawAnswers:      answersJSON,
		CategoryScores:  scoresJSON,
		StateIDs:        idsJSON,
	}
	if err := s.resultRepo.Create(ctx, nil, record); err != nil {
		s.log.Warn("test result record write failed", "test_result_id", testID, "error", err)
	}
}

func (s *assessmentService) ResourcesByTheme(ctx context.Context, themeIDs []string, limit int) ([]domain.Recommendation, error) {
	return s.store.ResourcesByTheme(ctx, themeIDs, limit)
}

func (s *assessmentService) FullGraph(ctx context.Context) (*domain.GraphView, error) {
	return s.store.FullGraph(ctx)
}
