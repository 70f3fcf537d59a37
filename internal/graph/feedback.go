package graph

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/okvitka/mindhaven-backend/internal/domain"
	"github.com/okvitka/mindhaven-backend/internal/platform/apierr"
)

const (
	RatingMin = 1
	RatingMax = 5

	ratingNeutral = 3
	weightStep    = 0.1
	defaultWeight = 1.0
)

// RateResource records a user rating against a completed test result and
// shifts the RECOMMENDS weight between every detected state and the rated
// resource. The whole operation is one write transaction and the weight
// update is an atomic increment, so concurrent ratings of the same pair
// cannot lose updates.
func (s *Store) RateResource(ctx context.Context, testResultID, resourceID string, rating int) error {
	if rating < RatingMin || rating > RatingMax {
		return apierr.InvalidRating("rating %d outside %d..%d", rating, RatingMin, RatingMax)
	}

	ctx, cancel := s.client.QueryContext(ctx)
	defer cancel()

	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	delta := float64(rating-ratingNeutral) * weightStep
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
OPTIONAL MATCH (t:TestResult {id: $test_id})
OPTIONAL MATCH (r:Resource {id: $resource_id})
OPTIONAL MATCH (t)-[:DETECTED]->(s:EmotionalState)
RETURN t IS NOT NULL AS has_test,
       r IS NOT NULL AS has_resource,
       count(s) AS detected_count
`, map[string]any{"test_id": testResultID, "resource_id": resourceID})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		m := record.AsMap()
		if ok, _ := m["has_test"].(bool); !ok {
			return nil, apierr.NotFound("test result %q not found", testResultID)
		}
		if ok, _ := m["has_resource"].(bool); !ok {
			return nil, apierr.NotFound("resource %q not found", resourceID)
		}
		if asInt(m["detected_count"]) == 0 {
			return nil, apierr.NotFound("test result %q has no detected states", testResultID)
		}

		res, err = tx.Run(ctx, `
MATCH (t:TestResult {id: $test_id})-[:DETECTED]->(s:EmotionalState)
MATCH (r:Resource {id: $resource_id})
MERGE (t)-[rated:RATED]->(r)
SET rated.rating = $rating,
    rated.rated_at = datetime($rated_at)
WITH s, r
MERGE (s)-[rec:RECOMMENDS]->(r)
SET rec.weight = coalesce(rec.weight, $default_weight) + $delta
RETURN count(rec) AS updated
`, map[string]any{
			"test_id":        testResultID,
			"resource_id":    resourceID,
			"rating":         rating,
			"rated_at":       now,
			"delta":          delta,
			"default_weight": defaultWeight,
		})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			return ae
		}
		return apierr.Unavailable(err)
	}

	s.log.Info("resource rated",
		"test_result_id", testResultID,
		"resource_id", resourceID,
		"rating", rating,
		"delta", delta,
	)
	return nil
}

// SaveTestResult persists an anonymous test session: a TestResult node
// linked to every detected state and every recommended resource. Each call
// allocates a fresh id; calling twice for the same session produces two
// records.
func (s *Store) SaveTestResult(
	ctx context.Context,
	questionnaireID string,
	labels []domain.StateLabel,
	recommendations []domain.Recommendation,
	answers domain.AnswerSet,
	scores map[string]domain.CategoryScore,
) (string, error) {
	testID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return "", apierr.Invalid("serialize answers: %v", err)
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return "", apierr.Invalid("serialize scores: %v", err)
	}

	recIDs := make([]string, 0, len(recommendations))
	for _, rec := range recommendations {
		recIDs = append(recIDs, rec.ID)
	}

	ctx, cancel := s.client.QueryContext(ctx)
	defer cancel()

	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
CREATE (t:TestResult {
  id: $test_id,
  created_at: datetime($timestamp),
  questionnaire_id: $questionnaire_id,
  raw_answers: $answers_json,
  category_scores: $scores_json
})
`, map[string]any{
			"test_id":          testID,
			"timestamp":        now,
			"questionnaire_id": questionnaireID,
			"answers_json":     string(answersJSON),
			"scores_json":      string(scoresJSON),
		})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if len(labels) > 0 {
			res, err = tx.Run(ctx, `
MATCH (t:TestResult {id: $test_id})
UNWIND $state_ids AS sid
MATCH (s:EmotionalState {id: sid})
CREATE (t)-[:DETECTED]->(s)
`, map[string]any{"test_id": testID, "state_ids": stateIDs(labels)})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		if len(recIDs) > 0 {
			res, err = tx.Run(ctx, `
MATCH (t:TestResult {id: $test_id})
UNWIND $rec_ids AS rid
MATCH (r:Resource {id: rid})
CREATE (t)-[:RECOMMENDED]->(r)
`, map[string]any{"test_id": testID, "rec_ids": recIDs})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return "", apierr.Unavailable(err)
	}

	s.log.Info("test result saved", "test_result_id", testID, "states", len(labels), "recommended", len(recIDs))
	return testID, nil
}
