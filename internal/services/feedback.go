package services

import (
	"context"

	"github.com/okvitka/mindhaven-backend/internal/platform/apierr"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
)

type FeedbackService interface {
	RateResource(ctx context.Context, testResultID, resourceID string, rating int) error
}

type feedbackService struct {
	log   *logger.Logger
	store GraphStore
	cache *RecommendationCache
}

func NewFeedbackService(log *logger.Logger, store GraphStore, cache *RecommendationCache) FeedbackService {
	return &feedbackService{
		log:   log.With("service", "FeedbackService"),
		store: store,
		cache: cache,
	}
}

func (s *feedbackService) RateResource(ctx context.Context, testResultID, resourceID string, rating int) error {
	if testResultID == "" || resourceID == "" {
		return apierr.Invalid("test_result_id and resource_id are required")
	}
	if err := s.store.RateResource(ctx, testResultID, resourceID, rating); err != nil {
		return err
	}
	// Cached rankings ignore RECOMMENDS weights today, but flushing keeps
	// the cache honest if ranking starts consuming them.
	if s.cache != nil {
		s.cache.Flush(ctx)
	}
	return nil
}
