package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okvitka/mindhaven-backend/internal/domain"
	"github.com/okvitka/mindhaven-backend/internal/platform/envutil"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
	"github.com/okvitka/mindhaven-backend/internal/platform/redisdb"
	"github.com/okvitka/mindhaven-backend/internal/recommend"
)

const cachePrefix = "mindhaven:rec:"

// RecommendationCache memoizes ranked recommendation lists per state-label
// set. Recommendation reads tolerate staleness, so a short TTL is enough;
// every cache failure degrades silently to a direct graph read.
type RecommendationCache struct {
	client *redisdb.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewRecommendationCache(client *redisdb.Client, log *logger.Logger) *RecommendationCache {
	if client == nil {
		return nil
	}
	ttl := time.Duration(envutil.Int("REC_CACHE_TTL_SECONDS", 300)) * time.Second
	return &RecommendationCache{
		client: client,
		ttl:    ttl,
		log:    log.With("component", "RecommendationCache"),
	}
}

func cacheKey(labels []domain.StateLabel, opts recommend.RankOptions) string {
	ids := make([]string, 0, len(labels))
	for _, l := range labels {
		ids = append(ids, l.StateID)
	}
	sort.Strings(ids)
	raw := fmt.Sprintf("%s|%d|%s", strings.Join(ids, ","), opts.Limit, opts.MinPriority)
	sum := sha256.Sum256([]byte(raw))
	return cachePrefix + hex.EncodeToString(sum[:16])
}

func (c *RecommendationCache) Get(ctx context.Context, labels []domain.StateLabel, opts recommend.RankOptions) ([]domain.Recommendation, bool) {
	raw, err := c.client.RDB.Get(ctx, cacheKey(labels, opts)).Bytes()
	if err != nil {
		return nil, false
	}
	var recs []domain.Recommendation
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, false
	}
	return recs, true
}

func (c *RecommendationCache) Set(ctx context.Context, labels []domain.StateLabel, opts recommend.RankOptions, recs []domain.Recommendation) {
	raw, err := json.Marshal(recs)
	if err != nil {
		return
	}
	if err := c.client.RDB.Set(ctx, cacheKey(labels, opts), raw, c.ttl).Err(); err != nil {
		c.log.Warn("recommendation cache write failed", "error", err)
	}
}

// Flush drops every cached ranking.
func (c *RecommendationCache) Flush(ctx context.Context) {
	iter := c.client.RDB.Scan(ctx, 0, cachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.RDB.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("recommendation cache flush failed", "error", err)
			return
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("recommendation cache scan failed", "error", err)
	}
}
