package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"lexibot/internal/cache"
	"lexibot/internal/domain"
	"lexibot/internal/logger"

	"go.uber.org/zap"
)

// CachedResult is the last generated explanation for a (user, term)
// pair, staged until the user presses Save.
type CachedResult struct {
	Explanation string   `json:"explanation"`
	Examples    []string `json:"examples"`
}

// ResultCacheService bridges "explanation was shown" to "user pressed
// Save" without re-querying the generator. Entries are TTL-bounded and
// live in the shared cache, so a save can be handled by a different
// process than the one that generated the result.
type ResultCacheService interface {
	// Put stages the newest result for (user, term), replacing any
	// previous one (latest result wins).
	Put(ctx context.Context, userID int64, term string, result *CachedResult) error
	// Get returns the staged result, or (nil, nil) when none is cached.
	Get(ctx context.Context, userID int64, term string) (*CachedResult, error)
}

type resultCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewResultCacheService creates a new instance of resultCacheServiceImpl.
func NewResultCacheService(cacheClient domain.Cache, ttl time.Duration) ResultCacheService {
	return &resultCacheServiceImpl{
		cache: cacheClient,
		ttl:   ttl,
	}
}

func resultCacheKey(userID int64, term string) string {
	return cache.GenerateCacheKey("session", "result", strconv.FormatInt(userID, 10), domain.NormalizeTerm(term))
}

func (s *resultCacheServiceImpl) Put(ctx context.Context, userID int64, term string, result *CachedResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, resultCacheKey(userID, term), string(payload), s.ttl)
}

func (s *resultCacheServiceImpl) Get(ctx context.Context, userID int64, term string) (*CachedResult, error) {
	raw, err := s.cache.Get(ctx, resultCacheKey(userID, term))
	if err != nil {
		if err == domain.ErrCacheMiss {
			return nil, nil
		}
		return nil, err
	}

	var result CachedResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logger.Get().Warn("ResultCacheService: failed to unmarshal cached result, treating as miss",
			zap.Error(err),
			zap.Int64("userID", userID),
			zap.String("term", term))
		return nil, nil
	}
	return &result, nil
}
