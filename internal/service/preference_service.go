package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"media-catalog-service/internal/models"
	"media-catalog-service/internal/repository"
)

const aggregateRatingCacheTTL = 10 * time.Minute

// PreferenceService handles the favorite, watchlist, rating and review
// operations. Each mutation updates exactly one field of the preference
// row for the (user, media) pair, creating the row with defaults if it
// does not exist yet.
type PreferenceService struct {
	prefs *repository.PreferenceRepository
	redis *redis.Client
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(prefs *repository.PreferenceRepository, rdb *redis.Client) *PreferenceService {
	return &PreferenceService{prefs: prefs, redis: rdb}
}

// SetLiked marks or unmarks a media item as a favorite.
func (s *PreferenceService) SetLiked(ctx context.Context, userID int64, mediaID string, liked bool) error {
	return s.prefs.SetLiked(ctx, userID, mediaID, liked)
}

// SetWatched marks or unmarks a media item as watched.
func (s *PreferenceService) SetWatched(ctx context.Context, userID int64, mediaID string, watched bool) error {
	return s.prefs.SetWatched(ctx, userID, mediaID, watched)
}

// SetRating records the user's rating for a media item and invalidates
// the cached aggregate for that item.
func (s *PreferenceService) SetRating(ctx context.Context, userID int64, mediaID string, rating float64) error {
	if err := s.prefs.SetRating(ctx, userID, mediaID, rating); err != nil {
		return err
	}
	s.delCache(ctx, aggregateCacheKey(mediaID))
	return nil
}

// SetReview records the user's review text for a media item.
func (s *PreferenceService) SetReview(ctx context.Context, userID int64, mediaID, review string) error {
	return s.prefs.SetReview(ctx, userID, mediaID, review)
}

// ListLiked returns the full media records the user has favorited.
func (s *PreferenceService) ListLiked(ctx context.Context, userID int64) ([]models.Media, error) {
	return s.prefs.GetLikedMedia(ctx, userID)
}

// ListWatched returns the full media records on the user's watchlist.
func (s *PreferenceService) ListWatched(ctx context.Context, userID int64) ([]models.Media, error) {
	return s.prefs.GetWatchedMedia(ctx, userID)
}

// AggregateRating returns the average user rating for a media item.
func (s *PreferenceService) AggregateRating(ctx context.Context, mediaID string) (*models.AggregateRating, error) {
	cacheKey := aggregateCacheKey(mediaID)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var agg models.AggregateRating
		if json.Unmarshal([]byte(cached), &agg) == nil {
			return &agg, nil
		}
	}

	agg, err := s.prefs.AverageRating(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(agg); err == nil {
		s.setCache(ctx, cacheKey, string(data), aggregateRatingCacheTTL)
	}
	return agg, nil
}

func aggregateCacheKey(mediaID string) string {
	return "media:avgrating:" + mediaID
}

// ---- Redis Helpers ----

func (s *PreferenceService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *PreferenceService) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}

func (s *PreferenceService) delCache(ctx context.Context, key string) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, key)
}
