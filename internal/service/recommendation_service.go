package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"media-catalog-service/internal/models"
	"media-catalog-service/internal/repository"
)

const recommendationCacheTTL = 10 * time.Minute

// Scoring weights for ranking candidates. Genre affinity dominates; the
// catalog rating breaks ties toward well-regarded titles.
const (
	genreMatchWeight    = 0.7
	catalogRatingWeight = 0.3
)

// Interest weights for building a user's genre profile.
const (
	likedWeight      = 1.0
	watchedWeight    = 0.5
	ratingUnitWeight = 0.1 // per rating point on the 0-10 scale
)

// Recommender produces ordered recommendation lists, most relevant
// first. It is implemented and tested independently of the HTTP layer.
type Recommender interface {
	RecommendFor(ctx context.Context, userID int64) ([]models.Media, error)
	SimilarTo(ctx context.Context, mediaID, mediaType string) ([]models.Media, error)
}

// RecommendationService recommends catalog items by genre affinity.
type RecommendationService struct {
	repo  *repository.RecommendationRepository
	redis *redis.Client
}

var _ Recommender = (*RecommendationService)(nil)

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(repo *repository.RecommendationRepository, rdb *redis.Client) *RecommendationService {
	return &RecommendationService{repo: repo, redis: rdb}
}

// RecommendFor scores every catalog item the user has not interacted
// with against the user's genre profile and returns them ordered most to
// least relevant.
func (s *RecommendationService) RecommendFor(ctx context.Context, userID int64) ([]models.Media, error) {
	cacheKey := fmt.Sprintf("recs:user:%d", userID)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var items []models.Media
		if json.Unmarshal([]byte(cached), &items) == nil {
			slog.Debug("recommendations cache hit", "user_id", userID)
			return items, nil
		}
	}

	interests, err := s.repo.GetUserInterests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user interests: %w", err)
	}
	profile := BuildGenreProfile(interests)

	candidates, err := s.repo.GetCandidatesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	items := RankByProfile(candidates, profile)

	if data, err := json.Marshal(items); err == nil {
		s.setCache(ctx, cacheKey, string(data), recommendationCacheTTL)
	}
	return items, nil
}

// SimilarTo scores catalog items of the same media type by genre overlap
// with the source item and returns them ordered most to least relevant.
func (s *RecommendationService) SimilarTo(ctx context.Context, mediaID, mediaType string) ([]models.Media, error) {
	cacheKey := fmt.Sprintf("recs:media:%s:%s", mediaType, mediaID)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var items []models.Media
		if json.Unmarshal([]byte(cached), &items) == nil {
			slog.Debug("similar-media cache hit", "media_id", mediaID)
			return items, nil
		}
	}

	sourceGenres, err := s.repo.GetMediaGenres(ctx, mediaID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("media not found")
		}
		return nil, fmt.Errorf("fetch source media: %w", err)
	}

	profile := models.GenreProfile{}
	for _, g := range SplitGenres(sourceGenres) {
		profile[g] = 1.0
	}

	candidates, err := s.repo.GetCandidatesByType(ctx, mediaType, mediaID)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	items := RankByProfile(candidates, profile)

	if data, err := json.Marshal(items); err == nil {
		s.setCache(ctx, cacheKey, string(data), recommendationCacheTTL)
	}
	return items, nil
}

// BuildGenreProfile folds a user's interaction rows into per-genre
// weights. Liked counts most, watched half, and each rating point adds a
// tenth, so a 10/10 rating weighs as much as a like.
func BuildGenreProfile(interests []repository.InterestRow) models.GenreProfile {
	profile := models.GenreProfile{}
	for _, row := range interests {
		weight := 0.0
		if row.Liked {
			weight += likedWeight
		}
		if row.Watched {
			weight += watchedWeight
		}
		if row.Rating > 0 {
			weight += row.Rating * ratingUnitWeight
		}
		if weight == 0 {
			continue
		}
		for _, g := range SplitGenres(row.Genres) {
			profile[g] += weight
		}
	}

	// Normalize so the strongest genre has weight 1.
	var maxWeight float64
	for _, w := range profile {
		if w > maxWeight {
			maxWeight = w
		}
	}
	if maxWeight > 0 {
		for g := range profile {
			profile[g] /= maxWeight
		}
	}
	return profile
}

// RankByProfile scores candidates against a genre profile and returns
// them ordered by score descending. The incoming candidate order (by
// catalog rating) is preserved among equal scores.
func RankByProfile(candidates []models.Media, profile models.GenreProfile) []models.Media {
	var maxRating float64
	for _, m := range candidates {
		if r := parseRating(m.Rating); r > maxRating {
			maxRating = r
		}
	}
	if maxRating == 0 {
		maxRating = 1
	}

	scored := make([]models.ScoredMedia, 0, len(candidates))
	for _, m := range candidates {
		score := genreMatchWeight*genreMatchScore(m.Genres, profile) +
			catalogRatingWeight*(parseRating(m.Rating)/maxRating)
		scored = append(scored, models.ScoredMedia{Media: m, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	items := make([]models.Media, 0, len(scored))
	for _, sm := range scored {
		items = append(items, sm.Media)
	}
	return items
}

func genreMatchScore(genres string, profile models.GenreProfile) float64 {
	parts := SplitGenres(genres)
	if len(parts) == 0 || len(profile) == 0 {
		return 0
	}
	var sum float64
	for _, g := range parts {
		sum += profile[g]
	}
	return sum / float64(len(parts))
}

// SplitGenres breaks the delimited genres column into normalized parts.
func SplitGenres(genres string) []string {
	var parts []string
	for _, g := range strings.Split(genres, ",") {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" {
			parts = append(parts, g)
		}
	}
	return parts
}

func parseRating(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ---- Redis Helpers ----

func (s *RecommendationService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *RecommendationService) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
