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

const (
	catalogListCacheTTL = 5 * time.Minute
	mediaDetailCacheTTL = 30 * time.Minute
)

// CatalogService handles business logic for browsing and searching the
// media catalog. The catalog is read-only from this service's
// perspective, so cached entries simply expire.
type CatalogService struct {
	repo  *repository.MediaRepository
	redis *redis.Client
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo *repository.MediaRepository, rdb *redis.Client) *CatalogService {
	return &CatalogService{repo: repo, redis: rdb}
}

// ListAll returns the entire catalog, unbounded.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Media, error) {
	cacheKey := "media:all"
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var items []models.Media
		if json.Unmarshal([]byte(cached), &items) == nil {
			slog.Debug("cache hit", "key", cacheKey)
			return items, nil
		}
	}

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}

	if data, err := json.Marshal(items); err == nil {
		s.setCache(ctx, cacheKey, string(data), catalogListCacheTTL)
	}
	return items, nil
}

// Count returns the total number of catalog rows.
func (s *CatalogService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Page returns one page of the catalog plus the total row count.
func (s *CatalogService) Page(ctx context.Context, limit, offset int) (*models.MediaPage, error) {
	cacheKey := fmt.Sprintf("media:page:%d:%d", limit, offset)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var page models.MediaPage
		if json.Unmarshal([]byte(cached), &page) == nil {
			slog.Debug("cache hit", "key", cacheKey)
			return &page, nil
		}
	}

	page, err := s.repo.Page(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to page media: %w", err)
	}

	if data, err := json.Marshal(page); err == nil {
		s.setCache(ctx, cacheKey, string(data), catalogListCacheTTL)
	}
	return page, nil
}

// Search returns catalog rows matching the free-text query plus the
// total match count.
func (s *CatalogService) Search(ctx context.Context, query string, limit, offset int) (*models.MediaPage, error) {
	page, err := s.repo.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search media: %w", err)
	}
	return page, nil
}

// AdvancedSearch returns catalog rows matching the supplied filters plus
// the total match count. Absent filters do not constrain the result.
func (s *CatalogService) AdvancedSearch(ctx context.Context, req models.AdvancedSearchRequest, limit, offset int) (*models.MediaPage, error) {
	page, err := s.repo.AdvancedSearch(ctx, req, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to filter media: %w", err)
	}
	return page, nil
}

// GetByID returns one catalog item.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*models.Media, error) {
	cacheKey := "media:detail:" + id
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var m models.Media
		if json.Unmarshal([]byte(cached), &m) == nil {
			return &m, nil
		}
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(m); err == nil {
		s.setCache(ctx, cacheKey, string(data), mediaDetailCacheTTL)
	}
	return m, nil
}

// ---- Redis Helpers ----

func (s *CatalogService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *CatalogService) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
