package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"media-catalog-service/internal/middleware"
	"media-catalog-service/internal/models"
	"media-catalog-service/internal/service"
)

// RecommendationHandler handles the recommendation endpoints. The
// recommender is an injected interface so it can be implemented and
// tested independently of the HTTP layer.
type RecommendationHandler struct {
	recommender service.Recommender
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(recommender service.Recommender) *RecommendationHandler {
	return &RecommendationHandler{recommender: recommender}
}

// ForUser returns recommendations for the authenticated user. The count
// reflects the full recommendation list; pagination is applied in
// process over the resolved list.
// GET /user_recommendation
func (h *RecommendationHandler) ForUser(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	limit := fiber.Query(c, "limit", pageDefaultLimit)
	offset := fiber.Query(c, "offset", 0)

	items, err := h.recommender.RecommendFor(c.Context(), userID)
	if err != nil {
		slog.Error("failed to generate recommendations", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to generate recommendations",
		})
	}

	return c.JSON(models.MediaPage{
		Movies: SliceWindow(items, limit, offset),
		Count:  len(items),
	})
}

// ForMedia returns media similar to the given item, ordered most to
// least relevant.
// GET /movie_recommendation
func (h *RecommendationHandler) ForMedia(c fiber.Ctx) error {
	mediaID := c.Query("media_id")
	mediaType := c.Query("mediaType")
	if mediaID == "" || mediaType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "media_id and mediaType are required",
		})
	}

	items, err := h.recommender.SimilarTo(c.Context(), mediaID, mediaType)
	if err != nil {
		slog.Error("failed to find similar media", "media_id", mediaID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to find similar media",
		})
	}
	return c.JSON(items)
}

// SliceWindow returns the contiguous slice [offset, offset+limit) of
// items, clamped to the list bounds. The result length is
// min(limit, len-offset), or zero when offset is past the end.
func SliceWindow(items []models.Media, limit, offset int) []models.Media {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if offset >= len(items) {
		return []models.Media{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
