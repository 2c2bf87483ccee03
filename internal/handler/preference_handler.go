package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"media-catalog-service/internal/middleware"
	"media-catalog-service/internal/models"
	"media-catalog-service/internal/service"
)

// PreferenceHandler handles the favorite, watchlist, rating and review
// endpoints. All of them act on the (authenticated user, media) pair.
type PreferenceHandler struct {
	svc *service.PreferenceService
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

// Favorite marks a media item as liked.
// POST /favorite
func (h *PreferenceHandler) Favorite(c fiber.Ctx) error {
	return h.setFlag(c, "Movie favorited", func(userID int64, mediaID string) error {
		return h.svc.SetLiked(c.Context(), userID, mediaID, true)
	})
}

// Unfavorite clears the liked flag.
// DELETE /favorite
func (h *PreferenceHandler) Unfavorite(c fiber.Ctx) error {
	return h.setFlag(c, "Movie unfavorited", func(userID int64, mediaID string) error {
		return h.svc.SetLiked(c.Context(), userID, mediaID, false)
	})
}

// ListFavorites returns the full media records the user has liked.
// GET /favorite
func (h *PreferenceHandler) ListFavorites(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	items, err := h.svc.ListLiked(c.Context(), userID)
	if err != nil {
		slog.Error("failed to list favorites", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to list favorites",
		})
	}
	return c.JSON(items)
}

// Watch marks a media item as watched.
// POST /watchlist
func (h *PreferenceHandler) Watch(c fiber.Ctx) error {
	return h.setFlag(c, "Movie watched", func(userID int64, mediaID string) error {
		return h.svc.SetWatched(c.Context(), userID, mediaID, true)
	})
}

// Unwatch clears the watched flag.
// DELETE /watchlist
func (h *PreferenceHandler) Unwatch(c fiber.Ctx) error {
	return h.setFlag(c, "Movie unwatched", func(userID int64, mediaID string) error {
		return h.svc.SetWatched(c.Context(), userID, mediaID, false)
	})
}

// ListWatched returns the full media records on the user's watchlist.
// GET /watchlist
func (h *PreferenceHandler) ListWatched(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	items, err := h.svc.ListWatched(c.Context(), userID)
	if err != nil {
		slog.Error("failed to list watchlist", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to list watchlist",
		})
	}
	return c.JSON(items)
}

// Rate records the user's rating for a media item. Other preference
// fields on the same row are left untouched.
// POST /rating
func (h *PreferenceHandler) Rate(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req models.RatingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.MediaID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "media_id is required"})
	}

	if err := h.svc.SetRating(c.Context(), userID, req.MediaID, req.Rating); err != nil {
		slog.Error("failed to set rating", "user_id", userID, "media_id", req.MediaID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to post rating",
		})
	}
	return c.SendString("Rating posted")
}

// AggregateRating returns the average user rating for a media item.
// GET /rating
func (h *PreferenceHandler) AggregateRating(c fiber.Ctx) error {
	mediaID := c.Query("media_id")
	if mediaID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "media_id is required"})
	}

	agg, err := h.svc.AggregateRating(c.Context(), mediaID)
	if err != nil {
		slog.Error("failed to aggregate rating", "media_id", mediaID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to retrieve rating",
		})
	}
	return c.JSON(agg)
}

// Review records the user's review text for a media item.
// POST /review
func (h *PreferenceHandler) Review(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req models.ReviewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.MediaID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "media_id is required"})
	}

	if err := h.svc.SetReview(c.Context(), userID, req.MediaID, req.Review); err != nil {
		slog.Error("failed to set review", "user_id", userID, "media_id", req.MediaID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to post review",
		})
	}
	return c.SendString("Review posted")
}

func (h *PreferenceHandler) setFlag(c fiber.Ctx, okMsg string, set func(int64, string) error) error {
	userID := middleware.UserID(c)

	var req models.MediaIDRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "id is required"})
	}

	if err := set(userID, req.ID); err != nil {
		slog.Error("failed to update preference", "user_id", userID, "media_id", req.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to update preference",
		})
	}
	return c.SendString(okMsg)
}
