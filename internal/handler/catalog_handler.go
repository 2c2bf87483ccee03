package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"media-catalog-service/internal/models"
	"media-catalog-service/internal/service"
)

// Defaults applied when a request omits pagination fields. Search routes
// default to 50 rows, page-style routes to 100.
const (
	searchDefaultLimit = 50
	pageDefaultLimit   = 100
)

// CatalogHandler handles HTTP requests for browsing and searching the
// media catalog.
type CatalogHandler struct {
	svc *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health returns service health status.
func (h *CatalogHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "media-catalog-service",
	})
}

// ListAll returns every catalog row.
// GET /movies
func (h *CatalogHandler) ListAll(c fiber.Ctx) error {
	items, err := h.svc.ListAll(c.Context())
	if err != nil {
		slog.Error("failed to list media", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to retrieve media",
		})
	}
	return c.JSON(items)
}

// Search returns catalog rows matching a free-text query.
// POST /search
func (h *CatalogHandler) Search(c fiber.Ctx) error {
	var req models.SearchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	limit := intOrDefault(req.Limit, searchDefaultLimit)
	offset := intOrDefault(req.Offset, 0)

	page, err := h.svc.Search(c.Context(), req.SearchContents, limit, offset)
	if err != nil {
		slog.Error("failed to search media", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to search media",
		})
	}
	return c.JSON(page)
}

// AdvancedSearch returns catalog rows matching optional filters.
// POST /advSearch
func (h *CatalogHandler) AdvancedSearch(c fiber.Ctx) error {
	var req models.AdvancedSearchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	limit := intOrDefault(req.Limit, searchDefaultLimit)
	offset := intOrDefault(req.Offset, 0)

	page, err := h.svc.AdvancedSearch(c.Context(), req, limit, offset)
	if err != nil {
		slog.Error("failed to filter media", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to filter media",
		})
	}
	return c.JSON(page)
}

// Pages returns one page of the catalog plus the total row count.
// GET /pages
func (h *CatalogHandler) Pages(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", pageDefaultLimit)
	offset := fiber.Query(c, "offset", 0)

	page, err := h.svc.Page(c.Context(), limit, offset)
	if err != nil {
		slog.Error("failed to page media", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to retrieve media",
		})
	}
	return c.JSON(page)
}

// Count returns the total number of catalog rows as a bare integer.
// GET /movieCount
func (h *CatalogHandler) Count(c fiber.Ctx) error {
	n, err := h.svc.Count(c.Context())
	if err != nil {
		slog.Error("failed to count media", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to count media",
		})
	}
	return c.JSON(n)
}

func intOrDefault(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
