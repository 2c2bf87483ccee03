package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"media-catalog-service/internal/middleware"
	"media-catalog-service/internal/models"
	"media-catalog-service/internal/service"
)

// AuthHandler handles signup, login, token refresh and the profile
// endpoint.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Signup creates a new user account and returns tokens bound to it.
// A taken username gets the same generic message as a bad login so the
// endpoint cannot be used to enumerate usernames.
// POST /signup
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req models.CredentialsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	resp, err := h.svc.Signup(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"msg": "Invalid username or password",
			})
		}
		slog.Error("failed to sign up user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to create user",
		})
	}
	return c.JSON(resp)
}

// Login verifies credentials and returns tokens.
// POST /login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req models.CredentialsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	resp, err := h.svc.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"msg": "Invalid username or password",
			})
		}
		slog.Error("failed to log in user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to log in",
		})
	}
	return c.JSON(resp)
}

// Refresh issues a new access token for the identity proven by a valid
// refresh token (enforced by the refresh middleware).
// POST /refresh
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	access, err := h.svc.Refresh(userID)
	if err != nil {
		slog.Error("failed to refresh token", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to refresh token",
		})
	}
	return c.JSON(fiber.Map{"access_token": access})
}

// Profile returns the authenticated user's username.
// GET /profile
func (h *AuthHandler) Profile(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	user, err := h.svc.Profile(c.Context(), userID)
	if err != nil {
		slog.Error("failed to load profile", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to load profile",
		})
	}
	return c.JSON(fiber.Map{"username": user.Username})
}
