package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	fiberRecover "github.com/gofiber/fiber/v3/middleware/recover"

	"media-catalog-service/internal/config"
	"media-catalog-service/internal/database"
	"media-catalog-service/internal/handler"
	"media-catalog-service/internal/middleware"
	"media-catalog-service/internal/repository"
	"media-catalog-service/internal/service"
	"media-catalog-service/internal/token"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache or rate limiting", "error", err)
	}

	// Initialize layers
	tokens := token.NewManager(cfg.JWT)

	mediaRepo := repository.NewMediaRepository(db)
	userRepo := repository.NewUserRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	recRepo := repository.NewRecommendationRepository(db)

	catalogSvc := service.NewCatalogService(mediaRepo, rdb)
	authSvc := service.NewAuthService(userRepo, tokens)
	prefSvc := service.NewPreferenceService(prefRepo, rdb)
	recSvc := service.NewRecommendationService(recRepo, rdb)

	catalogH := handler.NewCatalogHandler(catalogSvc)
	authH := handler.NewAuthHandler(authSvc)
	prefH := handler.NewPreferenceHandler(prefSvc)
	recH := handler.NewRecommendationHandler(recSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Media Catalog Service",
		ServerHeader: "Media-Catalog-Service",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(fiberRecover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	rateLimiter := middleware.NewRateLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindowSeconds)
	app.Use(rateLimiter.Handler())

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	requireAccess := middleware.RequireAccess(tokens)
	requireRefresh := middleware.RequireRefresh(tokens)

	// Catalog routes (public)
	app.Get("/health", catalogH.Health)
	app.Get("/movies", catalogH.ListAll)
	app.Post("/search", catalogH.Search)
	app.Post("/advSearch", catalogH.AdvancedSearch)
	app.Get("/pages", catalogH.Pages)
	app.Get("/movieCount", catalogH.Count)

	// Auth routes
	app.Post("/signup", authH.Signup)
	app.Post("/login", authH.Login)
	app.Post("/refresh", authH.Refresh, requireRefresh)
	app.Get("/profile", authH.Profile, requireAccess)

	// Preference routes (protected)
	app.Post("/favorite", prefH.Favorite, requireAccess)
	app.Delete("/favorite", prefH.Unfavorite, requireAccess)
	app.Get("/favorite", prefH.ListFavorites, requireAccess)
	app.Post("/watchlist", prefH.Watch, requireAccess)
	app.Delete("/watchlist", prefH.Unwatch, requireAccess)
	app.Get("/watchlist", prefH.ListWatched, requireAccess)
	app.Post("/rating", prefH.Rate, requireAccess)
	app.Get("/rating", prefH.AggregateRating, requireAccess)
	app.Post("/review", prefH.Review, requireAccess)

	// Recommendation routes
	app.Get("/user_recommendation", recH.ForUser, requireAccess)
	app.Get("/movie_recommendation", recH.ForMedia)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.Port
		slog.Info("starting media catalog service", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down media catalog service...")

	if err := app.Shutdown(); err != nil {
		slog.Error("error shutting down HTTP server", "error", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("error closing Redis connection", "error", err)
		}
	}

	slog.Info("shutdown complete")
}
