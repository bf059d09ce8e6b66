package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"shelfhub/database"
	"shelfhub/internal/cache"
	"shelfhub/internal/config"
	"shelfhub/internal/httpapi/handler"
	"shelfhub/internal/httpapi/middleware"
	"shelfhub/internal/httpapi/repository"
	"shelfhub/internal/httpapi/service"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// 2. Connect to the database (migrates and seeds on the way up)
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer database.Close(db)

	// 3. Occupancy cache is optional; without Redis every lookup is a miss
	var occupancy service.OccupancyCache
	if cfg.RedisURL != "" {
		availabilityCache, err := cache.New(cfg.RedisURL, cfg.RedisPassword, time.Duration(cfg.CacheTTL)*time.Second)
		if err != nil {
			logger.Warn("Redis unavailable, running without occupancy cache", "error", err)
		} else {
			defer availabilityCache.Close()
			occupancy = availabilityCache
			logger.Info("Occupancy cache enabled", "url", cfg.RedisURL)
		}
	}

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	bookRepo := repository.NewBookRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	rulesRepo := repository.NewRulesRepository(db)

	// 5. Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	bookService := service.NewBookService(bookRepo, categoryRepo, reservationRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	reservationService := service.NewReservationService(reservationRepo, bookRepo, rulesRepo, cfg.BlackoutWeekdays)
	resourceService := service.NewResourceService(resourceRepo, occupancy, cfg.BlackoutWeekdays)
	rulesService := service.NewRulesService(rulesRepo)
	userService := service.NewUserService(userRepo, bookRepo, categoryRepo, reservationRepo, resourceRepo)

	// 6. Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.AccessTokenTTL)
	bookHandler := handler.NewBookHandler(bookService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	resourceHandler := handler.NewResourceHandler(resourceService)
	adminHandler := handler.NewAdminHandler(userService, rulesService)

	// 7. Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Close()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	authHandler.RegisterRoutes(api.Group("/auth"))

	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(authService))
	bookHandler.RegisterRoutes(authed.Group("/books"))
	categoryHandler.RegisterRoutes(authed.Group("/categories"))
	// Reservation routes sit behind the per-client limiter; a stuck retry
	// loop would otherwise hammer the locking transactions.
	reservationHandler.RegisterRoutes(authed.Group("/reservations", limiter.Middleware()))
	resourceHandler.RegisterRoutes(authed.Group("/resources", limiter.Middleware()))
	adminHandler.RegisterRulesRoutes(authed.Group("/rules"))
	adminHandler.RegisterRoutes(authed.Group("/admin"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("API server listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
