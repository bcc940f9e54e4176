package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"restaurant_site/internal/auth"
	"restaurant_site/internal/config"
	"restaurant_site/internal/database"
	"restaurant_site/internal/handlers"
	"restaurant_site/internal/middleware"
	"restaurant_site/internal/migrations"
	"restaurant_site/internal/redis"
	"restaurant_site/internal/repository"
	"restaurant_site/internal/router"
	"restaurant_site/internal/services"
	"restaurant_site/internal/upload"
	"restaurant_site/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

const (
	authRateLimit  = 20
	authRateWindow = time.Minute
)

func main() {
	// Load configuration
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DatabaseDebug)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	repos := repository.New(db)
	if err := migrations.SeedDefaults(ctx, repos, cfg.Restaurant); err != nil {
		log.Fatal("Failed to seed database:", err)
	}

	// Menu cache
	var cache services.MenuCache = redis.NoopCache{}
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL, time.Duration(cfg.CacheTTL)*time.Second)
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer redisClient.Close()
		cache = redisClient
	} else {
		log.Println("REDIS_URL not set, menu cache disabled")
	}

	// Media storage
	var media upload.Store
	mediaRoot := cfg.MediaRoot
	if cfg.Cloudinary.Enabled() {
		cloud, err := cloudinary.NewClient(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatal("Failed to configure Cloudinary:", err)
		}
		media = upload.NewCloudinaryStore(cloud)
		mediaRoot = ""
	} else {
		media = upload.NewLocalStore(cfg.MediaRoot)
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)

	// Initialize services
	siteService := services.NewSiteService(repos, cfg.Restaurant, media, cfg.MaxUploadBytes)
	menuService := services.NewMenuService(repos, cache, media, cfg.MaxUploadBytes)
	orderService := services.NewOrderService(repos)
	userService := services.NewUserService(repos)
	feedbackService := services.NewFeedbackService(repos.Feedback)
	contactService := services.NewContactService(repos.Contacts)

	// Initialize handlers
	engine, err := router.Setup(router.Handlers{
		Pages: handlers.NewPageHandler(siteService, menuService, feedbackService, contactService, cfg.Restaurant),
		API:   handlers.NewAPIHandler(menuService, userService, orderService, issuer),
		Admin: handlers.NewAdminHandler(siteService, menuService, orderService, feedbackService, contactService, userService, issuer),
	}, router.Options{
		Issuer:    issuer,
		Limiter:   middleware.NewInMemoryRateLimiter(ctx, authRateLimit, authRateWindow),
		MediaURL:  cfg.MediaURL,
		MediaRoot: mediaRoot,
	})
	if err != nil {
		log.Fatal("Failed to set up routes:", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: engine,
	}
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
		return
	}
	log.Println("Server stopped")
}
