package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"officials-rating-server/config"
	"officials-rating-server/database"
	"officials-rating-server/jobs"
	"officials-rating-server/middleware"
	"officials-rating-server/routes"
	"officials-rating-server/services"
	ws "officials-rating-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// "seed" subcommand loads starter data and exits
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		runSeed()
		return
	}

	// Initialize database (runs migrations)
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security middleware stack
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.InputValidationMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Device-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Officials Rating Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Core services
	aggregator := services.NewRatingAggregator(database.DB)
	ledger := services.NewReviewLedger(database.DB, aggregator)

	// Live review feed hub
	hub := ws.NewHub()
	go hub.Run()

	// WebSocket endpoints authenticate via query token
	wsRoutes := router.Group("/api/v1/ws")
	wsRoutes.Use(middleware.WebSocketAuthMiddleware())
	routes.RegisterFeedRoutes(wsRoutes, hub)

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes)

		// Public read-only routes
		routes.RegisterOfficialRoutes(api, aggregator)
		routes.RegisterTeamRoutes(api)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.RegisterReviewRoutes(protected, ledger, hub)
		}

		// Event reads are public, writes require supervisor/admin
		routes.RegisterEventRoutes(api, protected, ledger)

		// Admin routes (protected with admin authentication)
		adminRoutes := api.Group("/admin")
		routes.RegisterAdminRoutes(adminRoutes, ledger, aggregator)
	}

	// Start background jobs
	refreshInterval := time.Duration(config.AppConfig.Ratings.RefreshIntervalHours) * time.Hour
	ratingJob := jobs.NewRatingRefreshJob(aggregator, refreshInterval)
	ratingJob.Start()
	defer ratingJob.Stop()

	// Token cleanup job
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			jwtService := services.NewJWTService(database.DB)
			if err := jwtService.CleanupExpiredTokens(); err != nil {
				log.Printf("❌ Token cleanup failed: %v", err)
			}
		}
	}()

	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
