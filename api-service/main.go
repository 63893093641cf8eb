package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"b2bak-backend/api-service/handlers"
	"b2bak-backend/api-service/middleware"
	"b2bak-backend/shared/clients"
	"b2bak-backend/shared/config"
	"b2bak-backend/shared/database"
	"b2bak-backend/shared/utils/auth"
	"b2bak-backend/shared/workflow"

	_ "b2bak-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title B2BAK Marketplace API
// @version 1.0
// @description Procurement workflow backend: requests, quotes, deals and invoices with org-scoped access control and an append-only audit trail.

// @contact.name API Support
// @contact.email support@b2bak.dev

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.GetRedisDB(),
	})
	defer rdb.Close()

	store := database.NewStore(db)
	queue := clients.NewQueueClient(rdb, cfg.QueueName)
	engine := workflow.NewEngine(store, queue)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.GetJWTExpireHours())

	h := handlers.New(db, engine, tokens, cfg)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestID())

	// Health check
	router.GET("/health", h.Health)

	authLimit := middleware.RateLimit(rdb, "auth",
		cfg.GetAuthRateLimitMaxAttempts(),
		time.Duration(cfg.GetAuthRateLimitWindowSeconds())*time.Second)

	api := router.Group("/api")

	// Auth routes (rate limited, no token required)
	api.POST("/auth/register", authLimit, h.Register)
	api.POST("/auth/login", authLimit, h.Login)

	// Everything below requires a Bearer token
	protected := api.Group("")
	protected.Use(middleware.Auth(tokens))

	protected.GET("/auth/me", h.Me)

	// Request routes
	protected.GET("/requests", h.ListRequests)
	protected.POST("/requests", h.CreateRequest)
	protected.GET("/requests/:id", h.GetRequest)
	protected.PATCH("/requests/:id", h.PatchRequest)
	protected.POST("/requests/:id/publish", h.PublishRequest)
	protected.POST("/requests/:id/shortlist", h.ShortlistRequest)
	protected.POST("/requests/:id/award", h.AwardRequest)

	// Quote routes
	protected.GET("/quotes", h.ListQuotes)
	protected.POST("/quotes", h.CreateQuote)
	protected.PATCH("/quotes/:id", h.PatchQuote)
	protected.POST("/quotes/:id/withdraw", h.WithdrawQuote)

	// Deal routes
	protected.GET("/deals", h.ListDeals)
	protected.GET("/deals/:id", h.GetDeal)
	protected.POST("/deals/:id/create-invoice", h.CreateInvoice)
	protected.POST("/deals/:id/mark-paid", h.MarkDealPaid)
	protected.GET("/deals/:id/messages", h.ListMessages)
	protected.POST("/deals/:id/messages", h.CreateMessage)

	// Invite routes
	protected.GET("/invites", h.ListInvites)
	protected.POST("/invites", h.CreateInvite)
	protected.POST("/invites/:id/accept", h.AcceptInvite)

	// Notification routes
	protected.GET("/notifications", h.ListNotifications)
	protected.POST("/notifications/:id/read", h.MarkNotificationRead)
	protected.POST("/notifications/emit-job", h.EmitJobNotification)
	protected.GET("/notifications/stream", h.StreamNotifications)

	// Audit trail
	protected.GET("/audit", h.ListAudit)

	// Swagger documentation UI
	router.GET("/swagger/*any", func(c *gin.Context) {
		if gin.Mode() == gin.DebugMode {
			ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
		} else {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Swagger documentation not available in production",
			})
		}
	})

	log.Printf("API Service starting on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
