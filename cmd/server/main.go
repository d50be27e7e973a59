package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging
	"time"    // Stream push interval

	"exchange_system/internal/api"        // Custom package for API handlers
	"exchange_system/internal/config"     // Custom package for configuration
	"exchange_system/internal/middleware" // Custom package for middleware
	"exchange_system/internal/quoter"     // Market-data client
	"exchange_system/internal/store"      // Data-access layer

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Data access and market data, injected into the handlers below
	st := store.New(db)
	quotes := quoter.NewCached(quoter.NewClient(cfg.MarketBaseURL, cfg.MarketToken, cfg.IsProd), redisClient)

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Public routes
	r.GET("/", api.HomeHandler(cfg.SessionSecret))                // Redirect home by session presence
	r.GET("/login", api.LoginFormHandler())                       // Login prompt
	r.POST("/login", api.LoginHandler(st, cfg.SessionSecret))     // Create-and-sign-in endpoint
	r.GET("/logout", api.LogoutHandler())                         // Clear the session
	r.GET("/leaderboard", api.LeaderboardHandler(st, quotes, redisClient)) // Net-worth ranking
	r.GET("/stockPrice", api.StockPriceHandler(quotes))           // Single price lookup
	r.GET("/ws/prices", api.PriceStreamHandler(quotes, 5*time.Second)) // Live price stream

	// Session routes (protected by the session cookie)
	sessionGroup := r.Group("/")
	sessionGroup.Use(middleware.SessionAuthMiddleware(cfg.SessionSecret))
	sessionGroup.GET("/dashboard", api.DashboardHandler(st, quotes)) // Net-worth summary
	sessionGroup.POST("/buy", api.BuyHandler(st, quotes, redisClient))   // Buy endpoint
	sessionGroup.POST("/sell", api.SellHandler(st, quotes, redisClient)) // Sell endpoint
	sessionGroup.GET("/trades", api.TradeHistoryHandler(st))         // Trade history endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.SessionAuthMiddleware(cfg.SessionSecret), middleware.AdminOnlyMiddleware(st))
	adminGroup.GET("/users", api.ListUsersHandler(st))                  // List users endpoint
	adminGroup.DELETE("/users/:username", api.DeleteUserHandler(st, redisClient)) // Delete user endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
