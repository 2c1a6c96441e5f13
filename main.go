// main.go
package main

import (
	"fmt"
	"net/http"

	"github.com/ariebrainware/tutorclass/config"
	"github.com/ariebrainware/tutorclass/endpoint"
	"github.com/ariebrainware/tutorclass/middleware"
	"github.com/ariebrainware/tutorclass/model"
	"github.com/ariebrainware/tutorclass/util"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// setupRouter builds the Gin engine with middleware and routes.
func setupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	router.GET("/classes", endpoint.ListClasses)
	router.POST("/classes", middleware.RateLimiter(middleware.RateLimitConfig{
		Limit:  cfg.RateLimit,
		Window: cfg.RateWindow,
	}), endpoint.CreateClass)

	return router
}

// logRedisStatus reports the outcome of config.ConnectRedis on util.Log.
func logRedisStatus(rdb *redis.Client, err error) {
	switch {
	case err != nil:
		util.Log.WithError(err).Warn("redis unavailable, using in-process search cache and no rate limiting")
	case rdb != nil:
		util.Log.WithField("addr", rdb.Options().Addr).Info("connected to redis")
	default:
		util.Log.Debug("redis disabled, using in-process search cache and no rate limiting")
	}
}

func main() {
	// Load the configuration
	cfg := config.LoadConfig()
	util.InitLogger(cfg.AppEnv, cfg.LogLevel)

	db, err := config.ConnectMySQL()
	if err != nil {
		util.Log.Fatalf("Error connecting to %s: %v", cfg.DBDriver, err)
	}
	if err := model.Migrate(db); err != nil {
		util.Log.Fatalf("Error migrating database: %v", err)
	}

	logRedisStatus(config.ConnectRedis())
	util.InitSearchCache(0, cfg.SearchCacheTTL)

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := setupRouter(cfg, db)

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	util.Log.Infof("%s listening on %s", cfg.AppName, address)
	if err := router.Run(address); err != nil {
		util.Log.Fatalf("error starting server: %v", err)
	}
}
