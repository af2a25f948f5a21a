package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"go.uber.org/zap"

	"github.com/mbodji/stockroom/internal/config"
	"github.com/mbodji/stockroom/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.ProductHandler, cfg config.HTTPConfig, rateStore limiter.Store, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(secure.New(secure.Config{
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		FrameDeny:          true,
	}))
	r.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	r.Use(bodyLimitMiddleware(cfg.MaxBodyBytes))

	rate := limiter.Rate{Period: cfg.RateLimitWindow, Limit: cfg.RateLimitMax}
	r.Use(mgin.NewMiddleware(
		limiter.New(rateStore, rate),
		mgin.WithLimitReachedHandler(limitReached),
	))

	products := r.Group("/api/products")
	{
		products.POST("", handler.Create)
		products.GET("", handler.List)
		// registered ahead of /:id so the literal path wins
		products.GET("/low-stock", handler.ListLowStock)
		products.GET("/:id", handler.GetByID)
		products.PUT("/:id", handler.Update)
		products.DELETE("/:id", handler.Delete)
		products.PATCH("/:id/add-stock", handler.AddStock)
		products.PATCH("/:id/remove-stock", handler.RemoveStock)
	}

	r.GET("/health", handlers.Health)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")))
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}

	return cors.New(corsCfg)
}

// bodyLimitMiddleware caps request body size before handlers read it.
func bodyLimitMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func limitReached(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"success": false,
		"message": "Too many requests, please try again later",
	})
}
