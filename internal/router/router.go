package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bunkmate/bunkmate-backend/internal/config"
	"github.com/bunkmate/bunkmate-backend/internal/handler"
	"github.com/bunkmate/bunkmate-backend/internal/middleware"
	"github.com/bunkmate/bunkmate-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Subject  *handler.SubjectHandler
	Overview *handler.OverviewHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve the static client with aggressive caching (1 day).
	webGroup := router.Group("/app")
	webGroup.Use(middleware.CacheControl(86400))
	{
		webGroup.Static("/", cfg.WebDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for write routes (60 requests per minute per IP).
	writeLimiter := middleware.NewRateLimiter(60, time.Minute)

	// ─── API Group ─────────────────────────────────────────────────────
	api := router.Group("/api/v1")
	{
		api.GET("/subjects", handlers.Subject.GetAll)
		api.GET("/subjects/:id", handlers.Subject.GetByID)
		api.GET("/overview", handlers.Overview.GetOverview)

		writes := api.Group("")
		writes.Use(writeLimiter.Middleware())
		{
			writes.POST("/subjects", handlers.Subject.Create)
			writes.PUT("/subjects/:id", handlers.Subject.Update)
			writes.DELETE("/subjects/:id", handlers.Subject.Delete)
			writes.POST("/subjects/:id/attend", handlers.Subject.MarkAttended)
			writes.POST("/subjects/:id/skip", handlers.Subject.MarkSkipped)
		}
	}

	// ─── WebSocket Group ───────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/subjects/stream", handlers.WS.SubjectStream)
	}

	return router
}
