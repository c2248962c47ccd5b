package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/team-izakaya/menugraph-backend/internal/handlers"
	"github.com/team-izakaya/menugraph-backend/internal/middleware"
	"github.com/team-izakaya/menugraph-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log                   *logger.Logger
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	OrderHandler          *handlers.OrderHandler
	RecommendationHandler *handlers.RecommendationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(otelgin.Middleware("menugraph-backend"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api/v2")
	{
		api.POST("/auth/signup", cfg.AuthHandler.Signup)
		api.POST("/auth/login", cfg.AuthHandler.Login)
		api.POST("/rag-weighted-recommend", cfg.RecommendationHandler.ByContext)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api/v2")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Orders
	protected.POST("/order", cfg.OrderHandler.Create)
	// Recommendations
	protected.GET("/rag-recommend", cfg.RecommendationHandler.ByTags)
	protected.GET("/recommend", cfg.RecommendationHandler.BySimilarUsers)

	return router
}
