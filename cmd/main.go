package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/team-izakaya/menugraph-backend/internal/clients/llm"
	redisclient "github.com/team-izakaya/menugraph-backend/internal/clients/redis"
	"github.com/team-izakaya/menugraph-backend/internal/data/graph"
	"github.com/team-izakaya/menugraph-backend/internal/db"
	"github.com/team-izakaya/menugraph-backend/internal/handlers"
	"github.com/team-izakaya/menugraph-backend/internal/middleware"
	"github.com/team-izakaya/menugraph-backend/internal/observability"
	"github.com/team-izakaya/menugraph-backend/internal/platform/envutil"
	"github.com/team-izakaya/menugraph-backend/internal/platform/logger"
	"github.com/team-izakaya/menugraph-backend/internal/platform/neo4jdb"
	"github.com/team-izakaya/menugraph-backend/internal/recommend"
	"github.com/team-izakaya/menugraph-backend/internal/repos"
	"github.com/team-izakaya/menugraph-backend/internal/server"
	"github.com/team-izakaya/menugraph-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "menugraph-backend",
		Environment: envutil.GetEnv("APP_ENV", "development", log),
		Version:     envutil.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOTel(shutdownCtx); err != nil {
				log.Warn("OTel shutdown failed", "error", err)
			}
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Neo4j
	log.Info("Connecting to the menu graph...")
	graphClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Error("Neo4j init failed", "error", err)
		os.Exit(1)
	}
	defer graphClient.Close(ctx)
	graphStore, err := graph.NewStore(graphClient, log)
	if err != nil {
		log.Error("Graph store init failed", "error", err)
		os.Exit(1)
	}
	graphStore.EnsureSchema(ctx)

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)

	// Generation
	llmClient, err := llm.NewClientFromEnv(log)
	if err != nil {
		log.Error("Could not init generation client", "error", err)
		os.Exit(1)
	}

	// Pitch cache (optional)
	var pitchCache services.PitchCache
	if os.Getenv("REDIS_ADDR") != "" {
		cache, err := redisclient.NewPitchCache(log)
		if err != nil {
			log.Warn("Pitch cache init failed, continuing without it", "error", err)
		} else {
			defer cache.Close()
			pitchCache = cache
		}
	}

	// Recommendation config
	recoCfg, err := recommend.LoadConfig(envutil.GetEnv("RECO_WEIGHTS_FILE", "", log))
	if err != nil {
		log.Error("Could not load recommendation config", "error", err)
		os.Exit(1)
	}
	if envutil.GetEnvAsBool("RECO_LEGACY_PRESENCE_SCORING", recoCfg.LegacyPresenceScoring, log) {
		recoCfg.LegacyPresenceScoring = true
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, graphStore, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	orderService := services.NewOrderService(log, graphStore)
	recommendationService := services.NewRecommendationService(log, graphStore, llmClient, pitchCache, recoCfg)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	orderHandler := handlers.NewOrderHandler(orderService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:                   log,
		AuthHandler:           authHandler,
		AuthMiddleware:        authMiddleware,
		OrderHandler:          orderHandler,
		RecommendationHandler: recommendationHandler,
	})

	port := envutil.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
