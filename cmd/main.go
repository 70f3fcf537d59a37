package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/okvitka/mindhaven-backend/internal/db"
	"github.com/okvitka/mindhaven-backend/internal/graph"
	"github.com/okvitka/mindhaven-backend/internal/handlers"
	"github.com/okvitka/mindhaven-backend/internal/observability"
	"github.com/okvitka/mindhaven-backend/internal/platform/envutil"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
	"github.com/okvitka/mindhaven-backend/internal/platform/neo4jdb"
	"github.com/okvitka/mindhaven-backend/internal/platform/redisdb"
	"github.com/okvitka/mindhaven-backend/internal/questionnaire"
	"github.com/okvitka/mindhaven-backend/internal/repos"
	"github.com/okvitka/mindhaven-backend/internal/server"
	"github.com/okvitka/mindhaven-backend/internal/services"
)

func main() {
	// Logger
	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing (no-op unless OTEL_ENABLED)
	if shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "mindhaven-backend",
		Environment: envutil.Str("DEPLOY_ENV", "development"),
		Version:     envutil.Str("SERVICE_VERSION", "dev"),
	}); shutdown != nil {
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	// Questionnaire catalog
	log.Info("Loading questionnaire catalog...")
	catalog, err := questionnaire.LoadCatalog(envutil.Str("TESTS_DATA_PATH", "config/tests_data.json"), log)
	if err != nil {
		log.Error("Could not load questionnaire catalog", "error", err)
		os.Exit(1)
	}

	// Neo4j
	log.Info("Connecting to Neo4j...")
	neoClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Error("Could not init Neo4j client", "error", err)
		os.Exit(1)
	}
	defer neoClient.Close(ctx)

	store := graph.NewStore(neoClient, log)

	ontologyPath := envutil.Str("ONTOLOGY_PATH", "config/ontology.yaml")
	ontology, err := graph.LoadOntology(ontologyPath)
	if err != nil {
		log.Error("Could not load ontology", "error", err)
		os.Exit(1)
	}
	if err := store.Seed(ctx, ontology); err != nil {
		log.Error("Could not seed ontology", "error", err)
		os.Exit(1)
	}

	// Postgres (optional reporting store)
	var testResultRepo repos.TestResultRepo
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Warn("Postgres init failed, continuing without result records", "error", err)
	} else if postgresService != nil {
		if err := postgresService.AutoMigrateAll(); err != nil {
			log.Warn("Postgres auto migration failed", "error", err)
		} else {
			testResultRepo = repos.NewTestResultRepo(postgresService.DB(), log)
		}
	}

	// Redis (optional recommendation cache)
	redisClient, err := redisdb.NewFromEnv(log)
	if err != nil {
		log.Warn("Redis init failed, continuing without cache", "error", err)
	}
	cache := services.NewRecommendationCache(redisClient, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Services
	log.Info("Setting up services...")
	assessmentService := services.NewAssessmentService(log, catalog, store, cache, testResultRepo)
	feedbackService := services.NewFeedbackService(log, store, cache)

	// Handlers
	log.Info("Setting up handlers...")
	assessmentHandler := handlers.NewAssessmentHandler(log, assessmentService)
	resourceHandler := handlers.NewResourceHandler(log, assessmentService, feedbackService)
	graphHandler := handlers.NewGraphHandler(log, assessmentService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AssessmentHandler: assessmentHandler,
		ResourceHandler:   resourceHandler,
		GraphHandler:      graphHandler,
	})

	port := envutil.Str("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
