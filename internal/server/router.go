package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/okvitka/mindhaven-backend/internal/handlers"
	"github.com/okvitka/mindhaven-backend/internal/platform/envutil"
)

type RouterConfig struct {
	AssessmentHandler *handlers.AssessmentHandler
	ResourceHandler   *handlers.ResourceHandler
	GraphHandler      *handlers.GraphHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := strings.Split(envutil.Str("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	if envutil.Bool("OTEL_ENABLED", false) {
		router.Use(otelgin.Middleware("mindhaven-backend"))
	}

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/tests", cfg.AssessmentHandler.ListTests)
		api.GET("/tests/:id", cfg.AssessmentHandler.GetTest)
		api.POST("/tests/:id/submit", cfg.AssessmentHandler.SubmitTest)

		api.POST("/resources/:id/rate", cfg.ResourceHandler.RateResource)
		api.GET("/resources/by-theme", cfg.ResourceHandler.ByTheme)

		api.GET("/graph", cfg.GraphHandler.GetGraph)
	}

	return router
}
