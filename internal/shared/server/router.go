package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"legalsim-backend/internal/analyses"
	"legalsim-backend/internal/documents"
	"legalsim-backend/internal/services/health"
	"legalsim-backend/internal/shared/config"
	"legalsim-backend/internal/shared/metrics"
	"legalsim-backend/internal/shared/server/middleware"
	"legalsim-backend/internal/shared/server/respond"
)

const (
	FunctionsPrefix = "/functions/v1"
	APIPrefix       = "/api/v1"

	rateGroupAnalyze = "ANALYZE"
)

// RouterDeps are the handlers and services the router mounts.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	DocumentHandler *documents.Handler
	Health          *health.Service
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !deps.Config.IsDevLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.BodyLimit(deps.Config.MaxBodyBytes),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: rateGroupFor,
			Limiter:  deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				rateGroupAnalyze: middleware.PerMinute(deps.Config.AnalyzeRatePerMinute, deps.Config.AnalyzeBurst),
			},
		}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}

	api := r.Group(APIPrefix)
	api.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}

	functions := r.Group(FunctionsPrefix)
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(functions)
	}

	r.GET("/metrics", metrics.Handler())

	return r
}

func rateGroupFor(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == FunctionsPrefix+analyses.ProcessDocumentPath {
		return rateGroupAnalyze
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
