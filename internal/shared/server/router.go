package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"investor-backend/internal/companies"
	"investor-backend/internal/dealnotes"
	"investor-backend/internal/documents"
	"investor-backend/internal/services/health"
	"investor-backend/internal/shared/config"
	"investor-backend/internal/shared/metrics"
	"investor-backend/internal/shared/server/middleware"
	"investor-backend/internal/shared/server/respond"
)

// RouterDeps are the handlers mounted on the engine.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	CompanyHandler  *companies.Handler
	DealNoteHandler *dealnotes.Handler
	DocumentHandler *documents.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: middleware.UploadGroup,
			Rules: map[string]middleware.RateLimitRule{
				middleware.UploadRateLimitGroup: {
					Rate:  deps.Config.UploadRatePerSec,
					Burst: deps.Config.UploadBurst,
				},
			},
		}),
	)

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{"message": "Investor API running"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status, ok := deps.Health.Status(c.Request.Context())
		if !ok {
			respond.JSON(c, http.StatusServiceUnavailable, status)
			return
		}
		respond.OK(c, status)
	})
	if deps.CompanyHandler != nil {
		deps.CompanyHandler.RegisterRoutes(api)
	}
	if deps.DealNoteHandler != nil {
		deps.DealNoteHandler.RegisterRoutes(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}

	return r
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
