package server

import (
	"net/http"

	"github.com/hestia-ml/hestia/internal/config"
	"github.com/hestia-ml/hestia/internal/model"
	"github.com/hestia-ml/hestia/internal/monitoring"
	"github.com/hestia-ml/hestia/internal/store"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// ModelProvider is the model registry surface the server needs.
type ModelProvider interface {
	Bundle() (*model.Bundle, bool)
	Reload() error
}

// PredictionStore persists served predictions. A nil store disables
// persistence.
type PredictionStore interface {
	Save(store.Record) error
}

// Server represents the HTTP server
type Server struct {
	logger   *zap.Logger
	cfg      *config.Config
	registry ModelProvider
	monitor  *monitoring.Monitor
	store    PredictionStore
}

// NewServer creates a new HTTP server
func NewServer(
	logger *zap.Logger,
	cfg *config.Config,
	registry ModelProvider,
	monitor *monitoring.Monitor,
	predStore PredictionStore,
) *Server {
	return &Server{
		logger:   logger,
		cfg:      cfg,
		registry: registry,
		monitor:  monitor,
		store:    predStore,
	}
}

// Router creates a new HTTP router
func (s *Server) Router() *gin.Engine {
	router := gin.New()

	router.Use(ginzap.Ginzap(s.logger, "2006-01-02T15:04:05Z07:00", true))
	router.Use(ginzap.RecoveryWithZap(s.logger, true))
	router.Use(otelgin.Middleware("hestia"))
	router.Use(cors.Default())

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)

	router.POST("/predict", s.handlePredict)
	router.POST("/predict/batch", s.handlePredictBatch)

	modelGroup := router.Group("/model")
	{
		modelGroup.GET("/info", s.handleModelInfo)
		modelGroup.GET("/production-info", s.handleProductionModelInfo)
	}

	router.GET("/metrics", s.handleMetrics)
	router.GET("/metrics/prometheus", gin.WrapH(promhttp.Handler()))

	mon := router.Group("/monitoring", s.requireMonitoring)
	{
		mon.GET("/stats", s.handleMonitoringStats)
		mon.GET("/drift", s.handleDetectDrift)
		mon.POST("/baseline", s.handleSetBaseline)
		mon.GET("/features", s.handleFeatureStats)
	}

	admin := router.Group("/admin")
	{
		admin.POST("/reload", s.handleReloadModel)
		admin.POST("/monitoring/reset", s.handleResetMonitoring)
	}

	return router
}

// requireMonitoring rejects monitoring endpoints when monitoring is
// disabled in configuration.
func (s *Server) requireMonitoring(c *gin.Context) {
	if !s.cfg.Monitoring.Enabled {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "monitoring disabled"})
		return
	}
	c.Next()
}

// requireBundle fetches the active model bundle or answers 503.
func (s *Server) requireBundle(c *gin.Context) (*model.Bundle, bool) {
	bundle, ok := s.registry.Bundle()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not loaded"})
		return nil, false
	}
	return bundle, true
}
