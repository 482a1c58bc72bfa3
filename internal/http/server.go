// Package http provides the HTTP servers: the public API with health and readiness
// endpoints, and the Prometheus metrics server.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/helpmatch/internal/config"
	"github.com/allisson/helpmatch/internal/database"
	matchingHTTP "github.com/allisson/helpmatch/internal/matching/http"
	"github.com/allisson/helpmatch/internal/metrics"
	requestHTTP "github.com/allisson/helpmatch/internal/request/http"
)

const readinessTimeout = 2 * time.Second

// HealthChecker is a dependency that can report its readiness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handlers groups the route handlers mounted by SetupRouter. Dev may be nil.
type Handlers struct {
	Request *requestHTTP.RequestHandler
	Match   *matchingHTTP.MatchHandler
	Dev     *DevHandler
}

// Server represents the HTTP API server.
type Server struct {
	listener
	db     *sql.DB
	broker HealthChecker
	router *gin.Engine
}

// NewServer creates a new HTTP server. Routes are registered by SetupRouter.
func NewServer(db *sql.DB, broker HealthChecker, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		listener: newListener("http server", host, port, logger),
		db:       db,
		broker:   broker,
	}
}

// SetupRouter builds the gin engine. ctx bounds background work owned by middleware.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	handlers Handlers,
	meterProvider metric.MeterProvider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cfg.MetricsEnabled && meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	writeLimit := func(c *gin.Context) { c.Next() }
	if cfg.RateLimitEnabled {
		writeLimit = RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger)
	}

	if handlers.Request != nil {
		requests := v1.Group("/requests")
		requests.POST("", writeLimit, handlers.Request.CreateHandler)
		requests.GET("", handlers.Request.ListHandler)
		requests.GET("/:id", handlers.Request.GetHandler)
		requests.POST("/:id/offers", writeLimit, handlers.Request.CreateOfferHandler)
		if handlers.Match != nil {
			requests.GET("/:id/matches", handlers.Match.ListHandler)
		}
	}

	if cfg.DevEndpointsEnabled && handlers.Dev != nil {
		s.logger.Warn("dev endpoints enabled")
		v1.POST("/dev/queues/:queue/malformed", handlers.Dev.InjectMalformedHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	return s.serve(s.router)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports 503 unless both the database and the broker channel are up.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	components := gin.H{"database": "ok", "broker": "ok"}
	ready := true

	if s.db == nil || database.HealthCheck(ctx, s.db, readinessTimeout) != nil {
		components["database"] = "error"
		ready = false
	}

	if s.broker == nil || s.broker.HealthCheck(ctx) != nil {
		components["broker"] = "error"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
