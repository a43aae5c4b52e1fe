package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nexhub-community/nexhub-api/internal/auth"
	"github.com/nexhub-community/nexhub-api/internal/config"
	"github.com/nexhub-community/nexhub-api/internal/handlers"
	"github.com/nexhub-community/nexhub-api/internal/logging"
	"github.com/nexhub-community/nexhub-api/internal/metrics"
	"github.com/nexhub-community/nexhub-api/internal/middleware"
	"github.com/nexhub-community/nexhub-api/internal/submission"
)

// Store is the optional database the router reports on.
type Store interface {
	handlers.SubmissionCounter
	Ping(ctx context.Context) error
}

// Deps groups what the router serves. Store may be nil.
type Deps struct {
	Logger    *logging.Logger
	Store     Store
	Pipelines []*submission.Pipeline
}

// NewRouter wires public endpoints and operator APIs.
// Public: /health, /ready, submission endpoints
// Operator (X-API-Key when configured): /metrics, /api/admin/*
func NewRouter(cfg config.Config, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestID(),
		accessLog(logger),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			logger.ErrorContext(c.Request.Context(), "handler panic",
				logging.Path(c.Request.URL.Path), "panic", recovered)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Internal server error",
				"error":   "unexpected failure",
			})
		}),
		middleware.CORS(middleware.DefaultCORSConfig()),
	)

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
	})

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the optional DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		if deps.Store == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := deps.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if err := handlers.RegisterSubmissionRoutes(r, logger, deps.Pipelines...); err != nil {
		return nil, err
	}

	operator := r.Group("/")
	operator.Use(auth.APIKeyMiddleware(cfg.AdminAPIKeys))
	operator.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.Store != nil {
		handlers.RegisterStatsRoutes(operator, deps.Store)
	}

	return r, nil
}

// accessLog writes one line per request and counts it by matched route.
func accessLog(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

		logger.InfoContext(c.Request.Context(), "request",
			logging.Method(c.Request.Method),
			logging.Path(c.Request.URL.Path),
			logging.Status(status),
			logging.Duration(time.Since(start)),
		)
	}
}
