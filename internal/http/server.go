package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"waypoint/internal/domain"
	"waypoint/internal/logging"
	"waypoint/internal/metrics"
	"waypoint/internal/storage"
	"waypoint/pkg/router"
)

// inspectorPrefix is the path prefix of the inspector endpoints.
const inspectorPrefix = "/_router"

// Server exposes a router over HTTP: its state under /_router, its metrics
// under /metrics, and route resolution for every other path.
type Server struct {
	config     domain.RouterConfig
	history    *storage.MemoryHistory
	router     *router.Router
	logger     *logging.Logger
	registry   *prometheus.Registry
	engine     *gin.Engine
	httpServer *http.Server
	startTime  time.Time
}

// NewServer creates a router inspector with the given configuration
func NewServer(config domain.RouterConfig) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewLogger(config.Name)
	registry := prometheus.NewRegistry()
	history := storage.NewMemoryHistory(config.Start)

	r, err := router.New(config.Routes,
		router.WithBasePath(config.BasePath),
		router.WithHistory(history),
		router.WithLogger(logger),
		router.WithMetrics(metrics.New(metrics.WithRegistry(registry))),
	)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	server := &Server{
		config:    config,
		history:   history,
		router:    r,
		logger:    logger,
		registry:  registry,
		engine:    engine,
		startTime: time.Now(),
	}

	server.setupMiddleware()
	server.setupRoutes()

	server.logger.WithFields(map[string]interface{}{
		"name":   config.Name,
		"port":   config.Port,
		"routes": len(config.Routes),
	}).Infof("Started router %s at %s", config.Name, r.Location().URL)

	return server, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		s.logger.WithFields(map[string]interface{}{
			"error":  recovered,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("Panic recovered")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))

	s.engine.Use(s.requestLoggingMiddleware())
}

// requestLoggingMiddleware logs incoming requests and responses
func (s *Server) requestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		s.logger.InfoRequest(c.Request.Method, c.Request.URL.Path, c.ClientIP())

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		size := c.Writer.Size()

		if status == http.StatusNotFound && !isInspectorPath(c.Request.URL.Path) {
			s.logger.WarnNoRoute(c.Request.Method, c.Request.URL.Path, duration.String())
		} else {
			s.logger.InfoResponse(status, c.Request.Method, c.Request.URL.Path, int64(size), duration.String())
		}
	}
}

func isInspectorPath(path string) bool {
	return strings.HasPrefix(path, inspectorPrefix) || path == "/metrics"
}

// setupRoutes configures all server routes
func (s *Server) setupRoutes() {
	inspector := s.engine.Group(inspectorPrefix)
	{
		inspector.GET("/routes", s.listRoutesHandler())
		inspector.GET("/location", s.locationHandler())
		inspector.GET("/match", s.matchHandler())
		inspector.POST("/navigate", s.navigateHandler())
		inspector.POST("/back", s.backHandler())
		inspector.POST("/forward", s.forwardHandler())
		inspector.GET("/url/:route", s.createURLHandler())
		inspector.GET("/history", s.historyHandler())
		inspector.GET("/info", s.infoHandler())
		inspector.GET("/subscribe", s.subscribeHandler())
	}

	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	// Every other path is resolved against the route table
	s.engine.NoRoute(s.resolveHandler())
}

// Handler returns the HTTP handler serving all endpoints.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Router returns the router the server inspects.
func (s *Server) Router() *router.Router {
	return s.router
}

// Start begins listening on the configured port
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{Addr: addr, Handler: s.engine}

	s.logger.Infof("Listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the listener down and detaches the router from its history.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down router")
	s.router.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// GetConfig returns the server configuration
func (s *Server) GetConfig() domain.RouterConfig {
	return s.config
}

// GetUptime returns how long the server has been running
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.startTime)
}
