// Package httpapi exposes the directory, the module catalog and report
// generation over HTTP.
package httpapi

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/catalog"
	"github.com/mindsetos/teamreport/internal/config"
	"github.com/mindsetos/teamreport/internal/observability"
	"github.com/mindsetos/teamreport/internal/reportgen"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Deps are the components the handlers call.
type Deps struct {
	Registry  *catalog.Registry
	Gateway   *reportgen.Gateway
	Directory schemas.Directory
	Reports   schemas.ReportStore
	Metrics   *observability.Metrics
	Logger    *zap.Logger
}

// Server owns the gin engine and the http.Server around it.
type Server struct {
	deps   Deps
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// NewServer builds the router for cfg. It does not start listening.
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	s := &Server{deps: deps, engine: engine, logger: logger}
	s.routes(cfg.MetricsEnabled)

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes(metrics bool) {
	api := s.engine.Group("/api")
	api.GET("/health", s.health)
	api.GET("/modules", s.listModules)
	api.GET("/organizations", s.listOrganizations)
	api.GET("/teams", s.listTeams)
	api.GET("/teams/:teamId", s.getTeam)
	api.GET("/teams/:teamId/reports/latest", s.latestReport)
	api.POST("/generate-report", s.generateReport)
	api.POST("/reports", s.saveReport)

	if metrics && s.deps.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// HTTPServer returns the configured http.Server.
func (s *Server) HTTPServer() *http.Server { return s.http }

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	return c
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Request served.",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
