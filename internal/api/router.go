package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/leozw/whois-lookup/internal/api/handlers"
	"github.com/leozw/whois-lookup/internal/api/middleware"
	"github.com/leozw/whois-lookup/internal/config"
)

type Server struct {
	Config *config.Config
	Router *gin.Engine
	logger *zap.Logger
}

// NewServer wires middleware and routes. gatherer backs GET /metrics.
func NewServer(cfg *config.Config, lookup handlers.Lookuper, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	server := &Server{
		Config: cfg,
		Router: router,
		logger: logger,
	}

	server.setupRoutes(handlers.NewHandler(lookup, cfg.Upstream.Timeout, logger), gatherer)
	return server
}

func (s *Server) setupRoutes(h *handlers.Handler, gatherer prometheus.Gatherer) {
	// Health check
	s.Router.GET("/", h.Root)
	s.Router.GET("/health", h.Health)
	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := s.Router.Group("/api")
	api.GET("/health", h.Health)

	lookups := api.Group("")
	if rl := s.Config.Server.RateLimit; rl.RPS > 0 {
		lookups.Use(middleware.RateLimit(middleware.NewIPRateLimiter(rl.RPS, rl.Burst)))
	}
	lookups.POST("/whois", h.Whois)
}
