package api

import (
	"context"
	"net/http"
	"time"

	"example.com/agrotrack/services/fleet/config"
	"example.com/agrotrack/services/fleet/internal/api/handlers"
	"example.com/agrotrack/services/fleet/internal/api/middleware"
	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/service"
	"example.com/agrotrack/services/fleet/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server
	fleet      *service.FleetService
	gw         gateway.Gateway
	tracer     tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, fleet *service.FleetService, gw gateway.Gateway, tracer tracing.Tracer) *Server {
	server := &Server{
		config: cfg,
		fleet:  fleet,
		gw:     gw,
		tracer: tracer,
	}

	server.router = server.setupRouter()
	server.httpServer = &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: server.router,
	}

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	fleetHandler := handlers.NewFleetHandler(s.fleet, s.tracer)
	fleetHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.gw.Ping(ctx); err != nil {
			status["remote"] = "unreachable"
		} else {
			status["remote"] = "ok"
		}
		c.JSON(http.StatusOK, status)
	})

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
