// Package httpserver owns the HTTP transport: server lifecycle, the
// standard middleware stack, and response helpers shared by handlers.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/scribehq/scribe/internal/httpserver/middleware"
	"github.com/scribehq/scribe/internal/logger"
)

// Server runs the gin engine behind an http.Server with h2c enabled, so
// plaintext clients can speak either HTTP/1.1 or HTTP/2.
type Server struct {
	inner  *http.Server
	engine *gin.Engine
	cfg    Config
	log    *logger.Logger
}

// New builds a Server from config. The engine starts bare; install the
// standard stack with ApplyMiddleware before registering routes.
func New(cfg Config, log *logger.Logger) *Server {
	gin.SetMode(ginMode())
	engine := gin.New()

	return &Server{
		inner: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      h2c.NewHandler(engine, &http2.Server{IdleTimeout: 2 * time.Minute}),
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
		},
		engine: engine,
		cfg:    cfg,
		log:    log.WithComponent("server"),
	}
}

// ginMode derives the engine mode from the process log level, so debug
// logging also gets gin's route dump.
func ginMode() string {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// GinEngine exposes the engine for route registration.
func (s *Server) GinEngine() *gin.Engine { return s.engine }

// ApplyMiddleware installs the standard stack. Recovery runs outermost so
// a panic in any later middleware still produces a response.
func (s *Server) ApplyMiddleware() {
	s.engine.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.cfg.CORS),
		middleware.RequestLogger(s.log),
	)
}

// Start binds the listen address and serves in a background goroutine. It
// returns once the port is bound, so a nil error means the server is
// accepting connections.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.inner.Addr)
	if err != nil {
		return fmt.Errorf("server: bind %s: %w", s.inner.Addr, err)
	}

	s.log.Info("HTTP server listening", map[string]interface{}{
		"addr": s.inner.Addr,
	})

	go func() {
		err := s.inner.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
	return nil
}

// Stop drains in-flight requests and shuts the server down, giving up
// after five seconds.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.inner.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.inner.Addr }
