// Package gin serves the opportunity API over HTTP using the gin framework.
package gin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/linkopp"
	"github.com/gin-gonic/gin"
)

// Server timeouts.
const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Server exposes an OpportunityService over HTTP.
type Server struct {
	router *gin.Engine
	server *http.Server
	logger *slog.Logger

	opportunities linkopp.OpportunityService

	// ShutdownTimeout bounds how long Run waits for in-flight requests.
	ShutdownTimeout time.Duration
}

// NewServer creates a Server listening on addr. Routes and middleware are
// installed immediately; nothing listens until Run is called.
func NewServer(addr string, opportunities linkopp.OpportunityService, logger *slog.Logger) *Server {
	s := &Server{
		router:          gin.New(),
		logger:          logger,
		opportunities:   opportunities,
		ShutdownTimeout: DefaultShutdownTimeout,
	}

	// Recovery runs first so panics in later middleware are caught too.
	s.router.Use(RecoveryMiddleware(logger))
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(logger))
	s.router.Use(CORSMiddleware())

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the server address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting HTTP server", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server", "timeout", s.ShutdownTimeout)

	// The parent context is already done; shutdown gets a fresh deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}
