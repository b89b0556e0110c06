// Package stubserver is the placeholder backend the template ships: it binds
// one port, parses JSON and form bodies, and answers a single liveness route.
package stubserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/naikmubashir/setup-template/internal/logging"
)

// DefaultAllowedOrigin is the Vite dev server.
const DefaultAllowedOrigin = "http://localhost:5173"

const shutdownTimeout = 5 * time.Second

// Options configures the stub service.
type Options struct {
	AllowOrigins []string
	MaxBodyBytes int64
}

// Server is the stub HTTP service.
type Server struct {
	engine *gin.Engine
}

// StatusResponse is the body of GET /.
type StatusResponse struct {
	Message string `json:"message"`
}

// New builds the engine with its middleware and routes.
func New(opts Options) *Server {
	if len(opts.AllowOrigins) == 0 {
		opts.AllowOrigins = []string{DefaultAllowedOrigin}
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(ParseBody(opts.MaxBodyBytes))

	s := &Server{engine: r}
	s.RegisterRoutes(r)
	return s
}

// RegisterRoutes mounts the stub's routes.
func (s *Server) RegisterRoutes(r gin.IRouter) {
	r.GET("/", s.Status)
}

// Status answers the liveness route.
func (s *Server) Status(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Message: "Server is running!"})
}

// Handler returns the engine as an http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Engine exposes the gin engine so callers can mount more routes.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Server("listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logging.ServerError("server stopped: %v", err)
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logging.Server("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
