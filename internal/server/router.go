// Package server exposes the app core to the UI shell: a local gin bridge
// grouped like the app's screens, and a gRPC health endpoint.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-stock-app/internal/auth"
	"github.com/fekuna/omnipos-stock-app/internal/httpio"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Registrar mounts a feature's routes under the protected group.
type Registrar interface {
	Register(rg *gin.RouterGroup)
}

// AuthRegistrar mounts the sign-in screens and the account screens.
type AuthRegistrar interface {
	Register(public, protected *gin.RouterGroup)
}

type Options struct {
	Session   *auth.Session
	Gate      *auth.Gate
	Navigator *auth.Navigator
	Tracker   *operation.Tracker
	Auth      AuthRegistrar
	App       []Registrar
	Logger    logger.ZapLogger
}

type statusResponse struct {
	Authenticated bool     `json:"authenticated"`
	Route         string   `json:"route"`
	InFlight      []string `json:"in_flight"`
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(opts.Logger), Readiness(opts.Gate))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.NoRoute(func(c *gin.Context) {
		httpio.Localized(c, http.StatusNotFound, "NotFound")
	})

	guard := Guard(opts.Session, opts.Navigator)
	public := r.Group(auth.AuthGroup, guard)
	protected := r.Group(auth.AppGroup, guard)

	protected.GET("/status", func(c *gin.Context) {
		resp := statusResponse{
			Authenticated: opts.Session.IsAuthenticated(),
			InFlight:      opts.Tracker.Snapshot(),
		}
		if resp.InFlight == nil {
			resp.InFlight = []string{}
		}
		if opts.Navigator != nil {
			resp.Route = opts.Navigator.Current()
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
	})

	if opts.Auth != nil {
		opts.Auth.Register(public, protected)
	}
	for _, h := range opts.App {
		h.Register(protected)
	}
	return r
}

type HTTPServer struct {
	srv    *http.Server
	logger logger.ZapLogger
}

func NewHTTPServer(addr string, handler http.Handler, log logger.ZapLogger) *HTTPServer {
	return &HTTPServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log,
	}
}

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *HTTPServer) Start() error {
	s.logger.Info("Starting bridge server", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
