// Package server provides the HTTP facade over the registry service.
//
// The server owns no registry logic: it translates requests into primary-port
// calls and maps the core error taxonomy onto HTTP status codes. Caller
// identity arrives in the X-Provreg-Identity header, mirroring how the CLI
// takes it from the environment.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/example/provreg/internal/core/registry"
	"github.com/example/provreg/internal/ports/primary"
)

// IdentityHeader carries the caller identity on mutating requests.
const IdentityHeader = "X-Provreg-Identity"

const shutdownTimeout = 10 * time.Second

// Server is the HTTP server.
type Server struct {
	svc  primary.RegistryService
	addr string
	echo *echo.Echo
	log  *zap.Logger
}

// New creates an HTTP server for the given registry service.
func New(svc primary.RegistryService, addr string, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogMethod: true,
		LogURI:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))

	s := &Server{
		svc:  svc,
		addr: addr,
		echo: e,
		log:  log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/owner", s.handleGetOwner)
	s.echo.POST("/init", s.handleInit)

	s.echo.GET("/tasks", s.handleListTasks)
	s.echo.POST("/tasks", s.handleRegisterTask)
	s.echo.GET("/tasks/:id", s.handleGetTask)
	s.echo.GET("/tasks/:id/latest", s.handleGetLatest)
	s.echo.GET("/tasks/:id/versions", s.handleHistory)
	s.echo.GET("/tasks/:id/versions/:n", s.handleGetVersion)
	s.echo.POST("/tasks/:id/versions", s.handlePublish)

	s.echo.GET("/audit", s.handleListAudit)
}

// Start runs the server and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.addr)
	}()

	s.log.Info("listening", zap.String("addr", s.addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// httpStatus maps the registry error taxonomy onto status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, registry.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, registry.ErrNotInitialized):
		return http.StatusForbidden
	case errors.Is(err, registry.ErrTaskNotFound), errors.Is(err, registry.ErrNoVersions):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrTaskAlreadyExists), errors.Is(err, registry.ErrAlreadyInitialized):
		return http.StatusConflict
	case errors.Is(err, registry.ErrInvalidHash):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}

func callerIdentity(c echo.Context) (string, error) {
	identity := c.Request().Header.Get(IdentityHeader)
	if identity == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing "+IdentityHeader+" header")
	}
	return identity, nil
}
