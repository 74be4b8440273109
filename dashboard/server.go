// Package dashboard implements a read-only HTTP view onto the queue:
// Queue.Stats/List exposed over HTTP, plus a Prometheus scrape
// endpoint. It never writes to the queue.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/queuectl/queuectl"
)

// Server wraps an echo.Echo instance serving the dashboard's HTML page,
// its JSON API, and a Prometheus metrics endpoint.
type Server struct {
	echo  *echo.Echo
	queue *queuectl.Queue
	log   *slog.Logger
}

// New builds a Server over queue. log may be nil (slog.Default is used).
func New(queue *queuectl.Queue, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{echo: echo.New(), queue: queue, log: log}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.configureMiddleware()
	s.initRoutes()
	return s
}

func (s *Server) configureMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     6,
		MinLength: 2048,
	}))
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.log.Error("request", "uri", v.URI, "status", v.Status, "err", v.Error)
			} else {
				s.log.Debug("request", "uri", v.URI, "status", v.Status)
			}
			return nil
		},
	}))
	s.echo.HTTPErrorHandler = s.errorHandler
}

func (s *Server) initRoutes() {
	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/api/stats", s.handleStats)
	s.echo.GET("/api/jobs", s.handleJobs)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// errorHandler returns a bare 404 for unknown paths, an echo HTTP error's
// own status (e.g. 400 for a bad query parameter) with the error string,
// and HTTP 500 with the error string for internal errors.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
	}
	if code == http.StatusNotFound {
		c.String(code, "not found")
		return
	}
	s.log.Error("dashboard request failed", "path", c.Request().URL.Path, "err", err)
	c.String(code, err.Error())
}

// Handler returns the dashboard as a plain http.Handler, for embedding in
// another server or for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr (e.g. ":8080") until the context is canceled, at
// which point it shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	select {
	case <-ctx.Done():
		return s.echo.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
