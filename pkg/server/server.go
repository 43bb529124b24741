// Package server exposes the task store over a small JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"tasklist/pkg/auth"
	"tasklist/pkg/store"
	"tasklist/pkg/utils"
)

const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API for one store.
type Server struct {
	echo  *echo.Echo
	store *store.Store
	now   func() time.Time
}

// New builds the API. When the gate is enabled every route except
// /healthz requires HTTP basic auth with the shared secret as password;
// the username is ignored.
func New(s *store.Store, gate *auth.Gate) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := utils.WithFields(log.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
			} else {
				entry.Info("request")
			}
			return nil
		},
	}))
	if gate.Enabled() {
		e.Use(middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
			Skipper: func(c echo.Context) bool { return c.Path() == "/healthz" },
			Validator: func(_, password string, _ echo.Context) (bool, error) {
				return gate.Check(password), nil
			},
			Realm: "tasklist",
		}))
	}

	srv := &Server{echo: e, store: s, now: time.Now}
	srv.register()
	return srv
}

func (s *Server) register() {
	e := s.echo
	e.GET("/healthz", healthz(s.store))

	e.GET("/api/tasks", listTasks(s.store, s.now))
	e.POST("/api/tasks", createTask(s.store, s.now))
	e.PATCH("/api/tasks/:index", updateTask(s.store, s.now))
	e.DELETE("/api/tasks/:index", deleteTask(s.store))

	e.POST("/api/tasks/:index/checklist", addItem(s.store))
	e.POST("/api/tasks/:index/checklist/reorder", reorderItems(s.store))
	e.PATCH("/api/tasks/:index/checklist/:item", updateItem(s.store))
	e.DELETE("/api/tasks/:index/checklist/:item", deleteItem(s.store))
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		utils.WithFields(log.Fields{"addr": addr}).Info("listening")
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps store errors onto HTTP statuses
func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code, fmt.Sprint(he.Message)
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		utils.WithFields(log.Fields{"uri": c.Request().RequestURI}).WithError(err).Error("internal error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Error: msg})
	}
	if err != nil {
		utils.Log("write error response: %v", err)
	}
}
