// Package server exposes the question-answering service over HTTP with echo.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mwiater/passageqa/internal/logging"
	"github.com/mwiater/passageqa/internal/rag"
)

// QueryService is the part of rag.Service the HTTP layer needs.
type QueryService interface {
	Ask(ctx context.Context, question string, topK int) ([]rag.RankedAnswer, error)
	Retrieve(ctx context.Context, question string, topK int) ([]rag.QueryResult, error)
	Reload() (rag.Stats, error)
	Stats() rag.Stats
}

// QueryRequest is the body of /api/query and /api/retrieve.
type QueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"topK"`
}

// QueryResponse wraps ranked answers.
type QueryResponse struct {
	Question string             `json:"question"`
	Answers  []rag.RankedAnswer `json:"answers"`
	TookMs   int64              `json:"took_ms"`
}

// RetrieveResponse wraps retrieved passages.
type RetrieveResponse struct {
	Question string            `json:"question"`
	Passages []rag.QueryResult `json:"passages"`
	TookMs   int64             `json:"took_ms"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server routes HTTP requests to a QueryService.
type Server struct {
	echo    *echo.Echo
	service QueryService
}

// New builds the echo instance and registers the API routes.
func New(service QueryService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logging.LogEvent("[HTTP] %s %s status=%d latency=%s", v.Method, v.URI, v.Status, v.Latency.Truncate(time.Microsecond))
			return nil
		},
	}))

	s := &Server{echo: e, service: service}
	api := e.Group("/api")
	api.POST("/query", s.handleQuery)
	api.POST("/retrieve", s.handleRetrieve)
	api.GET("/health", s.handleHealth)
	api.GET("/stats", s.handleStats)
	api.POST("/reload", s.handleReload)
	return s
}

// Handler returns the root http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logging.LogEvent("[HTTP] Listening on %s", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logging.LogEvent("[HTTP] Shutting down")
		return s.echo.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	start := time.Now()
	answers, err := s.service.Ask(c.Request().Context(), req.Question, req.TopK)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, QueryResponse{
		Question: strings.TrimSpace(req.Question),
		Answers:  answers,
		TookMs:   time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleRetrieve(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	start := time.Now()
	passages, err := s.service.Retrieve(c.Request().Context(), req.Question, req.TopK)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RetrieveResponse{
		Question: strings.TrimSpace(req.Question),
		Passages: passages,
		TookMs:   time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.service.Stats())
}

func (s *Server) handleReload(c echo.Context) error {
	stats, err := s.service.Reload()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, rag.ErrEmptyQuestion), errors.Is(err, rag.ErrInvalidTopK):
		return http.StatusBadRequest
	case errors.Is(err, rag.ErrIndexNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, rag.ErrEmbeddingCollaborator):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := StatusFor(err)
	msg := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		}
	}
	if status >= http.StatusInternalServerError {
		logging.LogEvent("[HTTP] %s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	if writeErr := c.JSON(status, ErrorResponse{Error: msg}); writeErr != nil {
		logging.LogEvent("[HTTP] write error response: %v", writeErr)
	}
}
