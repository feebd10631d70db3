// Package server exposes statement parsing and analysis over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/bitmaura/finscore/internal/analysis"
	"github.com/bitmaura/finscore/internal/config"
	"github.com/bitmaura/finscore/internal/importer"
)

const megabyte = 1024 * 1024

const internalErrorMessage = "internal server error"

// Server wires the analysis service to a fiber app.
type Server struct {
	app *fiber.App
	svc *analysis.Service
	log *zap.Logger
}

// New builds the app and registers every route.
func New(svc *analysis.Service, cfg config.ServerConfig, log *zap.Logger) *Server {
	s := &Server{svc: svc, log: log}

	fcfg := fiber.Config{
		AppName:               "finscore",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		ErrorHandler:          s.handleError,
	}
	if cfg.BodyLimitMB > 0 {
		fcfg.BodyLimit = cfg.BodyLimitMB * megabyte
	}
	s.app = fiber.New(fcfg)

	s.app.Use(recover.New())
	s.app.Use(requestLogger(log))

	s.app.Get("/api/health", s.health)
	v1 := s.app.Group("/api/v1")
	v1.Post("/parse", s.parse)
	v1.Post("/analyze", s.analyze)

	return s
}

// handleError maps err to a status. Server-side failures are logged and
// answered with a generic message.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	msg := err.Error()
	if code >= fiber.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		msg = internalErrorMessage
	}
	return c.Status(code).JSON(fiber.Map{
		"error": msg,
	})
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on port until ctx is canceled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, port int) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(fmt.Sprintf(":%d", port))
	}()
	s.log.Info("server listening", zap.Int("port", port))

	select {
	case err := <-errCh:
		return fmt.Errorf("listening: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	if err := s.app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, analysis.ErrNoTransactions),
		errors.Is(err, importer.ErrNoTransactions),
		errors.Is(err, importer.ErrMissingColumns),
		errors.Is(err, importer.ErrNoAmountColumn):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, importer.ErrUnknownBank):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// requestLogger records one line per request with its outcome.
func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = statusFor(err)
		}
		log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}
