// Package web serves the picker engine as a JSON API.
package web

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"cloudeng.io/logging/ctxlog"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"datepick/internal/dateformat"
)

type ServerConfig struct {
	Addr string
	// Pattern is used when a request names none.
	Pattern     string
	WeeksToShow int
	// Now is the engine clock; nil means time.Now.
	Now func() time.Time
	// AccessLog receives fiber's request log; nil disables it.
	AccessLog io.Writer
}

type Server struct {
	cfg ServerConfig
	app *fiber.App
	ctx context.Context
}

// NewServer builds the fiber app. ctx carries the logger handlers use.
func NewServer(ctx context.Context, cfg ServerConfig) *Server {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = ":8080"
	}
	if strings.TrimSpace(cfg.Pattern) == "" {
		cfg.Pattern = dateformat.DefaultPattern
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Server{cfg: cfg, ctx: ctx}

	app := fiber.New(fiber.Config{
		AppName:               "datepick",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	app.Use(recover.New())
	if cfg.AccessLog != nil {
		app.Use(logger.New(logger.Config{Output: cfg.AccessLog}))
	}
	app.Use(s.withLogger)
	RegisterRoutes(app, s)
	s.app = app
	return s
}

func RegisterRoutes(app *fiber.App, s *Server) {
	app.Get("/healthz", s.Health)

	api := app.Group("/api")
	api.Get("/calendar", s.GetCalendar)
	api.Post("/calendar/commands", s.PostCommands)
	api.Get("/format", s.GetFormat)
	api.Get("/parse", s.GetParse)
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) App() *fiber.App { return s.app }

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- s.app.Listen(s.cfg.Addr) }()
	ctxlog.Logger(ctx).Info("listening", "addr", s.cfg.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// withLogger attaches a request-scoped logger to the fiber user context.
func (s *Server) withLogger(c *fiber.Ctx) error {
	ctx := ctxlog.WithAttributes(s.ctx, "method", c.Method(), "path", c.Path())
	c.SetUserContext(ctx)
	return c.Next()
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	if status >= fiber.StatusInternalServerError {
		ctxlog.Logger(c.UserContext()).Error("request failed", "error", err)
	}
	return apiError(c, status, err.Error())
}

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
