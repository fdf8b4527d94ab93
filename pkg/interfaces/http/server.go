// Package httpapi serves the inventory dashboard as a JSON API.
package httpapi

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/vsinha/labstock/pkg/application/services"
)

// Options configures the HTTP server
type Options struct {
	// AccessLog receives one line per request; nil disables request logging
	AccessLog io.Writer
}

// Server exposes a dashboard session over HTTP
type Server struct {
	app    *fiber.App
	logger *zap.Logger
}

// NewServer creates the fiber application and registers the routes
func NewServer(dashboard *services.Dashboard, opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "labstock",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				log.Error("request failed",
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
				"code":    code,
			})
		},
	})

	app.Use(recover.New())
	if opts.AccessLog != nil {
		app.Use(logger.New(logger.Config{Output: opts.AccessLog}))
	}

	controller := NewInventoryController(dashboard, log)
	api := app.Group("/api")
	api.Get("/inventory", controller.ListInventory)
	api.Get("/summary", controller.GetSummary)
	api.Get("/alerts", controller.ListAlerts)
	api.Get("/expiring", controller.ListExpiring)
	api.Get("/options", controller.GetOptions)
	api.Get("/events", controller.ListEvents)
	api.Post("/shipments", controller.ReceiveShipment)
	api.Post("/reload", controller.Reload)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return &Server{app: app, logger: log}
}

// App returns the underlying fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// Serve listens on addr until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard API listening", zap.String("addr", addr))
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down dashboard API")
		if err := s.app.Shutdown(); err != nil {
			return err
		}
		return <-errCh
	}
}
