// Package server exposes the webhook and health endpoints. Telegram
// posts updates to the webhook path; everything else is liveness
// plumbing for the deployment.
package server

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"lexibot/internal/config"
	"lexibot/internal/handler"
	"lexibot/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Server wraps the fiber app serving the Telegram webhook.
type Server struct {
	app  *fiber.App
	port int
}

func New(cfg *config.ServerConfig, webhookPath string, bot *handler.Bot) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(requestLogger())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post(webhookPath, func(c *fiber.Ctx) error {
		var update tgbotapi.Update
		if err := json.Unmarshal(c.Body(), &update); err != nil {
			logger.Get().Warn("Server: malformed webhook payload", zap.Error(err))
			return c.SendStatus(fiber.StatusBadRequest)
		}
		// Telegram retries on non-200; dispatch asynchronously and ack.
		bot.Dispatch(c.UserContext(), update)
		return c.SendStatus(fiber.StatusOK)
	})

	return &Server{app: app, port: cfg.Port}
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen() error {
	return s.app.Listen(":" + strconv.Itoa(s.port))
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// requestLogger logs each HTTP request with timing and status.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)

		return err
	}
}
