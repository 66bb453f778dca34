package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "requestid"

// NewApp builds the Fiber app with the service's middleware chain and
// envelope error handler. Routes are mounted separately by RegisterRoutes.
func NewApp(logger *zap.Logger, corsOrigins string) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if corsOrigins == "" {
		corsOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               "eventhub-auth",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(requestLogger(logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	return app
}

// requestLogger writes one access log line per request. Bodies and
// headers are never logged.
func requestLogger(logger *zap.Logger) fiber.Handler {
	logger = logger.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.Any("request_id", c.Locals(requestIDKey)),
		)
		return nil
	}
}
