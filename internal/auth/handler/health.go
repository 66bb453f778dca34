package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultHealthTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	timeout time.Duration
	logger  *zap.Logger
}

type healthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewHealthHandler(db Pinger, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{db: db, timeout: defaultHealthTimeout, logger: logger.Named("health")}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("database ping failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(healthResponse{
			Success:   false,
			Message:   "database unavailable",
			Timestamp: time.Now().UTC(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(healthResponse{
		Success:   true,
		Message:   "EventHub API is up",
		Timestamp: time.Now().UTC(),
	})
}
