package handler

import (
	"time"

	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/eventhub-auth/internal/errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
	logger       *zap.Logger
	now          func() time.Time
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		logger:       logger.Named("auth_handler"),
		now:          time.Now,
	}
}

// WithClock replaces the time source used to judge token expiry.
func (h *AuthHandler) WithClock(now func() time.Time) *AuthHandler {
	h.now = now
	return h
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	out, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return success(c, fiber.StatusCreated, "Registration successful", out)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	out, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return success(c, fiber.StatusOK, "Login successful", out)
}

// Profile must be mounted behind RequireAuth.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims, ok := ClaimsFromCtx(c)
	if !ok {
		return respondError(c, h.logger, autherror.ErrMissingToken)
	}

	profile, err := h.userService.GetProfile(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return success(c, fiber.StatusOK, "", profile)
}
