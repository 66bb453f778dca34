package handler

import (
	"context"
	"strings"

	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/eventhub-auth/internal/errors"
	"github.com/AnthoniusHendriyanto/eventhub-auth/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ClaimsKey is the c.Locals key holding the verified *service.JWTCustomClaims.
const ClaimsKey = "claims"

type claimsCtxKey struct{}

// RequireAuth admits a request only when it carries a valid bearer token.
// A missing or malformed Authorization header is 401; a token that fails
// verification, expired or not, is 403.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return respondError(c, h.logger, autherror.ErrMissingToken)
		}

		claims, err := h.tokenService.Verify(token, h.now())
		if err != nil {
			h.logger.Debug("token rejected", zap.Error(err), zap.Any("request_id", c.Locals(requestIDKey)))
			return respondError(c, h.logger, err)
		}

		c.Locals(ClaimsKey, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), claimsCtxKey{}, claims))
		return c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constant.DefaultTokenType) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsRune(token, ' ') {
		return "", false
	}
	return token, true
}

// ClaimsFromCtx returns the claims RequireAuth stored for this request.
func ClaimsFromCtx(c *fiber.Ctx) (*service.JWTCustomClaims, bool) {
	claims, ok := c.Locals(ClaimsKey).(*service.JWTCustomClaims)
	return claims, ok && claims != nil
}

// ClaimsFromContext is ClaimsFromCtx for code that only sees the request's
// context.Context.
func ClaimsFromContext(ctx context.Context) (*service.JWTCustomClaims, bool) {
	claims, ok := ctx.Value(claimsCtxKey{}).(*service.JWTCustomClaims)
	return claims, ok && claims != nil
}
