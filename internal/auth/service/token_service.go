package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/secret"
	autherror "github.com/AnthoniusHendriyanto/eventhub-auth/internal/errors"
	"github.com/AnthoniusHendriyanto/eventhub-auth/pkg/constant"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is what a token asserts about its holder.
type Identity struct {
	UserID    int64
	Email     string
	FirstName string
	LastName  string
	Role      string
}

type TokenGenerator interface {
	Generate(id Identity, now time.Time) (string, time.Time, error)
	Verify(tokenString string, now time.Time) (*JWTCustomClaims, error)
}

type TokenService struct {
	key         secret.Key
	TokenExpiry time.Duration
	Issuer      string
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

func NewTokenService(key secret.Key, expiry time.Duration, issuer string) *TokenService {
	if expiry <= 0 {
		expiry = constant.DefaultTokenExpiry
	}
	return &TokenService{
		key:         key,
		TokenExpiry: expiry,
		Issuer:      issuer,
	}
}

// Generate signs an HS256 token for id, issued at now and expiring after
// TokenExpiry. It returns the token and its expiry time.
func (ts *TokenService) Generate(id Identity, now time.Time) (string, time.Time, error) {
	if ts.key.IsZero() {
		return "", time.Time{}, secret.ErrEmptySecret
	}

	expiresAt := now.Add(ts.TokenExpiry)
	claims := JWTCustomClaims{
		UserID:    id.UserID,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Role:      id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			Issuer:    ts.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.key.Bytes())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, expiresAt, nil
}

// Verify checks the signature first and only then the time claims, judged
// at now. A token that fails the signature check is reported as
// ErrInvalidToken whatever else is wrong with it; ErrTokenExpired is only
// returned for authentic tokens.
func (ts *TokenService) Verify(tokenString string, now time.Time) (*JWTCustomClaims, error) {
	if ts.key.IsZero() {
		return nil, autherror.ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if ts.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(ts.Issuer))
	}

	claims := &JWTCustomClaims{}
	token, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.key.Bytes(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherror.ErrTokenExpired
		}
		return nil, autherror.ErrInvalidToken
	}

	if !token.Valid || claims.UserID <= 0 {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}
