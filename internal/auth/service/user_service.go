package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/dto"
	autherror "github.com/AnthoniusHendriyanto/eventhub-auth/internal/errors"
	"github.com/AnthoniusHendriyanto/eventhub-auth/pkg/constant"
	"go.uber.org/zap"
)

// dummyPassword is hashed when the service is built and verified against
// when a login names an unknown email, so both failure paths pay for one
// hash comparison.
const dummyPassword = "eventhub-timing-equaliser"

type UserService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	hasher       PasswordHasher
	logger       *zap.Logger
	now          func() time.Time
	dummyHash    string
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, hasher PasswordHasher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &UserService{
		repo:         repo,
		tokenService: tokenService,
		hasher:       hasher,
		logger:       logger.Named("user_service"),
		now:          time.Now,
	}

	if hasher != nil {
		h, err := hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Warn("could not prepare dummy hash", zap.Error(err))
		}
		s.dummyHash = h
	}
	return s
}

// WithClock replaces the time source used when issuing tokens.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthOutput, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.School = strings.TrimSpace(input.School)

	if err := dto.Validate(input); err != nil {
		return nil, err
	}
	if len(input.Password) > constant.MaxPasswordLength {
		return nil, autherror.NewValidationError("password", "must be at most 72 bytes")
	}

	_, err := s.repo.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, autherror.ErrEmailAlreadyInUse
	case !errors.Is(err, autherror.ErrUserNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		School:       input.School,
		Role:         constant.DefaultUserRole,
		IsActive:     true,
	}

	// The pre-check above races with concurrent registrations of the same
	// email; the store's unique constraint decides, and Create reports the
	// loser as ErrEmailAlreadyInUse.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, autherror.ErrEmailAlreadyInUse) {
			return nil, autherror.ErrEmailAlreadyInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	out, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return out, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthOutput, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := dto.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, autherror.ErrUserNotFound) {
			s.burnVerification(input.Password)
			return nil, autherror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.PasswordHash == "" {
		s.logger.Error("stored password hash is empty", zap.Int64("user_id", user.ID))
		return nil, autherror.ErrCorruptCredential
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unreadable", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", autherror.ErrCorruptCredential, err)
	}
	if !ok {
		return nil, autherror.ErrInvalidCredentials
	}

	out, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return out, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.ProfileOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, autherror.ErrUserNotFound) {
			return nil, autherror.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	profile := dto.NewProfileOutput(user)
	return &profile, nil
}

func (s *UserService) issue(user *domain.User) (*dto.AuthOutput, error) {
	token, expiresAt, err := s.tokenService.Generate(Identity{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &dto.AuthOutput{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserOutput(user),
	}, nil
}

func (s *UserService) burnVerification(password string) {
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}
