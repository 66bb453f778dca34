package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/domain"
	repo "github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/repository/postgres"
	autherror "github.com/AnthoniusHendriyanto/eventhub-auth/internal/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name", "phone", "school",
	"role", "is_active", "created_at", "updated_at",
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumns).AddRow(
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.School,
		u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
}

func sampleUser() *domain.User {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:           42,
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Phone:        "+33600000000",
		School:       "EFREI",
		Role:         "user",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// TestGetByEmail covers the GetByEmail repository method.
func TestGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	expected := sampleUser()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, email`).
			WithArgs(expected.Email).
			WillReturnRows(userRow(expected))

		user, err := r.GetByEmail(ctx, expected.Email)
		require.NoError(t, err)
		assert.Equal(t, expected, user)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, email`).
			WithArgs(expected.Email).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByEmail(ctx, expected.Email)
		assert.ErrorIs(t, err, autherror.ErrUserNotFound)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, email`).
			WithArgs(expected.Email).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByEmail(ctx, expected.Email)
		require.Error(t, err)
		assert.NotErrorIs(t, err, autherror.ErrUserNotFound)
		assert.NotErrorIs(t, err, autherror.ErrResourceUnavailable)
	})

	t.Run("pool timeout is resource unavailable", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, email`).
			WithArgs(expected.Email).
			WillReturnError(context.DeadlineExceeded)

		_, err := r.GetByEmail(ctx, expected.Email)
		assert.ErrorIs(t, err, autherror.ErrResourceUnavailable)
	})

	t.Run("server refusing connections is resource unavailable", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, email`).
			WithArgs(expected.Email).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.TooManyConnections})

		_, err := r.GetByEmail(ctx, expected.Email)
		assert.ErrorIs(t, err, autherror.ErrResourceUnavailable)
	})

	t.Run("aborted request still completes the lookup", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, email`).
			WithArgs(expected.Email).
			WillReturnRows(userRow(expected))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		user, err := r.GetByEmail(cancelled, expected.Email)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, user.ID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestGetByID covers the GetByID repository method.
func TestGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	expected := sampleUser()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`WHERE id = \$1`).
			WithArgs(expected.ID).
			WillReturnRows(userRow(expected))

		user, err := r.GetByID(ctx, expected.ID)
		require.NoError(t, err)
		assert.Equal(t, expected, user)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByID(ctx, 7)
		assert.ErrorIs(t, err, autherror.ErrUserNotFound)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCreate covers the Create repository method.
func TestCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ctx := context.Background()
	r := repo.NewPostgresRepository(mock)

	newUser := func() *domain.User {
		return &domain.User{
			Email:        "new@example.com",
			PasswordHash: "new-hash",
			FirstName:    "Grace",
			LastName:     "Hopper",
			Phone:        "0102030405",
			School:       "Yale",
			Role:         "user",
			IsActive:     true,
		}
	}

	t.Run("success assigns id and timestamps", func(t *testing.T) {
		u := newUser()
		createdAt := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.School, u.Role, u.IsActive).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(101), createdAt, createdAt))

		err := r.Create(ctx, u)
		require.NoError(t, err)
		assert.Equal(t, int64(101), u.ID)
		assert.Equal(t, createdAt, u.CreatedAt)
		assert.Equal(t, createdAt, u.UpdatedAt)
	})

	t.Run("unique violation is email conflict", func(t *testing.T) {
		u := newUser()
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.School, u.Role, u.IsActive).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

		err := r.Create(ctx, u)
		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
		assert.Zero(t, u.ID)
	})

	t.Run("database error", func(t *testing.T) {
		u := newUser()
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.School, u.Role, u.IsActive).
			WillReturnError(fmt.Errorf("db error"))

		err := r.Create(ctx, u)
		require.Error(t, err)
		assert.NotErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresRepositoryWithTimeout_DefaultsNonPositive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// A zero timeout would make every statement fail immediately.
	r := repo.NewPostgresRepositoryWithTimeout(mock, 0)
	expected := sampleUser()

	mock.ExpectQuery(`SELECT id, email`).
		WithArgs(expected.Email).
		WillReturnRows(userRow(expected))

	_, err = r.GetByEmail(context.Background(), expected.Email)
	assert.NoError(t, err)
}
