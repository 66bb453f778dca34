package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/eventhub-auth/internal/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const DefaultQueryTimeout = 5 * time.Second

const userColumns = `id, email, COALESCE(password_hash, ''), first_name, last_name, phone, school, role, is_active, created_at, updated_at`

// Querier is satisfied by *pgxpool.Pool. The pool checks a connection out
// for each statement and returns it once the row is scanned or fails.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db      Querier
	timeout time.Duration
}

func NewPostgresRepository(db Querier) *PostgresRepository {
	return NewPostgresRepositoryWithTimeout(db, DefaultQueryTimeout)
}

func NewPostgresRepositoryWithTimeout(db Querier, timeout time.Duration) *PostgresRepository {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &PostgresRepository{db: db, timeout: timeout}
}

// opContext detaches the statement from request cancellation and bounds it
// by the repository's own deadline, which also covers waiting for a pooled
// connection.
func (r *PostgresRepository) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, mapError("get user by email", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError("get user by id", err)
	}

	return user, nil
}

// Create inserts user and fills in the store-assigned ID and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, phone, school, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone, user.School,
		user.Role, user.IsActive).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapError("create user", err)
	}

	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Phone, &u.School, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func mapError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return autherror.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return autherror.ErrEmailAlreadyInUse
		case pgerrcode.TooManyConnections, pgerrcode.CannotConnectNow:
			return fmt.Errorf("%s: %w: %w", op, autherror.ErrResourceUnavailable, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w: %w", op, autherror.ErrResourceUnavailable, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
