package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistahogar/listings/internal/backend"
	"github.com/vistahogar/listings/internal/domain"
)

// passwordResetTTL bounds how long a reset token stays redeemable.
const passwordResetTTL = time.Hour

type userRepository struct {
	gate *backend.Gate
}

// NewUserRepository creates a new user repository
func NewUserRepository(gate *backend.Gate) UserRepository {
	return &userRepository{gate: gate}
}

func (r *userRepository) pool(ctx context.Context) (*pgxpool.Pool, error) {
	client, err := r.gate.WaitForReady(ctx)
	if err != nil {
		return nil, err
	}
	return client.Pool, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return domain.User{}, err
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = domain.UserRoleViewer
	}

	row := pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, password_hash, role, created_at`,
		user.ID, user.Email, user.PasswordHash, string(user.Role))

	var created domain.User
	err = row.Scan(&created.ID, &created.Email, &created.PasswordHash, &created.Role, &created.CreatedAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *userRepository) CountUsers(ctx context.Context) (int64, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return domain.User{}, err
	}

	row := pool.QueryRow(ctx,
		"SELECT id, email, password_hash, role, created_at FROM users WHERE lower(email) = lower($1)", email)
	return scanUser(row, "get user by email")
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return domain.User{}, err
	}

	row := pool.QueryRow(ctx,
		"SELECT id, email, password_hash, role, created_at FROM users WHERE id = $1", id)
	return scanUser(row, "get user")
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	pool, err := r.pool(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, "UPDATE users SET password_hash = $2 WHERE id = $1", id, hash)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) CreateSession(ctx context.Context, session domain.Session) error {
	pool, err := r.pool(ctx)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		"INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)",
		session.Token, session.UserID, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *userRepository) GetSession(ctx context.Context, token string) (domain.Session, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	row := pool.QueryRow(ctx,
		"SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = $1", token)

	var session domain.Session
	err = row.Scan(&session.Token, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (r *userRepository) DeleteSession(ctx context.Context, token string) error {
	pool, err := r.pool(ctx)
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, "DELETE FROM sessions WHERE token = $1", token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *userRepository) CreatePasswordReset(ctx context.Context, token string, userID uuid.UUID) error {
	pool, err := r.pool(ctx)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		"INSERT INTO password_resets (token, user_id, expires_at) VALUES ($1, $2, $3)",
		token, userID, time.Now().Add(passwordResetTTL))
	if err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

// ConsumePasswordReset redeems a reset token exactly once.
func (r *userRepository) ConsumePasswordReset(ctx context.Context, token string) (uuid.UUID, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	row := pool.QueryRow(ctx,
		"DELETE FROM password_resets WHERE token = $1 AND expires_at > now() RETURNING user_id", token)

	var userID uuid.UUID
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("consume password reset: %w", err)
	}
	return userID, nil
}

func scanUser(row pgx.Row, op string) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
