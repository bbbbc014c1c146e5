package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, user *User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// PgUserStore implements UserStore on PostgreSQL.
type PgUserStore struct {
	db *pgxpool.Pool
}

// NewPgUserStore creates a user store backed by the given pool.
func NewPgUserStore(db *pgxpool.Pool) *PgUserStore {
	return &PgUserStore{db: db}
}

// Create inserts a new user and returns its id. A duplicate username
// surfaces as ErrUsernameTaken.
func (s *PgUserStore) Create(ctx context.Context, user *User) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, email) VALUES ($1,$2,$3) RETURNING id`,
		user.Username, user.PasswordHash, user.Email).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	return id, nil
}

// GetByUsername fetches a user by unique username.
func (s *PgUserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, password_hash, email, rides_taken, rides_given, created_at
		 FROM users WHERE username=$1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.RidesTaken, &u.RidesGiven, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
