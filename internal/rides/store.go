package rides

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists ride offers.
type Store interface {
	UserIDByUsername(ctx context.Context, username string) (int64, error)
	Insert(ctx context.Context, ownerID int64, origin, destination string, price int64) (*Ride, error)
	GetByID(ctx context.Context, id int64) (*Ride, error)
	List(ctx context.Context) ([]Ride, error)
}

// PgStore implements Store on PostgreSQL.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a ride store backed by the given pool.
func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

// UserIDByUsername resolves an authenticated username to its numeric id.
func (s *PgStore) UserIDByUsername(ctx context.Context, username string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE username=$1`, username).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return id, nil
}

// Insert persists a new offer and returns it with the assigned id.
func (s *PgStore) Insert(ctx context.Context, ownerID int64, origin, destination string, price int64) (*Ride, error) {
	var r Ride
	err := s.db.QueryRow(ctx,
		`INSERT INTO rides (user_id, origin, destination, price) VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at`,
		ownerID, origin, destination, price).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.OwnerID = ownerID
	r.Origin = origin
	r.Destination = destination
	r.Price = price
	err = s.db.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, ownerID).Scan(&r.Owner)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByID fetches a single offer joined with its owner's username.
func (s *PgStore) GetByID(ctx context.Context, id int64) (*Ride, error) {
	var r Ride
	err := s.db.QueryRow(ctx,
		`SELECT r.id, r.user_id, u.username, r.origin, r.destination, r.price, r.created_at
		 FROM rides r JOIN users u ON u.id = r.user_id
		 WHERE r.id=$1`, id).
		Scan(&r.ID, &r.OwnerID, &r.Owner, &r.Origin, &r.Destination, &r.Price, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return &r, nil
}

// List returns every offer, ordered by id ascending.
func (s *PgStore) List(ctx context.Context) ([]Ride, error) {
	rows, err := s.db.Query(ctx,
		`SELECT r.id, r.user_id, u.username, r.origin, r.destination, r.price, r.created_at
		 FROM rides r JOIN users u ON u.id = r.user_id
		 ORDER BY r.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ride
	for rows.Next() {
		var r Ride
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Owner, &r.Origin, &r.Destination, &r.Price, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
