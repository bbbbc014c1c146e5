package requests

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists ride requests.
type Store interface {
	UserIDByUsername(ctx context.Context, username string) (int64, error)
	RideOwnerID(ctx context.Context, rideID int64) (int64, error)
	Insert(ctx context.Context, rideID, passengerID int64) (*RideRequest, error)
	GetByID(ctx context.Context, requestID int64) (*RideRequest, error)
	ListByRide(ctx context.Context, rideID int64) ([]RideRequest, error)
	ResolveIfPending(ctx context.Context, requestID int64, status string) (bool, error)
}

// PgStore implements Store on PostgreSQL.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a request store backed by the given pool.
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

// RideOwnerID returns the id of the user that published the ride.
func (s *PgStore) RideOwnerID(ctx context.Context, rideID int64) (int64, error) {
	var ownerID int64
	err := s.db.QueryRow(ctx, `SELECT user_id FROM rides WHERE id=$1`, rideID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrRideNotFound
		}
		return 0, err
	}
	return ownerID, nil
}

// Insert creates a request in PENDING state and returns it.
func (s *PgStore) Insert(ctx context.Context, rideID, passengerID int64) (*RideRequest, error) {
	req := RideRequest{RideID: rideID, PassengerID: passengerID, Status: StatusPending}
	err := s.db.QueryRow(ctx,
		`INSERT INTO riderequests (ride_id, passenger_id) VALUES ($1,$2)
		 RETURNING id, created_at`,
		rideID, passengerID).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	err = s.db.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, passengerID).Scan(&req.Passenger)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByID fetches a single request joined with its passenger's username.
func (s *PgStore) GetByID(ctx context.Context, requestID int64) (*RideRequest, error) {
	var req RideRequest
	err := s.db.QueryRow(ctx,
		`SELECT rq.id, rq.ride_id, rq.passenger_id, u.username, rq.status, rq.created_at
		 FROM riderequests rq JOIN users u ON u.id = rq.passenger_id
		 WHERE rq.id=$1`, requestID).
		Scan(&req.ID, &req.RideID, &req.PassengerID, &req.Passenger, &req.Status, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// ListByRide returns all requests for a ride, ordered by id ascending.
func (s *PgStore) ListByRide(ctx context.Context, rideID int64) ([]RideRequest, error) {
	rows, err := s.db.Query(ctx,
		`SELECT rq.id, rq.ride_id, rq.passenger_id, u.username, rq.status, rq.created_at
		 FROM riderequests rq JOIN users u ON u.id = rq.passenger_id
		 WHERE rq.ride_id=$1
		 ORDER BY rq.id ASC`, rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RideRequest
	for rows.Next() {
		var req RideRequest
		if err := rows.Scan(&req.ID, &req.RideID, &req.PassengerID, &req.Passenger, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// ResolveIfPending moves a request to a terminal state with a single
// conditional update. It reports false when no row was affected, which
// means the request was already resolved (or does not exist) — two
// concurrent resolutions can never both win.
func (s *PgStore) ResolveIfPending(ctx context.Context, requestID int64, status string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE riderequests SET status=$1 WHERE id=$2 AND status=$3`,
		status, requestID, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
