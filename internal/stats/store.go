package stats

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements Store on PostgreSQL.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a stats store backed by the given pool.
func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

// ApplyAccepted bumps rides_given for the ride owner and rides_taken for
// the passenger in one transaction.
func (s *PgStore) ApplyAccepted(ctx context.Context, ownerID, passengerID int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET rides_given = rides_given + 1 WHERE id=$1`, ownerID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE users SET rides_taken = rides_taken + 1 WHERE id=$1`, passengerID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
