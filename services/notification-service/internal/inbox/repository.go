package inbox

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/planwerk/interviewplanner/libs/db"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	db execer
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{db: pool}
}

// Record claims an event id. It returns false when the event was already
// processed, keeping redelivered bookings from producing duplicate mail.
func (r *Repository) Record(ctx context.Context, eventID string, eventType string) (bool, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO inbox_events (event_id, event_type)
		VALUES ($1, $2)
	`, eventID, eventType)
	if err == nil {
		return true, nil
	}

	if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
		return false, nil
	}

	return false, err
}
