package storage

import (
	"context"

	"github.com/planwerk/interviewplanner/libs/db"
)

// Notification is the delivery log row kept for every booking event the
// service processed, one row per recipient.
type Notification struct {
	BookingID string
	EventType string
	Channel   string
	Recipient string
	Subject   string
	Body      string
	Status    string
}

type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, n Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (booking_id, event_type, channel, recipient, subject, body, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.BookingID, n.EventType, n.Channel, n.Recipient, n.Subject, n.Body, n.Status)
	return err
}
