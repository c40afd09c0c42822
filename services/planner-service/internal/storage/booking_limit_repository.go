package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/libs/db"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

type BookingLimitRepository struct {
	pool *db.Pool
}

func NewBookingLimitRepository(pool *db.Pool) *BookingLimitRepository {
	return &BookingLimitRepository{pool: pool}
}

// BookingLimitByOwnerWeek locks the row so limit enforcement and the counted
// booking insert serialize per interviewer per week.
func (r *BookingLimitRepository) BookingLimitByOwnerWeek(ctx context.Context, interviewerID uuid.UUID, wk week.Week) (model.BookingLimit, error) {
	var l model.BookingLimit
	err := runner(ctx, r.pool).QueryRow(ctx, `
		SELECT id, interviewer_id, week_year, week_num, max_bookings
		FROM booking_limits
		WHERE interviewer_id = $1 AND week_year = $2 AND week_num = $3
		FOR UPDATE
	`, interviewerID, wk.Year, wk.Num).Scan(&l.ID, &l.InterviewerID, &l.Week.Year, &l.Week.Num, &l.MaxBookings)
	if err != nil {
		return model.BookingLimit{}, mapNoRows(err)
	}
	return l, nil
}

func (r *BookingLimitRepository) BookingLimitsByOwner(ctx context.Context, interviewerID uuid.UUID) ([]model.BookingLimit, error) {
	rows, err := runner(ctx, r.pool).Query(ctx, `
		SELECT id, interviewer_id, week_year, week_num, max_bookings
		FROM booking_limits
		WHERE interviewer_id = $1
		ORDER BY week_year, week_num
	`, interviewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var limits []model.BookingLimit
	for rows.Next() {
		var l model.BookingLimit
		if err := rows.Scan(&l.ID, &l.InterviewerID, &l.Week.Year, &l.Week.Num, &l.MaxBookings); err != nil {
			return nil, err
		}
		limits = append(limits, l)
	}
	return limits, rows.Err()
}

// SaveBookingLimit upserts on the (interviewer, week) natural key so two racing
// set-limit calls still leave exactly one row.
func (r *BookingLimitRepository) SaveBookingLimit(ctx context.Context, l model.BookingLimit) error {
	_, err := runner(ctx, r.pool).Exec(ctx, `
		INSERT INTO booking_limits (id, interviewer_id, week_year, week_num, max_bookings)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (interviewer_id, week_year, week_num) DO UPDATE
		SET max_bookings = EXCLUDED.max_bookings,
			updated_at = now()
	`, l.ID, l.InterviewerID, l.Week.Year, l.Week.Num, l.MaxBookings)
	return err
}
