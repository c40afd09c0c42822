package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/libs/db"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

type BookingRepository struct {
	pool *db.Pool
}

func NewBookingRepository(pool *db.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, interviewer_slot_id, candidate_slot_id, start_minute, end_minute, subject, description`

func (r *BookingRepository) BookingByID(ctx context.Context, id uuid.UUID) (model.Booking, error) {
	var b model.Booking
	err := runner(ctx, r.pool).QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, id).Scan(&b.ID, &b.InterviewerSlotID, &b.CandidateSlotID, &b.Period.From, &b.Period.To, &b.Subject, &b.Description)
	if err != nil {
		return model.Booking{}, mapNoRows(err)
	}
	return b, nil
}

// BookingsByInterviewerSlot locks the returned rows so overlap validation and
// the subsequent insert serialize against concurrent booking attempts on the
// same interviewer slot.
func (r *BookingRepository) BookingsByInterviewerSlot(ctx context.Context, slotID uuid.UUID) ([]model.Booking, error) {
	return r.bookingsWhere(ctx, `interviewer_slot_id = $1`, slotID)
}

func (r *BookingRepository) BookingsByCandidateSlot(ctx context.Context, slotID uuid.UUID) ([]model.Booking, error) {
	return r.bookingsWhere(ctx, `candidate_slot_id = $1`, slotID)
}

func (r *BookingRepository) bookingsWhere(ctx context.Context, where string, arg any) ([]model.Booking, error) {
	rows, err := runner(ctx, r.pool).Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE `+where+`
		ORDER BY start_minute
		FOR UPDATE
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.InterviewerSlotID, &b.CandidateSlotID, &b.Period.From, &b.Period.To, &b.Subject, &b.Description); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CountBookingsForInterviewerWeek derives the interviewer's live booking count
// for one week. exclude skips the booking being replaced; uuid.Nil skips none.
func (r *BookingRepository) CountBookingsForInterviewerWeek(ctx context.Context, interviewerID uuid.UUID, wk week.Week, exclude uuid.UUID) (int, error) {
	var count int
	err := runner(ctx, r.pool).QueryRow(ctx, `
		SELECT count(*)
		FROM bookings b
		JOIN interviewer_slots s ON s.id = b.interviewer_slot_id
		WHERE s.interviewer_id = $1
			AND s.week_year = $2
			AND s.week_num = $3
			AND b.id <> $4
	`, interviewerID, wk.Year, wk.Num, exclude).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingRepository) SaveBooking(ctx context.Context, b model.Booking) error {
	_, err := runner(ctx, r.pool).Exec(ctx, `
		INSERT INTO bookings
			(id, interviewer_slot_id, candidate_slot_id, start_minute, end_minute, subject, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET interviewer_slot_id = EXCLUDED.interviewer_slot_id,
			candidate_slot_id = EXCLUDED.candidate_slot_id,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute,
			subject = EXCLUDED.subject,
			description = EXCLUDED.description,
			updated_at = now()
	`, b.ID, b.InterviewerSlotID, b.CandidateSlotID, b.Period.From, b.Period.To, b.Subject, b.Description)
	return err
}

func (r *BookingRepository) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	_, err := runner(ctx, r.pool).Exec(ctx, `
		DELETE FROM bookings
		WHERE id = $1
	`, id)
	return err
}
