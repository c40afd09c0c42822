package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/libs/db"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

type InterviewerSlotRepository struct {
	pool *db.Pool
}

func NewInterviewerSlotRepository(pool *db.Pool) *InterviewerSlotRepository {
	return &InterviewerSlotRepository{pool: pool}
}

const interviewerSlotColumns = `id, interviewer_id, week_year, week_num, day_of_week, start_minute, end_minute`

func scanInterviewerSlot(row interface{ Scan(...any) error }) (model.InterviewerSlot, error) {
	var s model.InterviewerSlot
	var day int
	err := row.Scan(&s.ID, &s.InterviewerID, &s.Week.Year, &s.Week.Num, &day, &s.Period.From, &s.Period.To)
	if err != nil {
		return model.InterviewerSlot{}, err
	}
	s.DayOfWeek = time.Weekday(day)
	return s, nil
}

func (r *InterviewerSlotRepository) InterviewerSlotByID(ctx context.Context, id uuid.UUID) (model.InterviewerSlot, error) {
	row := runner(ctx, r.pool).QueryRow(ctx, `
		SELECT `+interviewerSlotColumns+`
		FROM interviewer_slots
		WHERE id = $1
	`, id)
	s, err := scanInterviewerSlot(row)
	if err != nil {
		return model.InterviewerSlot{}, mapNoRows(err)
	}
	return s, nil
}

// InterviewerSlotsByOwnerWeekDay locks the returned rows so a concurrent
// request validating against the same interviewer+week+day serializes behind
// this transaction.
func (r *InterviewerSlotRepository) InterviewerSlotsByOwnerWeekDay(ctx context.Context, interviewerID uuid.UUID, wk week.Week, day time.Weekday) ([]model.InterviewerSlot, error) {
	rows, err := runner(ctx, r.pool).Query(ctx, `
		SELECT `+interviewerSlotColumns+`
		FROM interviewer_slots
		WHERE interviewer_id = $1 AND week_year = $2 AND week_num = $3 AND day_of_week = $4
		ORDER BY start_minute
		FOR UPDATE
	`, interviewerID, wk.Year, wk.Num, int(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInterviewerSlots(rows)
}

func (r *InterviewerSlotRepository) InterviewerSlotsByWeek(ctx context.Context, wk week.Week) ([]model.InterviewerSlot, error) {
	rows, err := runner(ctx, r.pool).Query(ctx, `
		SELECT `+interviewerSlotColumns+`
		FROM interviewer_slots
		WHERE week_year = $1 AND week_num = $2
		ORDER BY day_of_week, start_minute
	`, wk.Year, wk.Num)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInterviewerSlots(rows)
}

func collectInterviewerSlots(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]model.InterviewerSlot, error) {
	var slots []model.InterviewerSlot
	for rows.Next() {
		s, err := scanInterviewerSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *InterviewerSlotRepository) SaveInterviewerSlot(ctx context.Context, s model.InterviewerSlot) error {
	_, err := runner(ctx, r.pool).Exec(ctx, `
		INSERT INTO interviewer_slots
			(id, interviewer_id, week_year, week_num, day_of_week, start_minute, end_minute)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET week_year = EXCLUDED.week_year,
			week_num = EXCLUDED.week_num,
			day_of_week = EXCLUDED.day_of_week,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute,
			updated_at = now()
	`, s.ID, s.InterviewerID, s.Week.Year, s.Week.Num, int(s.DayOfWeek), s.Period.From, s.Period.To)
	return err
}
