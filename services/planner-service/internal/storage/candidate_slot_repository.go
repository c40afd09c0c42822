package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/libs/db"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
)

type CandidateSlotRepository struct {
	pool *db.Pool
}

func NewCandidateSlotRepository(pool *db.Pool) *CandidateSlotRepository {
	return &CandidateSlotRepository{pool: pool}
}

func (r *CandidateSlotRepository) CandidateSlotByID(ctx context.Context, id uuid.UUID) (model.CandidateSlot, error) {
	var s model.CandidateSlot
	err := runner(ctx, r.pool).QueryRow(ctx, `
		SELECT id, email, slot_date, start_minute, end_minute
		FROM candidate_slots
		WHERE id = $1
	`, id).Scan(&s.ID, &s.Email, &s.Date, &s.Period.From, &s.Period.To)
	if err != nil {
		return model.CandidateSlot{}, mapNoRows(err)
	}
	s.Date = s.Date.UTC()
	return s, nil
}

func (r *CandidateSlotRepository) CandidateSlotsByDateRange(ctx context.Context, from, to time.Time) ([]model.CandidateSlot, error) {
	rows, err := runner(ctx, r.pool).Query(ctx, `
		SELECT id, email, slot_date, start_minute, end_minute
		FROM candidate_slots
		WHERE slot_date >= $1 AND slot_date < $2
		ORDER BY slot_date, start_minute
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []model.CandidateSlot
	for rows.Next() {
		var s model.CandidateSlot
		if err := rows.Scan(&s.ID, &s.Email, &s.Date, &s.Period.From, &s.Period.To); err != nil {
			return nil, err
		}
		s.Date = s.Date.UTC()
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *CandidateSlotRepository) SaveCandidateSlot(ctx context.Context, s model.CandidateSlot) error {
	_, err := runner(ctx, r.pool).Exec(ctx, `
		INSERT INTO candidate_slots (id, email, slot_date, start_minute, end_minute)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET slot_date = EXCLUDED.slot_date,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute,
			updated_at = now()
	`, s.ID, s.Email, s.Date, s.Period.From, s.Period.To)
	return err
}

func (r *CandidateSlotRepository) DeleteCandidateSlot(ctx context.Context, id uuid.UUID) error {
	_, err := runner(ctx, r.pool).Exec(ctx, `
		DELETE FROM candidate_slots
		WHERE id = $1
	`, id)
	return err
}
