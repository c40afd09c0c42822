package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/apperr"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/period"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

// CandidateSlotInput carries the caller-provided fields of a candidate slot.
type CandidateSlotInput struct {
	Date   time.Time
	Period period.Period
}

// CreateCandidateSlot registers a candidate's availability on a future working
// date. Candidates are identified by the email their identity token carries.
func (s *Service) CreateCandidateSlot(ctx context.Context, email string, in CandidateSlotInput) (model.CandidateSlot, error) {
	var created model.CandidateSlot
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.validateCandidateSlot(in); err != nil {
			return err
		}
		created = model.CandidateSlot{
			ID:     s.newID(),
			Email:  email,
			Date:   dateOnly(in.Date),
			Period: in.Period,
		}
		return s.cslots.SaveCandidateSlot(ctx, created)
	})
	if err != nil {
		return model.CandidateSlot{}, err
	}
	return created, nil
}

// UpdateCandidateSlot overwrites an unbooked candidate slot after re-running
// the creation validation.
func (s *Service) UpdateCandidateSlot(ctx context.Context, email string, slotID uuid.UUID, in CandidateSlotInput) (model.CandidateSlot, error) {
	var updated model.CandidateSlot
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		slot, err := s.candidateSlotOwnedBy(ctx, email, slotID)
		if err != nil {
			return err
		}
		booked, err := s.bookings.BookingsByCandidateSlot(ctx, slotID)
		if err != nil {
			return fmt.Errorf("load bookings for candidate slot: %w", err)
		}
		if len(booked) > 0 {
			return apperr.Invalid(apperr.CodeBookingAlreadyMade,
				"candidate slot %s already has a booking and cannot be changed", slotID)
		}
		if err := s.validateCandidateSlot(in); err != nil {
			return err
		}
		updated = model.CandidateSlot{
			ID:     slot.ID,
			Email:  slot.Email,
			Date:   dateOnly(in.Date),
			Period: in.Period,
		}
		return s.cslots.SaveCandidateSlot(ctx, updated)
	})
	if err != nil {
		return model.CandidateSlot{}, err
	}
	return updated, nil
}

// DeleteCandidateSlot removes the slot unconditionally once it is found.
// Booking integrity is the allocator's concern, not this layer's.
func (s *Service) DeleteCandidateSlot(ctx context.Context, email string, slotID uuid.UUID) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.candidateSlotOwnedBy(ctx, email, slotID); err != nil {
			return err
		}
		return s.cslots.DeleteCandidateSlot(ctx, slotID)
	})
}

func (s *Service) candidateSlotOwnedBy(ctx context.Context, email string, slotID uuid.UUID) (model.CandidateSlot, error) {
	slot, err := s.cslots.CandidateSlotByID(ctx, slotID)
	if errors.Is(err, model.ErrNotFound) || (err == nil && slot.Email != email) {
		return model.CandidateSlot{}, apperr.NotFound(apperr.CodeCandidateSlotNotFound,
			"candidate slot %s not found", slotID)
	}
	if err != nil {
		return model.CandidateSlot{}, fmt.Errorf("load candidate slot: %w", err)
	}
	return slot, nil
}

func (s *Service) validateCandidateSlot(in CandidateSlotInput) error {
	date := dateOnly(in.Date)
	if date.Before(s.weeks.Today()) {
		return apperr.Invalid(apperr.CodeSlotDateInPast,
			"slot date %s is in the past", date.Format("2006-01-02"))
	}
	if !week.IsWorkingDay(date.Weekday()) {
		return apperr.Invalid(apperr.CodeNotWorkingDayOfWeek,
			"%s is not a working day", date.Weekday())
	}
	return period.Validate(in.Period)
}
