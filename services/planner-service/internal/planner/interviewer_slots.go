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

// InterviewerSlotInput carries the caller-provided fields of an interviewer slot.
type InterviewerSlotInput struct {
	Week      week.Week
	DayOfWeek time.Weekday
	Period    period.Period
}

// CreateInterviewerSlot registers availability for the week after the current
// one. The overlap check and the write run inside one transaction so two racing
// requests cannot both claim the same interval.
func (s *Service) CreateInterviewerSlot(ctx context.Context, interviewerID uuid.UUID, in InterviewerSlotInput) (model.InterviewerSlot, error) {
	var created model.InterviewerSlot
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.requireInterviewer(ctx, interviewerID); err != nil {
			return err
		}
		if !s.weeks.IsNext(in.Week) {
			return apperr.Invalid(apperr.CodeNotNextWeekNumber,
				"slots can only be created for week %s", s.weeks.Next())
		}
		if err := s.validateInterviewerSlot(ctx, interviewerID, in, uuid.Nil); err != nil {
			return err
		}
		created = model.InterviewerSlot{
			ID:            s.newID(),
			InterviewerID: interviewerID,
			Week:          in.Week,
			DayOfWeek:     in.DayOfWeek,
			Period:        in.Period,
		}
		return s.islots.SaveInterviewerSlot(ctx, created)
	})
	if err != nil {
		return model.InterviewerSlot{}, err
	}
	return created, nil
}

// UpdateInterviewerSlot replaces an unbooked slot's fields after re-running the
// creation validation. It carries no week restriction; coordinators use it to
// correct slots of any week.
func (s *Service) UpdateInterviewerSlot(ctx context.Context, interviewerID, slotID uuid.UUID, in InterviewerSlotInput) (model.InterviewerSlot, error) {
	return s.updateInterviewerSlot(ctx, interviewerID, slotID, in, false)
}

// UpdateInterviewerSlotForNextWeek is the interviewer-facing update: identical
// to UpdateInterviewerSlot but the new week must be the next week.
func (s *Service) UpdateInterviewerSlotForNextWeek(ctx context.Context, interviewerID, slotID uuid.UUID, in InterviewerSlotInput) (model.InterviewerSlot, error) {
	return s.updateInterviewerSlot(ctx, interviewerID, slotID, in, true)
}

func (s *Service) updateInterviewerSlot(ctx context.Context, interviewerID, slotID uuid.UUID, in InterviewerSlotInput, nextWeekOnly bool) (model.InterviewerSlot, error) {
	var updated model.InterviewerSlot
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		slot, err := s.islots.InterviewerSlotByID(ctx, slotID)
		if errors.Is(err, model.ErrNotFound) || (err == nil && slot.InterviewerID != interviewerID) {
			return apperr.NotFound(apperr.CodeInterviewerSlotNotFound,
				"interviewer slot %s not found", slotID)
		}
		if err != nil {
			return fmt.Errorf("load interviewer slot: %w", err)
		}
		booked, err := s.bookings.BookingsByInterviewerSlot(ctx, slotID)
		if err != nil {
			return fmt.Errorf("load bookings for slot: %w", err)
		}
		if len(booked) > 0 {
			return apperr.Invalid(apperr.CodeBookingAlreadyMade,
				"slot %s already has a booking and cannot be changed", slotID)
		}
		if nextWeekOnly && !s.weeks.IsNext(in.Week) {
			return apperr.Invalid(apperr.CodeNotNextWeekNumber,
				"slots can only be moved within week %s", s.weeks.Next())
		}
		if err := s.validateInterviewerSlot(ctx, interviewerID, in, slotID); err != nil {
			return err
		}
		updated = model.InterviewerSlot{
			ID:            slot.ID,
			InterviewerID: slot.InterviewerID,
			Week:          in.Week,
			DayOfWeek:     in.DayOfWeek,
			Period:        in.Period,
		}
		return s.islots.SaveInterviewerSlot(ctx, updated)
	})
	if err != nil {
		return model.InterviewerSlot{}, err
	}
	return updated, nil
}

// validateInterviewerSlot applies the day, period, and overlap rules shared by
// creation and update. exclude removes the slot being replaced from the overlap
// set; uuid.Nil excludes nothing.
func (s *Service) validateInterviewerSlot(ctx context.Context, interviewerID uuid.UUID, in InterviewerSlotInput, exclude uuid.UUID) error {
	if !week.IsWorkingDay(in.DayOfWeek) {
		return apperr.Invalid(apperr.CodeNotWorkingDayOfWeek,
			"%s is not a working day", in.DayOfWeek)
	}
	if err := period.Validate(in.Period); err != nil {
		return err
	}
	existing, err := s.islots.InterviewerSlotsByOwnerWeekDay(ctx, interviewerID, in.Week, in.DayOfWeek)
	if err != nil {
		return fmt.Errorf("load slots for overlap check: %w", err)
	}
	for _, other := range existing {
		if other.ID == exclude {
			continue
		}
		if period.Overlaps(other.Period, in.Period) {
			return apperr.Invalid(apperr.CodeOverlappingPeriod,
				"period %s overlaps existing slot %s", in.Period, other.Period)
		}
	}
	return nil
}

func (s *Service) requireInterviewer(ctx context.Context, interviewerID uuid.UUID) error {
	u, err := s.users.UserByID(ctx, interviewerID)
	if errors.Is(err, model.ErrNotFound) || (err == nil && u.Role != model.RoleInterviewer) {
		return apperr.NotFound(apperr.CodeInterviewerNotFound,
			"interviewer %s not found", interviewerID)
	}
	if err != nil {
		return fmt.Errorf("load interviewer: %w", err)
	}
	return nil
}
