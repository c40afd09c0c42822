package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/apperr"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

// SetNextWeekBookingLimit caps the interviewer's bookings for the upcoming
// week. Setting it twice overwrites the cap in place; one row exists per
// interviewer per week.
func (s *Service) SetNextWeekBookingLimit(ctx context.Context, interviewerID uuid.UUID, wk week.Week, maxBookings int) (model.BookingLimit, error) {
	var limit model.BookingLimit
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.requireInterviewer(ctx, interviewerID); err != nil {
			return err
		}
		if !s.weeks.IsNext(wk) {
			return apperr.Invalid(apperr.CodeNotNextWeekNumber,
				"booking limits can only be set for week %s", s.weeks.Next())
		}
		if maxBookings < 1 {
			return apperr.Invalid(apperr.CodeInvalidBookingLimit,
				"booking limit must be at least 1, got %d", maxBookings)
		}
		existing, err := s.limits.BookingLimitByOwnerWeek(ctx, interviewerID, wk)
		switch {
		case errors.Is(err, model.ErrNotFound):
			limit = model.BookingLimit{
				ID:            s.newID(),
				InterviewerID: interviewerID,
				Week:          wk,
				MaxBookings:   maxBookings,
			}
		case err != nil:
			return fmt.Errorf("load booking limit: %w", err)
		default:
			existing.MaxBookings = maxBookings
			limit = existing
		}
		return s.limits.SaveBookingLimit(ctx, limit)
	})
	if err != nil {
		return model.BookingLimit{}, err
	}
	return limit, nil
}

// BookingLimits lists the interviewer's limits with their live booking counts.
func (s *Service) BookingLimits(ctx context.Context, interviewerID uuid.UUID) ([]model.LimitUsage, error) {
	if err := s.requireInterviewer(ctx, interviewerID); err != nil {
		return nil, err
	}
	rows, err := s.limits.BookingLimitsByOwner(ctx, interviewerID)
	if err != nil {
		return nil, fmt.Errorf("load booking limits: %w", err)
	}
	usages := make([]model.LimitUsage, 0, len(rows))
	for _, l := range rows {
		count, err := s.bookings.CountBookingsForInterviewerWeek(ctx, interviewerID, l.Week, uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("count bookings for week %s: %w", l.Week, err)
		}
		usages = append(usages, model.LimitUsage{Limit: l, CurrentBookings: count})
	}
	return usages, nil
}
