package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/apperr"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/outbox"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/period"
)

// BookingDuration is the exact length of every interview booking.
const BookingDuration = 90 // minutes

// BookingInput carries the caller-provided fields of a booking.
type BookingInput struct {
	InterviewerSlotID uuid.UUID
	CandidateSlotID   uuid.UUID
	Period            period.Period
	Subject           string
	Description       string
}

// CreateBooking matches an interviewer slot with a candidate slot. The whole
// validation pipeline and the write commit as one transaction; the first
// violated rule aborts the attempt.
func (s *Service) CreateBooking(ctx context.Context, in BookingInput) (model.Booking, error) {
	var booking model.Booking
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		b, err := s.allocateBooking(ctx, s.newID(), in, uuid.Nil)
		if err != nil {
			return err
		}
		if err := s.bookings.SaveBooking(ctx, b); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		booking = b
		return s.appendBookingEvent(ctx, outbox.EventBookingCreated, b)
	})
	if err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

// UpdateBooking re-runs the allocation pipeline against the new data, with the
// booking being replaced excluded from the overlap and count checks, then
// overwrites the stored record.
func (s *Service) UpdateBooking(ctx context.Context, bookingID uuid.UUID, in BookingInput) (model.Booking, error) {
	var booking model.Booking
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.bookingByID(ctx, bookingID); err != nil {
			return err
		}
		b, err := s.allocateBooking(ctx, bookingID, in, bookingID)
		if err != nil {
			return err
		}
		if err := s.bookings.SaveBooking(ctx, b); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		booking = b
		return s.appendBookingEvent(ctx, outbox.EventBookingUpdated, b)
	})
	if err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

// DeleteBooking removes the booking. The referenced slots stay untouched; once
// no booking references them they become editable again.
func (s *Service) DeleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		b, err := s.bookingByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := s.bookings.DeleteBooking(ctx, bookingID); err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}
		return s.appendBookingEvent(ctx, outbox.EventBookingCancelled, b)
	})
}

// allocateBooking runs the full admission pipeline and returns the booking
// record to persist. exclude removes the booking being replaced from the
// candidate-booked, overlap, and limit-count checks.
func (s *Service) allocateBooking(ctx context.Context, id uuid.UUID, in BookingInput, exclude uuid.UUID) (model.Booking, error) {
	islot, err := s.islots.InterviewerSlotByID(ctx, in.InterviewerSlotID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Booking{}, apperr.NotFound(apperr.CodeInterviewerSlotNotFound,
			"interviewer slot %s not found", in.InterviewerSlotID)
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("load interviewer slot: %w", err)
	}

	if err := s.checkBookingLimit(ctx, islot, exclude); err != nil {
		return model.Booking{}, err
	}

	cslot, err := s.cslots.CandidateSlotByID(ctx, in.CandidateSlotID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Booking{}, apperr.NotFound(apperr.CodeCandidateSlotNotFound,
			"candidate slot %s not found", in.CandidateSlotID)
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("load candidate slot: %w", err)
	}

	if int(in.Period.Duration().Minutes()) != BookingDuration {
		return model.Booking{}, apperr.Invalid(apperr.CodeWrongBookingDuration,
			"booking must last exactly %d minutes, got %s", BookingDuration, in.Period)
	}
	if err := period.Validate(in.Period); err != nil {
		return model.Booking{}, err
	}

	if !cslot.Period.Contains(in.Period) {
		return model.Booking{}, apperr.Invalid(apperr.CodeBookingOutOfBoundsCandidate,
			"booking %s exceeds candidate slot %s", in.Period, cslot.Period)
	}
	if !islot.Period.Contains(in.Period) {
		return model.Booking{}, apperr.Invalid(apperr.CodeBookingOutOfBoundsInterviewer,
			"booking %s exceeds interviewer slot %s", in.Period, islot.Period)
	}

	existing, err := s.bookings.BookingsByCandidateSlot(ctx, cslot.ID)
	if err != nil {
		return model.Booking{}, fmt.Errorf("load candidate slot bookings: %w", err)
	}
	for _, other := range existing {
		if other.ID != exclude {
			return model.Booking{}, apperr.Invalid(apperr.CodeCandidateSlotBooked,
				"candidate slot %s already has a booking", cslot.ID)
		}
	}

	if !islot.Week.DateOf(islot.DayOfWeek).Equal(cslot.Date) {
		return model.Booking{}, apperr.Invalid(apperr.CodeDifferentSlotsDates,
			"interviewer slot date %s differs from candidate slot date %s",
			islot.Week.DateOf(islot.DayOfWeek).Format("2006-01-02"),
			cslot.Date.Format("2006-01-02"))
	}

	others, err := s.bookings.BookingsByInterviewerSlot(ctx, islot.ID)
	if err != nil {
		return model.Booking{}, fmt.Errorf("load interviewer slot bookings: %w", err)
	}
	for _, other := range others {
		if other.ID == exclude {
			continue
		}
		if period.Overlaps(other.Period, in.Period) {
			return model.Booking{}, apperr.Invalid(apperr.CodeBookingOverlap,
				"booking %s overlaps existing booking %s", in.Period, other.Period)
		}
	}

	return model.Booking{
		ID:                id,
		InterviewerSlotID: islot.ID,
		CandidateSlotID:   cslot.ID,
		Period:            in.Period,
		Subject:           in.Subject,
		Description:       in.Description,
	}, nil
}

// checkBookingLimit enforces the interviewer's weekly cap. The limit row is
// looked up explicitly by (interviewer, slot week); a limit set for the
// upcoming week does not constrain until that week has started.
func (s *Service) checkBookingLimit(ctx context.Context, islot model.InterviewerSlot, exclude uuid.UUID) error {
	if s.weeks.IsNext(islot.Week) {
		return nil
	}
	limit, err := s.limits.BookingLimitByOwnerWeek(ctx, islot.InterviewerID, islot.Week)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load booking limit: %w", err)
	}
	count, err := s.bookings.CountBookingsForInterviewerWeek(ctx, islot.InterviewerID, islot.Week, exclude)
	if err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}
	if count >= limit.MaxBookings {
		return apperr.Invalid(apperr.CodeBookingLimitExceeded,
			"interviewer %s already has %d of %d bookings in week %s",
			islot.InterviewerID, count, limit.MaxBookings, islot.Week)
	}
	return nil
}

func (s *Service) bookingByID(ctx context.Context, id uuid.UUID) (model.Booking, error) {
	b, err := s.bookings.BookingByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Booking{}, apperr.NotFound(apperr.CodeBookingNotFound, "booking %s not found", id)
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("load booking: %w", err)
	}
	return b, nil
}

// bookingEventPayload is the message body notification-service consumes.
type bookingEventPayload struct {
	BookingID        string `json:"booking_id"`
	Subject          string `json:"subject"`
	Description      string `json:"description"`
	Date             string `json:"date"`
	From             string `json:"from"`
	To               string `json:"to"`
	InterviewerEmail string `json:"interviewer_email"`
	CandidateEmail   string `json:"candidate_email"`
}

func (s *Service) appendBookingEvent(ctx context.Context, eventType string, b model.Booking) error {
	if s.events == nil {
		return nil
	}
	payload := bookingEventPayload{
		BookingID:   b.ID.String(),
		Subject:     b.Subject,
		Description: b.Description,
		From:        b.Period.From.String(),
		To:          b.Period.To.String(),
	}
	// Slot or user rows may be gone by cancellation time; the event still goes
	// out with whatever contact data remains resolvable.
	if islot, err := s.islots.InterviewerSlotByID(ctx, b.InterviewerSlotID); err == nil {
		payload.Date = islot.Week.DateOf(islot.DayOfWeek).Format("2006-01-02")
		if u, err := s.users.UserByID(ctx, islot.InterviewerID); err == nil {
			payload.InterviewerEmail = u.Email
		}
	}
	if cslot, err := s.cslots.CandidateSlotByID(ctx, b.CandidateSlotID); err == nil {
		payload.CandidateEmail = cslot.Email
		if payload.Date == "" {
			payload.Date = cslot.Date.Format("2006-01-02")
		}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	return s.events.Insert(ctx, outbox.Event{
		AggregateType: "booking",
		AggregateID:   b.ID.String(),
		EventType:     eventType,
		Payload:       raw,
	})
}
