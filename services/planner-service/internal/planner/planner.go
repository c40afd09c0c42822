// Package planner implements the scheduling core: interviewer and candidate
// availability slots, booking allocation, weekly booking limits, the dashboard
// projection, and user role management. Storage, clock, and id generation are
// injected so every rule stays deterministic under test.
package planner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/outbox"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

type UserStore interface {
	UserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	UserByEmail(ctx context.Context, email string) (model.User, error)
	UsersByRole(ctx context.Context, role model.Role) ([]model.User, error)
	SaveUser(ctx context.Context, u model.User) error
}

type InterviewerSlotStore interface {
	InterviewerSlotByID(ctx context.Context, id uuid.UUID) (model.InterviewerSlot, error)
	// InterviewerSlotsByOwnerWeekDay returns the owner's slots for one week+day.
	// Inside a transaction the rows are locked so overlap validation and the
	// subsequent write act as one atomic unit.
	InterviewerSlotsByOwnerWeekDay(ctx context.Context, interviewerID uuid.UUID, wk week.Week, day time.Weekday) ([]model.InterviewerSlot, error)
	InterviewerSlotsByWeek(ctx context.Context, wk week.Week) ([]model.InterviewerSlot, error)
	SaveInterviewerSlot(ctx context.Context, slot model.InterviewerSlot) error
}

type CandidateSlotStore interface {
	CandidateSlotByID(ctx context.Context, id uuid.UUID) (model.CandidateSlot, error)
	CandidateSlotsByDateRange(ctx context.Context, from, to time.Time) ([]model.CandidateSlot, error)
	SaveCandidateSlot(ctx context.Context, slot model.CandidateSlot) error
	DeleteCandidateSlot(ctx context.Context, id uuid.UUID) error
}

type BookingStore interface {
	BookingByID(ctx context.Context, id uuid.UUID) (model.Booking, error)
	BookingsByInterviewerSlot(ctx context.Context, slotID uuid.UUID) ([]model.Booking, error)
	BookingsByCandidateSlot(ctx context.Context, slotID uuid.UUID) ([]model.Booking, error)
	// CountBookingsForInterviewerWeek counts live bookings against the
	// interviewer's slots of one week, skipping exclude (uuid.Nil skips none).
	CountBookingsForInterviewerWeek(ctx context.Context, interviewerID uuid.UUID, wk week.Week, exclude uuid.UUID) (int, error)
	SaveBooking(ctx context.Context, b model.Booking) error
	DeleteBooking(ctx context.Context, id uuid.UUID) error
}

type BookingLimitStore interface {
	BookingLimitByOwnerWeek(ctx context.Context, interviewerID uuid.UUID, wk week.Week) (model.BookingLimit, error)
	BookingLimitsByOwner(ctx context.Context, interviewerID uuid.UUID) ([]model.BookingLimit, error)
	SaveBookingLimit(ctx context.Context, l model.BookingLimit) error
}

// EventStore appends domain events to the transactional outbox.
type EventStore interface {
	Insert(ctx context.Context, evt outbox.Event) error
}

// TxManager runs fn atomically: every read fn performs sees a consistent view
// and its writes commit as one unit or not at all.
type TxManager interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTx runs fn without any transactional boundary.
type NopTx struct{}

func (NopTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	users    UserStore
	islots   InterviewerSlotStore
	cslots   CandidateSlotStore
	bookings BookingStore
	limits   BookingLimitStore
	events   EventStore
	tx       TxManager
	weeks    *week.Calculator
	newID    func() uuid.UUID
}

type Deps struct {
	Users            UserStore
	InterviewerSlots InterviewerSlotStore
	CandidateSlots   CandidateSlotStore
	Bookings         BookingStore
	Limits           BookingLimitStore
	Events           EventStore
	Tx               TxManager
	Weeks            *week.Calculator
	NewID            func() uuid.UUID
}

func New(d Deps) *Service {
	if d.Tx == nil {
		d.Tx = NopTx{}
	}
	if d.Weeks == nil {
		d.Weeks = week.NewCalculator(nil)
	}
	if d.NewID == nil {
		d.NewID = uuid.New
	}
	return &Service{
		users:    d.Users,
		islots:   d.InterviewerSlots,
		cslots:   d.CandidateSlots,
		bookings: d.Bookings,
		limits:   d.Limits,
		events:   d.Events,
		tx:       d.Tx,
		weeks:    d.Weeks,
		newID:    d.NewID,
	}
}

// Weeks exposes the calculator for callers that only need week arithmetic.
func (s *Service) Weeks() *week.Calculator {
	return s.weeks
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
