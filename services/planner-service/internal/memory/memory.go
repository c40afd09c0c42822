// Package memory implements the planner stores in process memory for tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/outbox"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

// Store backs every planner store interface with maps guarded by one mutex;
// InTx serializes whole operations the way the database transaction does in
// production.
type Store struct {
	mu sync.Mutex

	users            map[uuid.UUID]model.User
	interviewerSlots map[uuid.UUID]model.InterviewerSlot
	candidateSlots   map[uuid.UUID]model.CandidateSlot
	bookings         map[uuid.UUID]model.Booking
	limits           map[uuid.UUID]model.BookingLimit

	Events []outbox.Event
}

var (
	_ planner.UserStore            = (*Store)(nil)
	_ planner.InterviewerSlotStore = (*Store)(nil)
	_ planner.CandidateSlotStore   = (*Store)(nil)
	_ planner.BookingStore         = (*Store)(nil)
	_ planner.BookingLimitStore    = (*Store)(nil)
	_ planner.EventStore           = (*Store)(nil)
	_ planner.TxManager            = (*Store)(nil)
)

func New() *Store {
	return &Store{
		users:            map[uuid.UUID]model.User{},
		interviewerSlots: map[uuid.UUID]model.InterviewerSlot{},
		candidateSlots:   map[uuid.UUID]model.CandidateSlot{},
		bookings:         map[uuid.UUID]model.Booking{},
		limits:           map[uuid.UUID]model.BookingLimit{},
	}
}

// InTx serializes the whole operation under the store mutex. The per-method
// locking below is re-entrant safe because methods run lock-free when called
// inside InTx.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, txCtxKey{}, true))
}

type txCtxKey struct{}

func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txCtxKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// --- UserStore ---

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	defer s.lock(ctx)()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, error) {
	defer s.lock(ctx)()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *Store) UsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	defer s.lock(ctx)()
	var users []model.User
	for _, u := range s.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *Store) SaveUser(ctx context.Context, u model.User) error {
	defer s.lock(ctx)()
	s.users[u.ID] = u
	return nil
}

// --- InterviewerSlotStore ---

func (s *Store) InterviewerSlotByID(ctx context.Context, id uuid.UUID) (model.InterviewerSlot, error) {
	defer s.lock(ctx)()
	slot, ok := s.interviewerSlots[id]
	if !ok {
		return model.InterviewerSlot{}, model.ErrNotFound
	}
	return slot, nil
}

func (s *Store) InterviewerSlotsByOwnerWeekDay(ctx context.Context, interviewerID uuid.UUID, wk week.Week, day time.Weekday) ([]model.InterviewerSlot, error) {
	defer s.lock(ctx)()
	var slots []model.InterviewerSlot
	for _, slot := range s.interviewerSlots {
		if slot.InterviewerID == interviewerID && slot.Week == wk && slot.DayOfWeek == day {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func (s *Store) InterviewerSlotsByWeek(ctx context.Context, wk week.Week) ([]model.InterviewerSlot, error) {
	defer s.lock(ctx)()
	var slots []model.InterviewerSlot
	for _, slot := range s.interviewerSlots {
		if slot.Week == wk {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func (s *Store) SaveInterviewerSlot(ctx context.Context, slot model.InterviewerSlot) error {
	defer s.lock(ctx)()
	s.interviewerSlots[slot.ID] = slot
	return nil
}

// --- CandidateSlotStore ---

func (s *Store) CandidateSlotByID(ctx context.Context, id uuid.UUID) (model.CandidateSlot, error) {
	defer s.lock(ctx)()
	slot, ok := s.candidateSlots[id]
	if !ok {
		return model.CandidateSlot{}, model.ErrNotFound
	}
	return slot, nil
}

func (s *Store) CandidateSlotsByDateRange(ctx context.Context, from, to time.Time) ([]model.CandidateSlot, error) {
	defer s.lock(ctx)()
	var slots []model.CandidateSlot
	for _, slot := range s.candidateSlots {
		if !slot.Date.Before(from) && slot.Date.Before(to) {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func (s *Store) SaveCandidateSlot(ctx context.Context, slot model.CandidateSlot) error {
	defer s.lock(ctx)()
	s.candidateSlots[slot.ID] = slot
	return nil
}

func (s *Store) DeleteCandidateSlot(ctx context.Context, id uuid.UUID) error {
	defer s.lock(ctx)()
	delete(s.candidateSlots, id)
	return nil
}

// --- BookingStore ---

func (s *Store) BookingByID(ctx context.Context, id uuid.UUID) (model.Booking, error) {
	defer s.lock(ctx)()
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, model.ErrNotFound
	}
	return b, nil
}

func (s *Store) BookingsByInterviewerSlot(ctx context.Context, slotID uuid.UUID) ([]model.Booking, error) {
	defer s.lock(ctx)()
	var bookings []model.Booking
	for _, b := range s.bookings {
		if b.InterviewerSlotID == slotID {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (s *Store) BookingsByCandidateSlot(ctx context.Context, slotID uuid.UUID) ([]model.Booking, error) {
	defer s.lock(ctx)()
	var bookings []model.Booking
	for _, b := range s.bookings {
		if b.CandidateSlotID == slotID {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (s *Store) CountBookingsForInterviewerWeek(ctx context.Context, interviewerID uuid.UUID, wk week.Week, exclude uuid.UUID) (int, error) {
	defer s.lock(ctx)()
	count := 0
	for _, b := range s.bookings {
		if b.ID == exclude {
			continue
		}
		slot, ok := s.interviewerSlots[b.InterviewerSlotID]
		if ok && slot.InterviewerID == interviewerID && slot.Week == wk {
			count++
		}
	}
	return count, nil
}

func (s *Store) SaveBooking(ctx context.Context, b model.Booking) error {
	defer s.lock(ctx)()
	s.bookings[b.ID] = b
	return nil
}

func (s *Store) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	defer s.lock(ctx)()
	delete(s.bookings, id)
	return nil
}

// --- BookingLimitStore ---

func (s *Store) BookingLimitByOwnerWeek(ctx context.Context, interviewerID uuid.UUID, wk week.Week) (model.BookingLimit, error) {
	defer s.lock(ctx)()
	for _, l := range s.limits {
		if l.InterviewerID == interviewerID && l.Week == wk {
			return l, nil
		}
	}
	return model.BookingLimit{}, model.ErrNotFound
}

func (s *Store) BookingLimitsByOwner(ctx context.Context, interviewerID uuid.UUID) ([]model.BookingLimit, error) {
	defer s.lock(ctx)()
	var limits []model.BookingLimit
	for _, l := range s.limits {
		if l.InterviewerID == interviewerID {
			limits = append(limits, l)
		}
	}
	sort.Slice(limits, func(i, j int) bool {
		if limits[i].Week.Year != limits[j].Week.Year {
			return limits[i].Week.Year < limits[j].Week.Year
		}
		return limits[i].Week.Num < limits[j].Week.Num
	})
	return limits, nil
}

func (s *Store) SaveBookingLimit(ctx context.Context, l model.BookingLimit) error {
	defer s.lock(ctx)()
	s.limits[l.ID] = l
	return nil
}

// --- EventStore ---

func (s *Store) Insert(ctx context.Context, evt outbox.Event) error {
	defer s.lock(ctx)()
	s.Events = append(s.Events, evt)
	return nil
}
