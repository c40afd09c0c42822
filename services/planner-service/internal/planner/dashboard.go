package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

// DashboardDay projects everything scheduled on one calendar day.
type DashboardDay struct {
	Date             time.Time
	DayOfWeek        time.Weekday
	InterviewerSlots []model.InterviewerSlot
	CandidateSlots   []model.CandidateSlot
	Bookings         []model.Booking
}

// Dashboard groups the week's slots and bookings into seven ordered day views,
// Monday through Sunday. Read-only; no validation is applied.
func (s *Service) Dashboard(ctx context.Context, wk week.Week) ([]DashboardDay, error) {
	monday := wk.FirstDate()

	islots, err := s.islots.InterviewerSlotsByWeek(ctx, wk)
	if err != nil {
		return nil, fmt.Errorf("load interviewer slots: %w", err)
	}
	cslots, err := s.cslots.CandidateSlotsByDateRange(ctx, monday, monday.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("load candidate slots: %w", err)
	}

	days := make([]DashboardDay, 7)
	for i := range days {
		date := monday.AddDate(0, 0, i)
		day := DashboardDay{Date: date, DayOfWeek: date.Weekday()}

		for _, slot := range islots {
			if slot.DayOfWeek != day.DayOfWeek {
				continue
			}
			day.InterviewerSlots = append(day.InterviewerSlots, slot)
			booked, err := s.bookings.BookingsByInterviewerSlot(ctx, slot.ID)
			if err != nil {
				return nil, fmt.Errorf("load bookings for slot %s: %w", slot.ID, err)
			}
			day.Bookings = append(day.Bookings, booked...)
		}
		for _, slot := range cslots {
			if slot.Date.Equal(date) {
				day.CandidateSlots = append(day.CandidateSlots, slot)
			}
		}
		days[i] = day
	}
	return days, nil
}
