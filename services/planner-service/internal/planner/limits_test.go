package planner_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/apperr"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
)

func TestSetNextWeekBookingLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	limit, err := f.svc.SetNextWeekBookingLimit(ctx, f.interviewer.ID, nextWeek(), 5)
	if err != nil {
		t.Fatalf("SetNextWeekBookingLimit failed: %v", err)
	}
	if limit.MaxBookings != 5 || limit.Week != nextWeek() {
		t.Fatalf("unexpected limit: %+v", limit)
	}

	// Setting it again overwrites in place rather than adding a second row.
	again, err := f.svc.SetNextWeekBookingLimit(ctx, f.interviewer.ID, nextWeek(), 3)
	if err != nil {
		t.Fatalf("second SetNextWeekBookingLimit failed: %v", err)
	}
	if again.ID != limit.ID {
		t.Fatalf("limit id changed: %s -> %s", limit.ID, again.ID)
	}
	if again.MaxBookings != 3 {
		t.Fatalf("max bookings = %d, want 3", again.MaxBookings)
	}

	rows, err := f.store.BookingLimitsByOwner(ctx, f.interviewer.ID)
	if err != nil {
		t.Fatalf("list limits: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 limit row, got %d", len(rows))
	}
}

func TestSetNextWeekBookingLimitValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetNextWeekBookingLimit(ctx, f.interviewer.ID, currentWeek(), 5)
	wantCode(t, err, apperr.CodeNotNextWeekNumber)

	_, err = f.svc.SetNextWeekBookingLimit(ctx, f.interviewer.ID, nextWeek(), 0)
	wantCode(t, err, apperr.CodeInvalidBookingLimit)

	_, err = f.svc.SetNextWeekBookingLimit(ctx, f.candidate.ID, nextWeek(), 5)
	wantCode(t, err, apperr.CodeInterviewerNotFound)
}

func TestBookingLimitsUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	islot := f.seedInterviewerSlot(t, currentWeek(), time.Friday, "08:00", "20:00")
	cslot := f.seedCandidateSlot(t, currentWeek().DateOf(time.Friday), "08:00", "18:00")
	if err := f.store.SaveBookingLimit(ctx, model.BookingLimit{
		ID:            uuid.New(),
		InterviewerID: f.interviewer.ID,
		Week:          currentWeek(),
		MaxBookings:   4,
	}); err != nil {
		t.Fatalf("seed limit: %v", err)
	}
	if err := f.store.SaveBooking(ctx, model.Booking{
		ID:                uuid.New(),
		InterviewerSlotID: islot.ID,
		CandidateSlotID:   cslot.ID,
		Period:            mustPeriod("08:00", "09:30"),
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	usages, err := f.svc.BookingLimits(ctx, f.interviewer.ID)
	if err != nil {
		t.Fatalf("BookingLimits failed: %v", err)
	}
	if len(usages) != 1 {
		t.Fatalf("expected 1 usage row, got %d", len(usages))
	}
	if usages[0].Limit.MaxBookings != 4 || usages[0].CurrentBookings != 1 {
		t.Fatalf("unexpected usage: %+v", usages[0])
	}

	_, err = f.svc.BookingLimits(ctx, f.candidate.ID)
	wantCode(t, err, apperr.CodeInterviewerNotFound)
}
