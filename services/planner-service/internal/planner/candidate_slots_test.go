package planner_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/apperr"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
)

func TestCreateCandidateSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	date := nextWeek().DateOf(time.Monday)
	slot, err := f.svc.CreateCandidateSlot(ctx, f.candidate.Email, planner.CandidateSlotInput{
		Date:   date,
		Period: mustPeriod("15:30", "18:00"),
	})
	if err != nil {
		t.Fatalf("CreateCandidateSlot failed: %v", err)
	}
	if slot.Email != f.candidate.Email || !slot.Date.Equal(date) {
		t.Fatalf("unexpected slot: %+v", slot)
	}

	// The date is stored time-of-day free even when the input carries one.
	slot, err = f.svc.CreateCandidateSlot(ctx, f.candidate.Email, planner.CandidateSlotInput{
		Date:   date.Add(13 * time.Hour),
		Period: mustPeriod("08:00", "10:00"),
	})
	if err != nil {
		t.Fatalf("CreateCandidateSlot with timestamp failed: %v", err)
	}
	if !slot.Date.Equal(date) {
		t.Fatalf("date not normalized: %s", slot.Date)
	}
}

func TestCreateCandidateSlotToday(t *testing.T) {
	f := newFixture(t)

	// testNow is mid-morning; the same calendar date is still allowed.
	if _, err := f.svc.CreateCandidateSlot(context.Background(), f.candidate.Email, planner.CandidateSlotInput{
		Date:   testNow,
		Period: mustPeriod("15:30", "18:00"),
	}); err != nil {
		t.Fatalf("same-day slot failed: %v", err)
	}
}

func TestCreateCandidateSlotRejectsPastDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateCandidateSlot(context.Background(), f.candidate.Email, planner.CandidateSlotInput{
		Date:   testNow.AddDate(0, 0, -1),
		Period: mustPeriod("15:30", "18:00"),
	})
	wantCode(t, err, apperr.CodeSlotDateInPast)
}

func TestCreateCandidateSlotRejectsWeekend(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateCandidateSlot(context.Background(), f.candidate.Email, planner.CandidateSlotInput{
		Date:   nextWeek().DateOf(time.Sunday),
		Period: mustPeriod("15:30", "18:00"),
	})
	wantCode(t, err, apperr.CodeNotWorkingDayOfWeek)
}

func TestCreateCandidateSlotRejectsBadPeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := nextWeek().DateOf(time.Monday)

	_, err := f.svc.CreateCandidateSlot(ctx, f.candidate.Email, planner.CandidateSlotInput{
		Date:   date,
		Period: mustPeriod("21:30", "23:00"),
	})
	wantCode(t, err, apperr.CodeSlotBoundariesExceeded)

	_, err = f.svc.CreateCandidateSlot(ctx, f.candidate.Email, planner.CandidateSlotInput{
		Date:   date,
		Period: mustPeriod("10:00", "11:00"),
	})
	wantCode(t, err, apperr.CodeInvalidPeriod)

	_, err = f.svc.CreateCandidateSlot(ctx, f.candidate.Email, planner.CandidateSlotInput{
		Date:   date,
		Period: mustPeriod("10:15", "12:00"),
	})
	wantCode(t, err, apperr.CodePeriodNotRounded)
}

func TestUpdateCandidateSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.seedCandidateSlot(t, nextWeek().DateOf(time.Monday), "15:30", "18:00")

	updated, err := f.svc.UpdateCandidateSlot(ctx, f.candidate.Email, slot.ID, planner.CandidateSlotInput{
		Date:   nextWeek().DateOf(time.Tuesday),
		Period: mustPeriod("09:00", "12:00"),
	})
	if err != nil {
		t.Fatalf("UpdateCandidateSlot failed: %v", err)
	}
	if updated.ID != slot.ID || !updated.Date.Equal(nextWeek().DateOf(time.Tuesday)) {
		t.Fatalf("unexpected updated slot: %+v", updated)
	}
}

func TestUpdateCandidateSlotOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.seedCandidateSlot(t, nextWeek().DateOf(time.Monday), "15:30", "18:00")
	in := planner.CandidateSlotInput{
		Date:   nextWeek().DateOf(time.Tuesday),
		Period: mustPeriod("09:00", "12:00"),
	}

	// Another candidate's email reads as not found, not forbidden.
	_, err := f.svc.UpdateCandidateSlot(ctx, "other@example.com", slot.ID, in)
	wantCode(t, err, apperr.CodeCandidateSlotNotFound)

	_, err = f.svc.UpdateCandidateSlot(ctx, f.candidate.Email, uuid.New(), in)
	wantCode(t, err, apperr.CodeCandidateSlotNotFound)
}

func TestUpdateCandidateSlotBlockedByBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	islot := f.seedInterviewerSlot(t, nextWeek(), time.Monday, "10:00", "13:00")
	cslot := f.seedCandidateSlot(t, nextWeek().DateOf(time.Monday), "10:00", "13:00")
	if err := f.store.SaveBooking(ctx, model.Booking{
		ID:                uuid.New(),
		InterviewerSlotID: islot.ID,
		CandidateSlotID:   cslot.ID,
		Period:            mustPeriod("10:00", "11:30"),
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	_, err := f.svc.UpdateCandidateSlot(ctx, f.candidate.Email, cslot.ID, planner.CandidateSlotInput{
		Date:   nextWeek().DateOf(time.Tuesday),
		Period: mustPeriod("09:00", "12:00"),
	})
	wantCode(t, err, apperr.CodeBookingAlreadyMade)
}

func TestDeleteCandidateSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.seedCandidateSlot(t, nextWeek().DateOf(time.Monday), "15:30", "18:00")

	if err := f.svc.DeleteCandidateSlot(ctx, "other@example.com", slot.ID); err == nil {
		t.Fatal("foreign delete should fail")
	}
	if err := f.svc.DeleteCandidateSlot(ctx, f.candidate.Email, slot.ID); err != nil {
		t.Fatalf("DeleteCandidateSlot failed: %v", err)
	}
	if _, err := f.store.CandidateSlotByID(ctx, slot.ID); err == nil {
		t.Fatal("slot should be gone")
	}
}
