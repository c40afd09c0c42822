package planner_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/apperr"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

func TestCreateInterviewerSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot, err := f.svc.CreateInterviewerSlot(ctx, f.interviewer.ID, planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Monday,
		Period:    mustPeriod("10:00", "12:00"),
	})
	if err != nil {
		t.Fatalf("CreateInterviewerSlot failed: %v", err)
	}
	if slot.InterviewerID != f.interviewer.ID || slot.Week != nextWeek() {
		t.Fatalf("unexpected slot: %+v", slot)
	}

	stored, err := f.store.InterviewerSlotByID(ctx, slot.ID)
	if err != nil {
		t.Fatalf("reload slot: %v", err)
	}
	if stored.Period != mustPeriod("10:00", "12:00") {
		t.Fatalf("stored period = %s", stored.Period)
	}
}

func TestCreateInterviewerSlotRejectsWrongWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, wk := range []week.Week{currentWeek(), {Year: 2022, Num: 51}, {Year: 2023, Num: 2}} {
		_, err := f.svc.CreateInterviewerSlot(ctx, f.interviewer.ID, planner.InterviewerSlotInput{
			Week:      wk,
			DayOfWeek: time.Monday,
			Period:    mustPeriod("10:00", "12:00"),
		})
		wantCode(t, err, apperr.CodeNotNextWeekNumber)
	}
}

func TestCreateInterviewerSlotRejectsWeekend(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateInterviewerSlot(context.Background(), f.interviewer.ID, planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Saturday,
		Period:    mustPeriod("10:00", "12:00"),
	})
	wantCode(t, err, apperr.CodeNotWorkingDayOfWeek)
}

func TestCreateInterviewerSlotRejectsEarlyStart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateInterviewerSlot(context.Background(), f.interviewer.ID, planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Monday,
		Period:    mustPeriod("07:30", "10:00"),
	})
	wantCode(t, err, apperr.CodeSlotBoundariesExceeded)
}

func TestCreateInterviewerSlotRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateInterviewerSlot(ctx, f.interviewer.ID, planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Tuesday,
		Period:    mustPeriod("09:00", "12:00"),
	}); err != nil {
		t.Fatalf("first slot failed: %v", err)
	}

	_, err := f.svc.CreateInterviewerSlot(ctx, f.interviewer.ID, planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Tuesday,
		Period:    mustPeriod("11:00", "13:00"),
	})
	wantCode(t, err, apperr.CodeOverlappingPeriod)

	// Back-to-back on the same day is fine.
	if _, err := f.svc.CreateInterviewerSlot(ctx, f.interviewer.ID, planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Tuesday,
		Period:    mustPeriod("12:00", "13:30"),
	}); err != nil {
		t.Fatalf("back-to-back slot failed: %v", err)
	}

	// Same period on another day is fine too.
	if _, err := f.svc.CreateInterviewerSlot(ctx, f.interviewer.ID, planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Wednesday,
		Period:    mustPeriod("09:00", "12:00"),
	}); err != nil {
		t.Fatalf("same period on another day failed: %v", err)
	}
}

func TestCreateInterviewerSlotRequiresInterviewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Monday,
		Period:    mustPeriod("10:00", "12:00"),
	}
	_, err := f.svc.CreateInterviewerSlot(ctx, f.candidate.ID, in)
	wantCode(t, err, apperr.CodeInterviewerNotFound)

	_, err = f.svc.CreateInterviewerSlot(ctx, uuid.New(), in)
	wantCode(t, err, apperr.CodeInterviewerNotFound)
}

func TestUpdateInterviewerSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.seedInterviewerSlot(t, nextWeek(), time.Monday, "10:00", "12:00")

	updated, err := f.svc.UpdateInterviewerSlotForNextWeek(ctx, f.interviewer.ID, slot.ID, planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Friday,
		Period:    mustPeriod("14:00", "16:00"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != slot.ID || updated.DayOfWeek != time.Friday {
		t.Fatalf("unexpected updated slot: %+v", updated)
	}

	// The replaced interval is free again: a new slot may take it.
	if _, err := f.svc.CreateInterviewerSlot(ctx, f.interviewer.ID, planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Monday,
		Period:    mustPeriod("10:00", "12:00"),
	}); err != nil {
		t.Fatalf("recreate in freed interval failed: %v", err)
	}
}

func TestUpdateInterviewerSlotKeepsOwnInterval(t *testing.T) {
	f := newFixture(t)

	slot := f.seedInterviewerSlot(t, nextWeek(), time.Monday, "10:00", "12:00")

	// Shrinking within the slot's own interval must not trip the overlap check
	// against itself.
	if _, err := f.svc.UpdateInterviewerSlotForNextWeek(context.Background(), f.interviewer.ID, slot.ID, planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Monday,
		Period:    mustPeriod("10:30", "12:00"),
	}); err != nil {
		t.Fatalf("shrink failed: %v", err)
	}
}

func TestUpdateInterviewerSlotUnknownOrForeign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Monday,
		Period:    mustPeriod("10:00", "12:00"),
	}
	_, err := f.svc.UpdateInterviewerSlotForNextWeek(ctx, f.interviewer.ID, uuid.New(), in)
	wantCode(t, err, apperr.CodeInterviewerSlotNotFound)

	// A slot owned by someone else reads as not found.
	other := model.InterviewerSlot{
		ID:            uuid.New(),
		InterviewerID: uuid.New(),
		Week:          nextWeek(),
		DayOfWeek:     time.Monday,
		Period:        mustPeriod("14:00", "16:00"),
	}
	if err := f.store.SaveInterviewerSlot(ctx, other); err != nil {
		t.Fatalf("seed foreign slot: %v", err)
	}
	_, err = f.svc.UpdateInterviewerSlotForNextWeek(ctx, f.interviewer.ID, other.ID, in)
	wantCode(t, err, apperr.CodeInterviewerSlotNotFound)
}

func TestUpdateInterviewerSlotBlockedByBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.seedInterviewerSlot(t, nextWeek(), time.Monday, "10:00", "13:00")
	cslot := f.seedCandidateSlot(t, nextWeek().DateOf(time.Monday), "10:00", "13:00")
	booking := model.Booking{
		ID:                uuid.New(),
		InterviewerSlotID: slot.ID,
		CandidateSlotID:   cslot.ID,
		Period:            mustPeriod("10:00", "11:30"),
	}
	if err := f.store.SaveBooking(ctx, booking); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	_, err := f.svc.UpdateInterviewerSlotForNextWeek(ctx, f.interviewer.ID, slot.ID, planner.InterviewerSlotInput{
		Week:      nextWeek(),
		DayOfWeek: time.Monday,
		Period:    mustPeriod("14:00", "16:00"),
	})
	wantCode(t, err, apperr.CodeBookingAlreadyMade)
}

func TestUpdateInterviewerSlotWeekRestriction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot := f.seedInterviewerSlot(t, currentWeek(), time.Friday, "10:00", "12:00")
	in := planner.InterviewerSlotInput{
		Week:      currentWeek(),
		DayOfWeek: time.Friday,
		Period:    mustPeriod("14:00", "16:00"),
	}

	// The interviewer-facing update only accepts the next week.
	_, err := f.svc.UpdateInterviewerSlotForNextWeek(ctx, f.interviewer.ID, slot.ID, in)
	wantCode(t, err, apperr.CodeNotNextWeekNumber)

	// The unrestricted update may correct slots of any week.
	if _, err := f.svc.UpdateInterviewerSlot(ctx, f.interviewer.ID, slot.ID, in); err != nil {
		t.Fatalf("unrestricted update failed: %v", err)
	}
}
