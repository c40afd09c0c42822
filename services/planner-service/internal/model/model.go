// Package model holds the planner's persistent entities.
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/period"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

// ErrNotFound is the sentinel stores return when a lookup matches nothing.
// Services translate it into the caller-facing apperr codes.
var ErrNotFound = errors.New("not found")

type Role string

const (
	RoleCandidate   Role = "CANDIDATE"
	RoleInterviewer Role = "INTERVIEWER"
	RoleCoordinator Role = "COORDINATOR"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCandidate, RoleInterviewer, RoleCoordinator:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

// InterviewerSlot is an interviewer's declared availability on one working day
// of a given week.
type InterviewerSlot struct {
	ID            uuid.UUID
	InterviewerID uuid.UUID
	Week          week.Week
	DayOfWeek     time.Weekday
	Period        period.Period
}

// CandidateSlot is a candidate's declared availability on a calendar date.
// Candidates are keyed by email; they live in the external identity provider.
type CandidateSlot struct {
	ID     uuid.UUID
	Email  string
	Date   time.Time // midnight UTC
	Period period.Period
}

// Booking is a confirmed match between one interviewer slot and one candidate
// slot. It references the slots by id and never owns them.
type Booking struct {
	ID                uuid.UUID
	InterviewerSlotID uuid.UUID
	CandidateSlotID   uuid.UUID
	Period            period.Period
	Subject           string
	Description       string
}

// BookingLimit caps how many bookings an interviewer accepts in one week.
// The current booking count is derived from live bookings, never stored.
type BookingLimit struct {
	ID            uuid.UUID
	InterviewerID uuid.UUID
	Week          week.Week
	MaxBookings   int
}

// LimitUsage pairs a stored limit with its derived live booking count.
type LimitUsage struct {
	Limit           BookingLimit
	CurrentBookings int
}
