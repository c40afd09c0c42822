// Package apperr defines the typed failures the planner core reports to its callers.
// Every error carries a stable machine-readable code plus a human message; the HTTP
// layer maps the kind to a status code and serializes code+message verbatim.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindForbidden
)

type Code string

const (
	CodeInterviewerNotFound     Code = "INTERVIEWER_NOT_FOUND"
	CodeInterviewerSlotNotFound Code = "INTERVIEWER_SLOT_NOT_FOUND"
	CodeCandidateSlotNotFound   Code = "CANDIDATE_SLOT_NOT_FOUND"
	CodeBookingNotFound         Code = "BOOKING_NOT_FOUND"
	CodeUserNotFound            Code = "USER_NOT_FOUND"

	CodeNotNextWeekNumber             Code = "NOT_NEXT_WEEK_NUMBER"
	CodeNotWorkingDayOfWeek           Code = "NOT_WORKING_DAY_OF_WEEK"
	CodeSlotBoundariesExceeded        Code = "SLOT_BOUNDARIES_EXCEEDED"
	CodeInvalidPeriod                 Code = "INVALID_PERIOD"
	CodePeriodNotRounded              Code = "PERIOD_NOT_ROUNDED"
	CodeOverlappingPeriod             Code = "OVERLAPPING_PERIOD"
	CodeSlotDateInPast                Code = "SLOT_DATE_IN_PAST"
	CodeBookingAlreadyMade            Code = "BOOKING_ALREADY_MADE"
	CodeInvalidBookingLimit           Code = "INVALID_BOOKING_LIMIT"
	CodeBookingLimitExceeded          Code = "INTERVIEWER_BOOKING_LIMIT_EXCEEDED"
	CodeWrongBookingDuration          Code = "WRONG_BOOKING_DURATION"
	CodeBookingOutOfBoundsCandidate   Code = "BOOKING_OUT_OF_BOUNDS_CANDIDATE"
	CodeBookingOutOfBoundsInterviewer Code = "BOOKING_OUT_OF_BOUNDS_INTERVIEWER"
	CodeCandidateSlotBooked           Code = "CANDIDATE_SLOT_BOOKED"
	CodeDifferentSlotsDates           Code = "DIFFERENT_SLOTS_DATES"
	CodeBookingOverlap                Code = "BOOKING_OVERLAP"

	CodeInvalidRole        Code = "INVALID_ROLE"
	CodeRoleNotAssigned    Code = "ROLE_NOT_ASSIGNED"
	CodeSelfRoleRevocation Code = "SELF_ROLE_REVOCATION"
)

type Error struct {
	Kind    Kind
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func NotFound(code Code, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Invalid(code Code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(code Code, format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: fmt.Sprintf(format, args...)}
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsNotFound(err error) bool   { return kindOf(err) == KindNotFound }
func IsValidation(err error) bool { return kindOf(err) == KindValidation }
func IsForbidden(err error) bool  { return kindOf(err) == KindForbidden }

// CodeOf returns the machine code of err, or "" when err is not an apperr.Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
