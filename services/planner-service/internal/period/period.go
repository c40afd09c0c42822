// Package period models wall-clock availability intervals with minute precision
// and enforces the shape rules shared by every slot creation path.
package period

import (
	"fmt"
	"time"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/apperr"
)

// MinuteOfDay counts minutes since midnight.
type MinuteOfDay int

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseMinute parses a "HH:MM" wall-clock time. Every position is checked
// so stray characters in either field are rejected.
func ParseMinute(s string) (MinuteOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("malformed time %q, want HH:MM", s)
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("malformed time %q, want HH:MM", s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	min := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || min > 59 {
		return 0, fmt.Errorf("malformed time %q, want HH:MM", s)
	}
	return MinuteOfDay(h*60 + min), nil
}

// Period is a half-open [From, To) interval within a single day.
type Period struct {
	From MinuteOfDay
	To   MinuteOfDay
}

func (p Period) Duration() time.Duration {
	return time.Duration(p.To-p.From) * time.Minute
}

func (p Period) String() string {
	return p.From.String() + "-" + p.To.String()
}

const (
	DayStart MinuteOfDay = 8 * 60  // 08:00
	DayEnd   MinuteOfDay = 22 * 60 // 22:00

	MinDuration = 90 * time.Minute

	roundingStep = 30
)

// Validate checks the shared interval shape rules, failing fast at the first
// violation: bounds within [08:00, 22:00], end after start, at least 90 minutes,
// both endpoints rounded to :00 or :30.
func Validate(p Period) error {
	if p.From < DayStart || p.To > DayEnd {
		return apperr.Invalid(apperr.CodeSlotBoundariesExceeded,
			"period %s must fit between %s and %s", p, DayStart, DayEnd)
	}
	if p.To <= p.From {
		return apperr.Invalid(apperr.CodeInvalidPeriod,
			"period %s must end after it starts", p)
	}
	if p.Duration() < MinDuration {
		return apperr.Invalid(apperr.CodeInvalidPeriod,
			"period %s must last at least %d minutes", p, int(MinDuration.Minutes()))
	}
	if p.From%roundingStep != 0 || p.To%roundingStep != 0 {
		return apperr.Invalid(apperr.CodePeriodNotRounded,
			"period %s boundaries must be rounded to :00 or :30", p)
	}
	return nil
}

// Overlaps reports whether two half-open periods intersect. Back-to-back
// periods (a.To == b.From) do not overlap.
func Overlaps(a, b Period) bool {
	return a.From < b.To && b.From < a.To
}

// Contains reports whether inner lies fully within p.
func (p Period) Contains(inner Period) bool {
	return p.From <= inner.From && inner.To <= p.To
}
