package period

import (
	"testing"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/apperr"
)

func mustMinute(t *testing.T, s string) MinuteOfDay {
	t.Helper()
	m, err := ParseMinute(s)
	if err != nil {
		t.Fatalf("ParseMinute(%q) failed: %v", s, err)
	}
	return m
}

func p(t *testing.T, from, to string) Period {
	t.Helper()
	return Period{From: mustMinute(t, from), To: mustMinute(t, to)}
}

func TestParseMinute(t *testing.T) {
	cases := []struct {
		in   string
		want MinuteOfDay
	}{
		{"08:00", 480},
		{"09:30", 570},
		{"22:00", 1320},
		{"00:00", 0},
	}
	for _, c := range cases {
		got, err := ParseMinute(c.in)
		if err != nil {
			t.Fatalf("ParseMinute(%q) failed: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseMinute(%q) = %d, want %d", c.in, got, c.want)
		}
		if got.String() != c.in {
			t.Fatalf("String(%d) = %q, want %q", got, got.String(), c.in)
		}
	}
	for _, s := range []string{"", "9:30", "09-30", "24:00", "09:60", "ab:cd", "09:300", "08:0a", "0a:00", "08: 0", "-8:00"} {
		if _, err := ParseMinute(s); err == nil {
			t.Fatalf("ParseMinute(%q) should fail", s)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		period   Period
		wantCode apperr.Code
	}{
		{"minimal ok", Period{From: 480, To: 570}, ""},
		{"full day ok", Period{From: 480, To: 1320}, ""},
		{"before day start", Period{From: 450, To: 570}, apperr.CodeSlotBoundariesExceeded},
		{"after day end", Period{From: 1260, To: 1350}, apperr.CodeSlotBoundariesExceeded},
		{"inverted", Period{From: 600, To: 570}, apperr.CodeInvalidPeriod},
		{"too short", Period{From: 480, To: 540}, apperr.CodeInvalidPeriod},
		{"unrounded start", Period{From: 495, To: 600}, apperr.CodePeriodNotRounded},
		{"unrounded end", Period{From: 480, To: 585}, apperr.CodePeriodNotRounded},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Validate(c.period)
			if c.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate(%s) failed: %v", c.period, err)
				}
				return
			}
			if apperr.CodeOf(err) != c.wantCode {
				t.Fatalf("Validate(%s) code = %q, want %q", c.period, apperr.CodeOf(err), c.wantCode)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	a := p(t, "09:00", "10:30")
	if !Overlaps(a, p(t, "10:00", "11:30")) {
		t.Fatal("partially intersecting periods should overlap")
	}
	if !Overlaps(a, p(t, "08:00", "12:00")) {
		t.Fatal("containing period should overlap")
	}
	if Overlaps(a, p(t, "10:30", "12:00")) {
		t.Fatal("back-to-back periods should not overlap")
	}
	if Overlaps(a, p(t, "12:00", "13:30")) {
		t.Fatal("disjoint periods should not overlap")
	}
	// Symmetry.
	if Overlaps(a, p(t, "10:00", "11:30")) != Overlaps(p(t, "10:00", "11:30"), a) {
		t.Fatal("Overlaps should be symmetric")
	}
}

func TestContains(t *testing.T) {
	outer := p(t, "09:00", "12:00")
	if !outer.Contains(p(t, "09:00", "12:00")) {
		t.Fatal("a period contains itself")
	}
	if !outer.Contains(p(t, "09:30", "11:00")) {
		t.Fatal("inner period should be contained")
	}
	if outer.Contains(p(t, "08:30", "10:00")) {
		t.Fatal("period starting earlier is not contained")
	}
	if outer.Contains(p(t, "11:00", "12:30")) {
		t.Fatal("period ending later is not contained")
	}
}
