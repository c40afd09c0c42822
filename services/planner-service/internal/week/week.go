// Package week implements ISO week identifiers and the calendar arithmetic the
// planner builds on. A week identifier renders as the 4-digit ISO year followed
// by the ISO week number with no separator and no zero padding, e.g. "202249"
// for week 49 of 2022 and "20229" for week 9.
package week

import (
	"fmt"
	"strconv"
	"time"
)

type Week struct {
	Year int
	Num  int
}

func (w Week) String() string {
	return strconv.Itoa(w.Year) + strconv.Itoa(w.Num)
}

func (w Week) IsZero() bool {
	return w.Year == 0 && w.Num == 0
}

// Of returns the ISO week containing t.
func Of(t time.Time) Week {
	year, num := t.ISOWeek()
	return Week{Year: year, Num: num}
}

// Parse splits an identifier into its 4-digit year prefix and week number.
func Parse(s string) (Week, error) {
	if len(s) < 5 || len(s) > 6 {
		return Week{}, fmt.Errorf("malformed week identifier %q", s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return Week{}, fmt.Errorf("malformed week identifier %q", s)
	}
	num, err := strconv.Atoi(s[4:])
	if err != nil || num < 1 || num > 53 {
		return Week{}, fmt.Errorf("malformed week identifier %q", s)
	}
	return Week{Year: year, Num: num}, nil
}

// FirstDate returns the Monday that starts the week, at midnight UTC.
// January 4 always falls in ISO week 1 of its year.
func (w Week) FirstDate() time.Time {
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := int(jan4.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	monday := jan4.AddDate(0, 0, -offset)
	return monday.AddDate(0, 0, (w.Num-1)*7)
}

// DateOf returns the calendar date of the given weekday within the week.
func (w Week) DateOf(day time.Weekday) time.Time {
	offset := int(day) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return w.FirstDate().AddDate(0, 0, offset)
}

// Next returns the following ISO week, rolling over year boundaries correctly:
// the last ISO week of a year advances to week 1 of the next year.
func (w Week) Next() Week {
	return Of(w.FirstDate().AddDate(0, 0, 7))
}

// Clock supplies "now" so week arithmetic stays deterministic under test.
type Clock func() time.Time

// Calculator answers "which week is it" questions against an injected clock.
type Calculator struct {
	now Clock
}

func NewCalculator(now Clock) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

func (c *Calculator) Current() Week {
	return Of(c.now())
}

func (c *Calculator) Next() Week {
	return c.Current().Next()
}

func (c *Calculator) IsNext(w Week) bool {
	return w == c.Next()
}

func (c *Calculator) IsCurrentOrNext(w Week) bool {
	return w == c.Current() || w == c.Next()
}

// Today returns the current calendar date at midnight UTC.
func (c *Calculator) Today() time.Time {
	t := c.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWorkingDay reports whether day is Monday through Friday.
func IsWorkingDay(day time.Weekday) bool {
	return day != time.Saturday && day != time.Sunday
}
