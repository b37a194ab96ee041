// Package workday holds the calendar arithmetic shared by attendance, leave
// and report services. Calendar dates are represented as UTC midnight so they
// round-trip through DATE columns unchanged.
package workday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var (
	ErrInvalidClock = errors.New("time must be HH:MM")
	ErrInvalidReset = errors.New("reset date must be MM-DD")
)

// DefaultDays Monday to Friday, as time.Weekday values.
var DefaultDays = []int{1, 2, 3, 4, 5}

// DateOf returns the calendar date of t as observed in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD into a calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// FormatDate formats a calendar date.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// EachDay calls fn for every date in [from, to].
func EachDay(from, to time.Time, fn func(d time.Time)) {
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// DaysInclusive counts calendar days in [from, to].
func DaysInclusive(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] share a day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// MonthRange returns the first and last day of a YYYY-MM month.
func MonthRange(month string) (time.Time, time.Time, error) {
	first, err := time.ParseInLocation("2006-01", strings.TrimSpace(month), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("month must be YYYY-MM: %w", err)
	}
	return first, first.AddDate(0, 1, -1), nil
}

// ── clock times ──

// ParseClock parses HH:MM into minutes after midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, ErrInvalidClock
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidClock
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidClock
	}
	return h*60 + m, nil
}

// ── schedules ──

// Schedule is the effective work policy for one employee.
type Schedule struct {
	Start        string  `json:"work_start_time"`
	End          string  `json:"work_end_time"`
	GraceMinutes int     `json:"late_grace_minutes"`
	HalfDayHours float64 `json:"half_day_hours"`
	Days         []int   `json:"work_days"`
}

// Validate checks clock formats, ordering and weekday values.
func (s Schedule) Validate() error {
	start, err := ParseClock(s.Start)
	if err != nil {
		return fmt.Errorf("work start: %w", err)
	}
	end, err := ParseClock(s.End)
	if err != nil {
		return fmt.Errorf("work end: %w", err)
	}
	if end <= start {
		return errors.New("work end must be after work start")
	}
	return ValidateDays(s.Days)
}

// ValidateDays checks a non-empty set of distinct weekdays in 0..6.
func ValidateDays(days []int) error {
	if len(days) == 0 {
		return errors.New("at least one work day is required")
	}
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return fmt.Errorf("work day %d out of range 0-6", d)
		}
		if seen[d] {
			return fmt.Errorf("work day %d repeated", d)
		}
		seen[d] = true
	}
	return nil
}

// IsWorkday reports whether d falls on one of the schedule's weekdays.
func (s Schedule) IsWorkday(d time.Time) bool {
	days := s.Days
	if len(days) == 0 {
		days = DefaultDays
	}
	wd := int(d.Weekday())
	for _, x := range days {
		if x == wd {
			return true
		}
	}
	return false
}

// WorkingDays counts workdays in [from, to].
func (s Schedule) WorkingDays(from, to time.Time) int {
	n := 0
	EachDay(from, to, func(d time.Time) {
		if s.IsWorkday(d) {
			n++
		}
	})
	return n
}

// at returns the instant of clock time hhmm on calendar date d in loc.
func at(d time.Time, hhmm string, loc *time.Location) time.Time {
	mins, err := ParseClock(hhmm)
	if err != nil {
		mins = 0
	}
	return time.Date(d.Year(), d.Month(), d.Day(), mins/60, mins%60, 0, 0, loc)
}

// StartOn is the scheduled start on date d.
func (s Schedule) StartOn(d time.Time, loc *time.Location) time.Time {
	return at(d, s.Start, loc)
}

// EndOn is the scheduled end on date d.
func (s Schedule) EndOn(d time.Time, loc *time.Location) time.Time {
	return at(d, s.End, loc)
}

// LateAfter is the instant after which a check-in on d counts as late.
func (s Schedule) LateAfter(d time.Time, loc *time.Location) time.Time {
	return s.StartOn(d, loc).Add(time.Duration(s.GraceMinutes) * time.Minute)
}

// ── leave years ──

// Reset is the month/day on which leave balances restart.
type Reset struct {
	Month time.Month
	Day   int
}

// DefaultReset is January 1st.
var DefaultReset = Reset{Month: time.January, Day: 1}

// ParseReset parses MM-DD. February 29th is refused so every year has a reset day.
func ParseReset(s string) (Reset, error) {
	t, err := time.Parse("01-02", strings.TrimSpace(s))
	if err != nil {
		return Reset{}, ErrInvalidReset
	}
	if t.Month() == time.February && t.Day() == 29 {
		return Reset{}, ErrInvalidReset
	}
	return Reset{Month: t.Month(), Day: t.Day()}, nil
}

// String formats as MM-DD.
func (r Reset) String() string {
	return fmt.Sprintf("%02d-%02d", int(r.Month), r.Day)
}

// YearOf returns the leave year [start, end] that contains date d.
func (r Reset) YearOf(d time.Time) (time.Time, time.Time) {
	start := time.Date(d.Year(), r.Month, r.Day, 0, 0, 0, 0, time.UTC)
	if d.Before(start) {
		start = start.AddDate(-1, 0, 0)
	}
	return start, start.AddDate(1, 0, -1)
}
