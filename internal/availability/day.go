package availability

import (
	"errors"
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

var (
	ErrInvalidDay   = errors.New("invalid day, use YYYY-MM-DD")
	ErrInvalidClock = errors.New("invalid clock time, use HH:MM")
)

// Day is a calendar date without a time zone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, ErrInvalidDay
	}
	return DayOf(t), nil
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// DayIn returns the calendar date of the instant t as observed in loc.
func DayIn(t time.Time, loc *time.Location) Day {
	return DayOf(t.In(orUTC(loc)))
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Weekday resolves the day of week of the civil date, independent of any time zone.
func (d Day) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// AddDays returns the civil date n days later (or earlier for negative n).
func (d Day) AddDays(n int) Day {
	return DayOf(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n))
}

func (d Day) Before(o Day) bool { return d.compare(o) < 0 }
func (d Day) After(o Day) bool  { return d.compare(o) > 0 }

func (d Day) compare(o Day) int {
	switch {
	case d.Year != o.Year:
		return d.Year - o.Year
	case d.Month != o.Month:
		return int(d.Month) - int(o.Month)
	default:
		return d.Day - o.Day
	}
}

// Start returns local midnight of the date in loc.
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, orUTC(loc))
}

// Span returns [local midnight, next local midnight) of the date in loc. The span is not
// always 24h long on daylight-saving transition days.
func (d Day) Span(loc *time.Location) Interval {
	next := d.AddDays(1)
	return Interval{Start: d.Start(loc), End: next.Start(loc)}
}

// Clock is a local wall-clock time of day with minute granularity.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24h HH:MM string. "24:00" is accepted as the end of the day.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return Clock{}, ErrInvalidClock
	}
	h, ok1 := twoDigits(s[0:2])
	m, ok2 := twoDigits(s[3:5])
	if !ok1 || !ok2 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return Clock{}, ErrInvalidClock
	}
	return Clock{Hour: h, Minute: m}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On anchors the wall-clock time to the date in loc.
func (c Clock) On(d Day, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, orUTC(loc))
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
