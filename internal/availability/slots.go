// Package availability computes bookable lesson start times for a single day.
//
// Everything here is pure: all inputs, including the current instant, are passed in and
// no I/O is performed. Callers fetch configuration, bookings and external busy ranges
// beforehand.
package availability

import "time"

const DefaultSlotStepMinutes = 15

// WeeklySlot is the recurring template entry for one weekday. Times are local HH:MM.
type WeeklySlot struct {
	StartTime string
	EndTime   string
	IsActive  bool
}

// DateOverride is a one-off exception for a date. When not blocked, a window is only
// applied if both StartTime and EndTime are set.
type DateOverride struct {
	IsBlocked bool
	StartTime string
	EndTime   string
}

// Policy holds the provider's booking constraints.
type Policy struct {
	BufferMinutes         int
	MinNoticeHours        int
	MaxAdvanceBookingDays int
	SlotStepMinutes       int
}

func (p Policy) Buffer() time.Duration {
	return time.Duration(p.BufferMinutes) * time.Minute
}

func (p Policy) MinNotice() time.Duration {
	return time.Duration(p.MinNoticeHours) * time.Hour
}

func (p Policy) Step() time.Duration {
	if p.SlotStepMinutes <= 0 {
		return DefaultSlotStepMinutes * time.Minute
	}
	return time.Duration(p.SlotStepMinutes) * time.Minute
}

// Input is everything needed to compute one day's slots.
type Input struct {
	Day             Day
	DurationMinutes int
	Policy          Policy
	Location        *time.Location
	Weekly          *WeeklySlot
	Override        *DateOverride
	// Bookings are confirmed bookings only; they are inflated by the buffer.
	Bookings []Interval
	// Busy are external calendar busy ranges; they block exactly as given.
	Busy []Interval
	Now  time.Time
}

// BookableDay reports whether the day lies within [today, today+maxAdvance] in loc.
func BookableDay(day Day, now time.Time, loc *time.Location, maxAdvanceDays int) bool {
	today := DayIn(now, loc)
	return !day.Before(today) && !day.After(today.AddDays(maxAdvanceDays))
}

// Window resolves the effective working window of the day. ok is false when the day has
// no availability: missing or inactive template, blocked override, unparsable times, or a
// window whose start is not before its end.
func Window(day Day, loc *time.Location, weekly *WeeklySlot, override *DateOverride) (Interval, bool) {
	if weekly == nil || !weekly.IsActive {
		return Interval{}, false
	}
	if override != nil && override.IsBlocked {
		return Interval{}, false
	}

	startStr, endStr := weekly.StartTime, weekly.EndTime
	if override != nil && override.StartTime != "" && override.EndTime != "" {
		startStr, endStr = override.StartTime, override.EndTime
	}

	startClock, err := ParseClock(startStr)
	if err != nil {
		return Interval{}, false
	}
	endClock, err := ParseClock(endStr)
	if err != nil {
		return Interval{}, false
	}

	w := Interval{Start: startClock.On(day, loc), End: endClock.On(day, loc)}
	if !w.Start.Before(w.End) {
		return Interval{}, false
	}
	return w, true
}

// AvailableSlots returns the ascending start instants at which a lesson of the requested
// duration can be booked. Business gaps (closed day, fully booked, out of range,
// misconfigured window) yield an empty result, never an error.
func AvailableSlots(in Input) []time.Time {
	if in.DurationMinutes <= 0 {
		return nil
	}
	loc := orUTC(in.Location)

	window, ok := Window(in.Day, loc, in.Weekly, in.Override)
	if !ok {
		return nil
	}
	if !BookableDay(in.Day, in.Now, loc, in.Policy.MaxAdvanceBookingDays) {
		return nil
	}

	minStart := in.Now.Add(in.Policy.MinNotice())
	blocks := blockingRanges(in.Bookings, in.Busy, in.Policy.Buffer())
	duration := time.Duration(in.DurationMinutes) * time.Minute
	step := in.Policy.Step()

	var slots []time.Time
	for start := window.Start; !start.Add(duration).After(window.End); start = start.Add(step) {
		end := start.Add(duration)
		if start.Before(minStart) {
			continue
		}
		if OverlapsAny(start, end, blocks) {
			continue
		}
		slots = append(slots, start.UTC())
	}
	return slots
}

// Offers reports whether start is one of the slots produced for in.
func Offers(in Input, start time.Time) bool {
	for _, s := range AvailableSlots(in) {
		if s.Equal(start) {
			return true
		}
	}
	return false
}
