package availability

import "time"

// Interval is a half-open range of absolute time [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [start, end) intersects [b.Start, b.End).
// Touching intervals do not overlap.
func Overlaps(start, end time.Time, b Interval) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// OverlapsAny reports whether [start, end) intersects any of the intervals.
func OverlapsAny(start, end time.Time, blocks []Interval) bool {
	for _, b := range blocks {
		if Overlaps(start, end, b) {
			return true
		}
	}
	return false
}

// Inflate widens the interval by buffer on both sides.
func (i Interval) Inflate(buffer time.Duration) Interval {
	return Interval{Start: i.Start.Add(-buffer), End: i.End.Add(buffer)}
}

// Within returns the intervals that overlap span, unchanged.
func Within(intervals []Interval, span Interval) []Interval {
	var out []Interval
	for _, iv := range intervals {
		if Overlaps(span.Start, span.End, iv) {
			out = append(out, iv)
		}
	}
	return out
}

// blockingRanges combines buffered bookings with external busy ranges. The result is
// neither merged nor deduplicated; overlapping entries block the same as their union.
func blockingRanges(bookings, busy []Interval, buffer time.Duration) []Interval {
	blocks := make([]Interval, 0, len(bookings)+len(busy))
	for _, b := range bookings {
		blocks = append(blocks, b.Inflate(buffer))
	}
	return append(blocks, busy...)
}
