// Package calendar maps dated items onto a trip's day range and answers
// range and membership queries at calendar-day granularity.
package calendar

import "time"

// Day is the answer to a date click: whether the day sits inside the trip
// range and which items fall on it. Clicking any day succeeds; out-of-range
// days simply come back with InRange false, which callers use to decide
// whether "add activity for this date" is offered.
type Day[T any] struct {
	Date    time.Time
	InRange bool
	Items   []T
}

// Index buckets a list of items by calendar day against a start/end range.
// Comparison is day-granular: timestamps are truncated to their calendar day
// for bucketing, the original values stay untouched on the items.
type Index[T any] struct {
	start    *time.Time
	end      *time.Time
	items    []T
	dateOf   func(T) *time.Time
}

// New builds an index. start and end may be nil (open trips have no range);
// dateOf returns an item's timestamp, or nil for unscheduled items, which
// never match any day. A start after end yields a range that contains no
// day at all; that is documented behavior, not an error.
func New[T any](start, end *time.Time, items []T, dateOf func(T) *time.Time) *Index[T] {
	return &Index[T]{start: start, end: end, items: items, dateOf: dateOf}
}

// IsInRange reports whether day falls between the range bounds, inclusive on
// both ends, comparing year/month/day only.
func (ix *Index[T]) IsInRange(day time.Time) bool {
	if ix.start == nil || ix.end == nil {
		return false
	}
	d := truncateDay(day)
	return !d.Before(truncateDay(*ix.start)) && !d.After(truncateDay(*ix.end))
}

// ItemsOn returns the items whose timestamp truncates to day, in original
// list order. Unscheduled items are excluded.
func (ix *Index[T]) ItemsOn(day time.Time) []T {
	matched := make([]T, 0)
	for _, item := range ix.items {
		ts := ix.dateOf(item)
		if ts == nil {
			continue
		}
		if sameDay(*ts, day) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Unscheduled returns the items with no timestamp, in original list order.
func (ix *Index[T]) Unscheduled() []T {
	var out []T
	for _, item := range ix.items {
		if ix.dateOf(item) == nil {
			out = append(out, item)
		}
	}
	return out
}

// Click resolves a clicked day to its in-range flag and item set.
func (ix *Index[T]) Click(day time.Time) Day[T] {
	return Day[T]{
		Date:    truncateDay(day),
		InRange: ix.IsInRange(day),
		Items:   ix.ItemsOn(day),
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
