package date

import (
	"fmt"
	"iter"
)

// Range represents an inclusive range of days.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Len returns the number of days in the range, 0 if To is before From.
func (r Range) Len() int {
	if r.To.Before(r.From) {
		return 0
	}
	return r.To.DaysSince(r.From) + 1
}

// Days returns an iterator that yields each date within the range, inclusive.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Intersect returns the days common to r and x, and false if there are none.
func (r Range) Intersect(x Range) (Range, bool) {
	from, to := r.From, r.To
	if x.From.After(from) {
		from = x.From
	}
	if x.To.Before(to) {
		to = x.To
	}
	if to.Before(from) {
		return Range{}, false
	}
	return Range{From: from, To: to}, true
}

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
