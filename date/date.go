// Package date provides a day granularity Date, inclusive ranges of days, and
// sparse histories of values indexed by day.
package date

import (
	"cmp"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// Layout is the ISO-8601 layout dates are written in.
	Layout = "2006-01-02"
	// lenient also reads single digit months and days.
	lenient = "2006-1-2"
)

// Date is a calendar day, without timezone. The zero value is not a valid day
// and stands for "no date".
type Date struct {
	y int
	m time.Month
	d int
}

// New returns the Date of year, month and day, normalized the way time.Date
// normalizes: New(2024, 2, 30) is March 1st.
func New(year int, month time.Month, day int) Date {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y, m, d}
}

// On returns the day of t as seen in loc.
func On(t time.Time, loc *time.Location) Date { return New(t.In(loc).Date()) }

// TodayIn returns the current day as seen in loc.
func TodayIn(loc *time.Location) Date { return On(time.Now(), loc) }

// midnight is the UTC midnight of d, comparable with ==.
func (d Date) midnight() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) IsZero() bool         { return d == Date{} }
func (d Date) Before(x Date) bool   { return d.Compare(x) < 0 }
func (d Date) After(x Date) bool    { return d.Compare(x) > 0 }
func (d Date) Add(days int) Date    { return New(d.y, d.m, d.d+days) }
func (d Date) String() string       { return d.midnight().Format(Layout) }
func (d Date) DaysSince(x Date) int { return int(d.midnight().Sub(x.midnight()).Hours() / 24) }
func (d Date) Compare(x Date) int   { return cmp.Or(cmp.Compare(d.y, x.y), cmp.Compare(d.m, x.m), cmp.Compare(d.d, x.d)) }

// Parse reads a YYYY-MM-DD date. Single digit months and days are accepted.
func Parse(s string) (Date, error) {
	t, err := time.Parse(lenient, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return New(t.Date()), nil
}

// MustParse is Parse for literals, it panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MarshalJSON writes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalJSON reads a date string, "" is the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalText lets Date be a JSON object key.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText is the reverse of MarshalText.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
