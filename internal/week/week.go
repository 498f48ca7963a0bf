// Package week aligns timestamps to days and Monday-based weeks and computes
// the alternating parity of a week relative to an anchor week.
//
// All alignment happens in the location carried by the time value, using
// calendar arithmetic, so weeks that cross a DST switch still start at
// 00:00 local time.
package week

import (
	"fmt"
	"time"
)

// Parity values. Every calendar week is one or the other, alternating.
const (
	First  = 1
	Second = 2
)

// StartOfDay returns t truncated to 00:00:00.000 of its calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayRange returns [start, end) of the calendar day containing t.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// StartOfWeek returns Monday 00:00:00.000 of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// Range returns [start, end) of the week containing t.
func Range(t time.Time) (time.Time, time.Time) {
	start := StartOfWeek(t)
	return start, start.AddDate(0, 0, 7)
}

// AddWeeks shifts t by n calendar weeks, n may be negative.
func AddWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, 7*n)
}

// Days returns the start of each day of the week beginning at weekStart.
func Days(weekStart time.Time) [7]time.Time {
	var days [7]time.Time
	start := StartOfWeek(weekStart)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// WeeksBetween returns how many whole weeks separate the week of from and
// the week of to. The result is negative when to lies before from.
func WeeksBetween(from, to time.Time) int {
	days := civilDay(StartOfWeek(to)) - civilDay(StartOfWeek(from))
	return floorDiv(days, 7)
}

// Anchor pins a parity value to a specific week.
type Anchor struct {
	WeekStart time.Time
	Value     int
}

func (a Anchor) String() string {
	return fmt.Sprintf("%s=%d", a.WeekStart.Format("2006-01-02"), a.Value)
}

// Parity returns the parity of the week starting at weekStart.
func Parity(anchor Anchor, weekStart time.Time) int {
	if mod(WeeksBetween(anchor.WeekStart, weekStart), 2) == 0 {
		return anchor.Value
	}
	return Opposite(anchor.Value)
}

// Opposite flips a parity value.
func Opposite(p int) int {
	if p == First {
		return Second
	}
	return First
}

// ValidParity reports whether p is First or Second.
func ValidParity(p int) bool {
	return p == First || p == Second
}

// ToMillis converts t to unix milliseconds.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts unix milliseconds to a time in loc.
func FromMillis(ms int64, loc *time.Location) time.Time {
	return time.UnixMilli(ms).In(loc)
}

// HasTimeOfDay reports whether t is not exactly at the start of its day.
func HasTimeOfDay(t time.Time) bool {
	return !t.Equal(StartOfDay(t))
}

// civilDay numbers calendar days independent of location and DST.
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod is the mathematical remainder, never negative for positive b.
func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
