package week

import (
	"testing"
	"time"
)

// 2024-01-01 is a Monday.
var w0 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday midnight", w0, w0},
		{"monday afternoon", time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC), w0},
		{"wednesday", time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), w0},
		{"sunday last millisecond", time.Date(2024, 1, 7, 23, 59, 59, int(999*time.Millisecond), time.UTC), w0},
		{"next monday", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		{"across year boundary", time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC), time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfWeek(tt.in); !got.Equal(tt.want) {
				t.Fatalf("StartOfWeek(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStartOfWeekAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Clocks go forward on Sunday 2024-03-31.
	sunday := time.Date(2024, 3, 31, 22, 0, 0, 0, loc)
	got := StartOfWeek(sunday)
	want := time.Date(2024, 3, 25, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	next := AddWeeks(got, 1)
	if next.Hour() != 0 || next.Weekday() != time.Monday {
		t.Fatalf("AddWeeks lost midnight alignment: %v", next)
	}
	if n := WeeksBetween(got, next); n != 1 {
		t.Fatalf("WeeksBetween across DST = %d, want 1", n)
	}
}

func TestDayRange(t *testing.T) {
	start, end := DayRange(time.Date(2024, 5, 17, 18, 45, 3, 0, time.UTC))
	if !start.Equal(time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", end)
	}
}

func TestDays(t *testing.T) {
	days := Days(time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC))
	for i, d := range days {
		want := w0.AddDate(0, 0, i)
		if !d.Equal(want) {
			t.Fatalf("day %d = %v, want %v", i, d, want)
		}
	}
	if days[6].Weekday() != time.Sunday {
		t.Fatalf("last day should be sunday, got %v", days[6].Weekday())
	}
}

func TestWeeksBetween(t *testing.T) {
	tests := []struct {
		to   time.Time
		want int
	}{
		{w0, 0},
		{w0.AddDate(0, 0, 7), 1},
		{w0.AddDate(0, 0, -7), -1},
		{w0.AddDate(0, 0, 35), 5},
		{w0.AddDate(0, 0, -35), -5},
		{w0.AddDate(0, 0, 6), 0},
		{w0.AddDate(0, 0, -1), -1},
	}
	for _, tt := range tests {
		if got := WeeksBetween(w0, tt.to); got != tt.want {
			t.Fatalf("WeeksBetween(w0, %v) = %d, want %d", tt.to, got, tt.want)
		}
	}
}

func TestParityAlternates(t *testing.T) {
	anchor := Anchor{WeekStart: w0, Value: First}
	tests := []struct {
		weeks int
		want  int
	}{
		{0, 1},
		{1, 2},
		{-1, 2},
		{2, 1},
		{-2, 1},
		{-3, 2},
		{51, 2},
		{-52, 1},
	}
	for _, tt := range tests {
		if got := Parity(anchor, AddWeeks(w0, tt.weeks)); got != tt.want {
			t.Fatalf("Parity(w0%+d weeks) = %d, want %d", tt.weeks, got, tt.want)
		}
	}
}

func TestParityAfterReanchor(t *testing.T) {
	w5 := w0.AddDate(0, 0, 35)
	anchor := Anchor{WeekStart: w5, Value: Second}
	if got := Parity(anchor, w5); got != Second {
		t.Fatalf("re-anchored week parity = %d, want 2", got)
	}
	if got := Parity(anchor, w0); got != First {
		t.Fatalf("w0 parity after re-anchor = %d, want 1", got)
	}
	if got := Parity(anchor, AddWeeks(w5, 1)); got != First {
		t.Fatalf("week after anchor = %d, want 1", got)
	}
}

func TestOppositeAndValid(t *testing.T) {
	if Opposite(First) != Second || Opposite(Second) != First {
		t.Fatalf("Opposite does not flip")
	}
	for _, p := range []int{0, 3, -1} {
		if ValidParity(p) {
			t.Fatalf("ValidParity(%d) = true", p)
		}
	}
}

func TestHasTimeOfDay(t *testing.T) {
	if HasTimeOfDay(w0) {
		t.Fatalf("midnight has no time of day")
	}
	if !HasTimeOfDay(w0.Add(time.Millisecond)) {
		t.Fatalf("expected time of day")
	}
}

func TestMillisRoundTrip(t *testing.T) {
	ms := ToMillis(w0)
	if got := FromMillis(ms, time.UTC); !got.Equal(w0) {
		t.Fatalf("got %v", got)
	}
}
