package scheduler

import (
	"testing"
	"time"
)

func TestBuildWeeklySpec(t *testing.T) {
	tests := []struct {
		day  time.Weekday
		in   string
		want string
	}{
		{time.Monday, "00:00", "0 0 0 * * 1"},
		{time.Sunday, "23:59", "0 59 23 * * 0"},
		{time.Friday, "7:05", "0 5 7 * * 5"},
	}
	for _, tt := range tests {
		got, err := buildWeeklySpec(tt.day, tt.in)
		if err != nil {
			t.Fatalf("buildWeeklySpec(%v, %q): %v", tt.day, tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("buildWeeklySpec(%v, %q) = %q, want %q", tt.day, tt.in, got, tt.want)
		}
	}
}

func TestBuildWeeklySpecInvalid(t *testing.T) {
	for _, in := range []string{"", "24:00", "12:60", "noon", "1:2:3"} {
		if _, err := buildWeeklySpec(time.Monday, in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestWeekStartFiresOnMondayMidnight(t *testing.T) {
	s := New(time.UTC)
	id, err := s.ScheduleWeekStart(func() {})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	s.Start()
	defer s.Stop()

	next := s.Next(id)
	if next.Weekday() != time.Monday || next.Hour() != 0 || next.Minute() != 0 || next.Second() != 0 {
		t.Fatalf("next run %v is not monday 00:00", next)
	}
}

func TestScheduleIntervalRejectsNonPositive(t *testing.T) {
	s := New(time.UTC)
	if _, err := s.ScheduleInterval(0, func() {}); err == nil {
		t.Fatalf("expected error")
	}
}
