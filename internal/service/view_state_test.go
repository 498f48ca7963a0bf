package service

import (
	"testing"
	"time"
)

func TestViewStateStartsAtCurrentWeek(t *testing.T) {
	now := time.Date(2024, 3, 14, 16, 0, 0, 0, time.UTC)
	v := NewViewState(now)
	want := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	if !v.CurrentWeekStart.Equal(want) {
		t.Fatalf("start = %v, want %v", v.CurrentWeekStart, want)
	}
	if !v.IsCurrentWeek(now) {
		t.Fatalf("expected current week")
	}
	if len(v.Expanded()) != 0 {
		t.Fatalf("nothing should be expanded")
	}
}

func TestToggleCategoryExpand(t *testing.T) {
	v := NewViewState(time.Now())
	if !v.ToggleCategoryExpand(GeneralBucketID) || !v.IsExpanded(GeneralBucketID) {
		t.Fatalf("general bucket should be expanded")
	}
	v.ToggleCategoryExpand(5)
	if got := v.Expanded(); len(got) != 2 || got[0] != GeneralBucketID || got[1] != 5 {
		t.Fatalf("expanded = %v", got)
	}
	if v.ToggleCategoryExpand(GeneralBucketID) || v.IsExpanded(GeneralBucketID) {
		t.Fatalf("general bucket should be collapsed")
	}

	var zero ViewState
	if !zero.ToggleCategoryExpand(1) {
		t.Fatalf("zero value view state must be usable")
	}
}

func TestChangeWeek(t *testing.T) {
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	v := NewViewState(start)

	v.ChangeWeek(1)
	if want := start.AddDate(0, 0, 7); !v.CurrentWeekStart.Equal(want) {
		t.Fatalf("after +1: %v", v.CurrentWeekStart)
	}
	v.ChangeWeek(-53)
	if want := start.AddDate(0, 0, -52*7); !v.CurrentWeekStart.Equal(want) {
		t.Fatalf("after -53: %v", v.CurrentWeekStart)
	}
	if v.CurrentWeekStart.Weekday() != time.Monday {
		t.Fatalf("cursor left monday: %v", v.CurrentWeekStart)
	}
	if v.IsCurrentWeek(start) {
		t.Fatalf("moved cursor is not the current week")
	}
}

func TestSetWeekToDate(t *testing.T) {
	v := NewViewState(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	v.SetWeekToDate(time.Date(2025, 1, 1, 22, 10, 0, 0, time.UTC))
	want := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	if !v.CurrentWeekStart.Equal(want) {
		t.Fatalf("week = %v, want %v", v.CurrentWeekStart, want)
	}
}
