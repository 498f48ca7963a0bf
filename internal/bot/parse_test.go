package bot

import (
	"errors"
	"testing"
	"time"

	"week-planner/internal/service"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-13", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)},
		{"2024-03-13 18:30", time.Date(2024, 3, 13, 18, 30, 0, 0, time.UTC)},
		{"  2024-03-13   18:30 ", time.Date(2024, 3, 13, 18, 30, 0, 0, time.UTC)},
		{"13.03.2024", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)},
		{"13.03.2024 07:05", time.Date(2024, 3, 13, 7, 5, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in, time.UTC)
		if err != nil {
			t.Fatalf("parseDate(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "tomorrow", "2024-13-01", "32.01.2024"} {
		if _, err := parseDate(bad, time.UTC); err == nil {
			t.Fatalf("parseDate(%q) should fail", bad)
		}
	}
}

func TestParseBucket(t *testing.T) {
	for _, general := range []string{"general", "Общие", "-1", "0"} {
		got, err := parseBucket(general)
		if err != nil || got != nil {
			t.Fatalf("parseBucket(%q) = %v, %v", general, got, err)
		}
	}
	got, err := parseBucket("#5")
	if err != nil || got == nil || *got != 5 {
		t.Fatalf("parseBucket(#5) = %v, %v", got, err)
	}
	if _, err := parseBucket(""); !errors.Is(err, errNoArgs) {
		t.Fatalf("expected errNoArgs, got %v", err)
	}
	if _, err := parseBucket("work"); err == nil {
		t.Fatalf("expected error for name")
	}
}

func TestParseSectionID(t *testing.T) {
	if id, err := parseSectionID("general"); err != nil || id != service.GeneralBucketID {
		t.Fatalf("general = %d, %v", id, err)
	}
	if id, err := parseSectionID("7"); err != nil || id != 7 {
		t.Fatalf("7 = %d, %v", id, err)
	}
}

func TestParseIDAndText(t *testing.T) {
	id, text, err := parseIDAndText("  12   Buy  fresh bread ")
	if err != nil || id != 12 || text != "Buy  fresh bread" {
		t.Fatalf("got %d %q %v", id, text, err)
	}
	id, text, err = parseIDAndText("3")
	if err != nil || id != 3 || text != "" {
		t.Fatalf("got %d %q %v", id, text, err)
	}
	if _, _, err := parseIDAndText("x title"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("3, 1 2")
	if err != nil || len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Fatalf("got %v %v", ids, err)
	}
	if _, err := parseIDs("1 1"); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := parseIDs(""); !errors.Is(err, errNoArgs) {
		t.Fatalf("expected errNoArgs, got %v", err)
	}
}

func TestParseWeekDelta(t *testing.T) {
	tests := map[string]int{"": 1, "3": 3, "-2": -2, " 10 ": 10}
	for in, want := range tests {
		got, err := parseWeekDelta(in)
		if err != nil || got != want {
			t.Fatalf("parseWeekDelta(%q) = %d, %v", in, got, err)
		}
	}
	if _, err := parseWeekDelta("many"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseAddArgs(t *testing.T) {
	in, err := parseAddArgs("Buy bread", time.UTC)
	if err != nil || in.Title != "Buy bread" || in.Date != nil || in.CategoryID != nil || in.IsWeekTask {
		t.Fatalf("plain: %+v %v", in, err)
	}

	in, err = parseAddArgs("Dentist | 2024-03-13 18:30 | 4", time.UTC)
	if err != nil {
		t.Fatalf("full: %v", err)
	}
	if in.Title != "Dentist" || in.Date == nil || !in.Date.Equal(time.Date(2024, 3, 13, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("full: %+v", in)
	}
	if in.CategoryID == nil || *in.CategoryID != 4 {
		t.Fatalf("category: %v", in.CategoryID)
	}

	in, err = parseAddArgs("Call mom | | general", time.UTC)
	if err != nil || in.Date != nil || in.CategoryID != nil {
		t.Fatalf("empty date: %+v %v", in, err)
	}

	for _, bad := range []string{"", " | 2024-03-13", "x | someday", "x | | y", "a | b | c | d"} {
		if _, err := parseAddArgs(bad, time.UTC); err == nil {
			t.Fatalf("parseAddArgs(%q) should fail", bad)
		}
	}
}

func TestParseAddWeekArgs(t *testing.T) {
	monday := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	in, err := parseAddWeekArgs("Gym | 2", monday)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !in.IsWeekTask || in.Date == nil || !in.Date.Equal(monday) || in.Title != "Gym" {
		t.Fatalf("unexpected input %+v", in)
	}
	if in.CategoryID == nil || *in.CategoryID != 2 {
		t.Fatalf("category: %v", in.CategoryID)
	}
	if _, err := parseAddWeekArgs("  ", monday); err == nil {
		t.Fatalf("expected error for blank title")
	}
}

func TestMenuAlias(t *testing.T) {
	if cmd, ok := menuAlias(menuLabelWeek); !ok || cmd != "week" {
		t.Fatalf("week alias = %q %v", cmd, ok)
	}
	if _, ok := menuAlias("hello"); ok {
		t.Fatalf("unexpected alias")
	}
}
