package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"week-planner/internal/service"
)

var errNoArgs = errors.New("missing arguments")

var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
}

// parseDate accepts YYYY-MM-DD or DD.MM.YYYY, optionally followed by HH:MM.
func parseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.Join(strings.Fields(raw), " ")
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func parseID(raw string) (uint, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if raw == "" {
		return 0, errNoArgs
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func isGeneralToken(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "general", "общие", "-1", "0":
		return true
	}
	return false
}

// parseBucket returns nil for the general bucket.
func parseBucket(raw string) (*uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errNoArgs
	}
	if isGeneralToken(raw) {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseSectionID maps a section argument to a view-state id.
func parseSectionID(raw string) (int, error) {
	bucket, err := parseBucket(raw)
	if err != nil {
		return 0, err
	}
	if bucket == nil {
		return service.GeneralBucketID, nil
	}
	return int(*bucket), nil
}

// parseIDAndText splits "12 some text" into the id and the text.
func parseIDAndText(args string) (uint, string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, "", errNoArgs
	}
	id, err := parseID(fields[0])
	if err != nil {
		return 0, "", err
	}
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(args), fields[0]))
	return id, text, nil
}

func parseIDs(args string) ([]uint, error) {
	fields := strings.Fields(strings.ReplaceAll(args, ",", " "))
	if len(fields) == 0 {
		return nil, errNoArgs
	}
	ids := make([]uint, 0, len(fields))
	seen := make(map[uint]bool, len(fields))
	for _, field := range fields {
		id, err := parseID(field)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate id %d", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// parseWeekDelta reads an optional signed week count, defaulting to 1.
func parseWeekDelta(args string) (int, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(args)
	if err != nil {
		return 0, fmt.Errorf("invalid week count %q", args)
	}
	return n, nil
}

// parseAddArgs reads "title | date | category" where date and category are
// optional. An empty date part leaves the task undated.
func parseAddArgs(args string, loc *time.Location) (service.TaskInput, error) {
	parts := strings.Split(args, "|")
	input := service.TaskInput{Title: strings.TrimSpace(parts[0])}
	if input.Title == "" {
		return input, errNoArgs
	}
	if len(parts) > 3 {
		return input, fmt.Errorf("too many parts")
	}
	if len(parts) > 1 {
		if raw := strings.TrimSpace(parts[1]); raw != "" {
			date, err := parseDate(raw, loc)
			if err != nil {
				return input, err
			}
			input.Date = &date
		}
	}
	if len(parts) > 2 {
		if raw := strings.TrimSpace(parts[2]); raw != "" {
			bucket, err := parseBucket(raw)
			if err != nil {
				return input, err
			}
			input.CategoryID = bucket
		}
	}
	return input, nil
}

// parseAddWeekArgs reads "title | category" for a task of the shown week.
func parseAddWeekArgs(args string, weekStart time.Time) (service.TaskInput, error) {
	parts := strings.Split(args, "|")
	input := service.TaskInput{
		Title:      strings.TrimSpace(parts[0]),
		Date:       &weekStart,
		IsWeekTask: true,
	}
	if input.Title == "" {
		return input, errNoArgs
	}
	if len(parts) > 2 {
		return input, fmt.Errorf("too many parts")
	}
	if len(parts) == 2 {
		if raw := strings.TrimSpace(parts[1]); raw != "" {
			bucket, err := parseBucket(raw)
			if err != nil {
				return input, err
			}
			input.CategoryID = bucket
		}
	}
	return input, nil
}
