package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"week-planner/internal/live"
	"week-planner/internal/repository"
	"week-planner/internal/week"
)

// ErrInvalidParity is returned when a parity other than 1 or 2 is requested.
var ErrInvalidParity = errors.New("parity must be 1 or 2")

// ParityService computes and re-anchors week parity.
type ParityService struct {
	prefs *repository.PreferenceRepository
	bus   *live.Bus
	loc   *time.Location
}

func NewParityService(prefs *repository.PreferenceRepository, bus *live.Bus, loc *time.Location) *ParityService {
	if loc == nil {
		loc = time.Local
	}
	return &ParityService{prefs: prefs, bus: bus, loc: loc}
}

// Anchor returns the stored anchor. ok is false when none was set yet or
// the stored one is unusable.
func (s *ParityService) Anchor(ctx context.Context) (anchor week.Anchor, ok bool, err error) {
	date, hasDate, err := s.prefs.GetInt64(ctx, repository.KeyParityAnchorDate)
	if err != nil {
		return week.Anchor{}, false, err
	}
	value, hasValue, err := s.prefs.GetInt64(ctx, repository.KeyParityAnchorValue)
	if err != nil {
		return week.Anchor{}, false, err
	}
	if !hasDate || !hasValue || !week.ValidParity(int(value)) {
		return week.Anchor{}, false, nil
	}
	return week.Anchor{WeekStart: week.FromMillis(date, s.loc), Value: int(value)}, true, nil
}

// WeekParity returns the parity of the week containing weekStart. The first
// call ever anchors that week as parity 1.
func (s *ParityService) WeekParity(ctx context.Context, weekStart time.Time) (int, error) {
	start := week.StartOfWeek(weekStart.In(s.loc))
	anchor, ok, err := s.Anchor(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		if err := s.SetParity(ctx, start, week.First); err != nil {
			return 0, err
		}
		log.Printf("[info] parity anchored at %s", start.Format("2006-01-02"))
		return week.First, nil
	}
	return week.Parity(anchor, start), nil
}

// SetParity re-anchors parity so that the week containing weekStart gets
// value. Every other week follows from the new anchor.
func (s *ParityService) SetParity(ctx context.Context, weekStart time.Time, value int) error {
	if !week.ValidParity(value) {
		return fmt.Errorf("set parity %d: %w", value, ErrInvalidParity)
	}
	start := week.StartOfWeek(weekStart.In(s.loc))
	return s.prefs.SetMany(ctx, map[string]string{
		repository.KeyParityAnchorDate:  strconv.FormatInt(week.ToMillis(start), 10),
		repository.KeyParityAnchorValue: strconv.Itoa(value),
	})
}

// FlipParity gives the week containing weekStart the opposite of its current
// parity and returns the new value.
func (s *ParityService) FlipParity(ctx context.Context, weekStart time.Time) (int, error) {
	current, err := s.WeekParity(ctx, weekStart)
	if err != nil {
		return 0, err
	}
	next := week.Opposite(current)
	if err := s.SetParity(ctx, weekStart, next); err != nil {
		return 0, err
	}
	return next, nil
}

// WatchParity streams the parity of the week containing weekStart.
func (s *ParityService) WatchParity(ctx context.Context, weekStart time.Time) (<-chan int, error) {
	load := func(ctx context.Context) (int, error) {
		return s.WeekParity(ctx, weekStart)
	}
	return live.Observe(ctx, s.bus, load, live.Preferences)
}
