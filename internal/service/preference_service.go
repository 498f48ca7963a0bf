package service

import (
	"context"
	"strings"

	"week-planner/internal/live"
	"week-planner/internal/repository"
)

// DefaultGeneralTitle names the general bucket until the user renames it.
const DefaultGeneralTitle = "Общие"

// PreferenceService exposes the title of the general bucket.
type PreferenceService struct {
	prefs        *repository.PreferenceRepository
	bus          *live.Bus
	defaultTitle string
}

func NewPreferenceService(prefs *repository.PreferenceRepository, bus *live.Bus, defaultTitle string) *PreferenceService {
	if strings.TrimSpace(defaultTitle) == "" {
		defaultTitle = DefaultGeneralTitle
	}
	return &PreferenceService{prefs: prefs, bus: bus, defaultTitle: defaultTitle}
}

// GeneralTitle returns the stored title or the default one.
func (s *PreferenceService) GeneralTitle(ctx context.Context) (string, error) {
	title, ok, err := s.prefs.Get(ctx, repository.KeyGeneralTitle)
	if err != nil {
		return "", err
	}
	if !ok {
		return s.defaultTitle, nil
	}
	return title, nil
}

// RenameGeneralCategory stores a new general title; a blank name is ignored.
func (s *PreferenceService) RenameGeneralCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return s.prefs.Set(ctx, repository.KeyGeneralTitle, name)
}

// WatchGeneralTitle streams the general title.
func (s *PreferenceService) WatchGeneralTitle(ctx context.Context) (<-chan string, error) {
	return live.Observe(ctx, s.bus, s.GeneralTitle, live.Preferences)
}
