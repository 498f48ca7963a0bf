package repository

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"week-planner/internal/live"
	"week-planner/internal/model"
)

// DefaultNamespace is the preference namespace used by the planner.
const DefaultNamespace = "planner_prefs"

// Preference keys.
const (
	KeyGeneralTitle      = "general_title"
	KeyParityAnchorDate  = "parity_anchor_date"
	KeyParityAnchorValue = "parity_anchor_value"
)

// PreferenceRepository is a small key-value store scoped to one namespace.
// Keys are independent; a missing key is reported with ok=false.
type PreferenceRepository struct {
	db        *gorm.DB
	bus       *live.Bus
	namespace string
}

func NewPreferenceRepository(db *gorm.DB, bus *live.Bus, namespace string) *PreferenceRepository {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &PreferenceRepository{db: db, bus: bus, namespace: namespace}
}

func (r *PreferenceRepository) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	var pref model.Preference
	err = r.db.WithContext(ctx).Where("namespace = ? AND pref_key = ?", r.namespace, key).First(&pref).Error
	switch {
	case err == nil:
		return pref.Value, true, nil
	case IsNotFound(err):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("get preference %q: %w", key, err)
	}
}

func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	return r.SetMany(ctx, map[string]string{key: value})
}

// SetMany writes several keys in one transaction.
func (r *PreferenceRepository) SetMany(ctx context.Context, values map[string]string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			pref := model.Preference{Namespace: r.namespace, Key: key, Value: value}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "namespace"}, {Name: "pref_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value"}),
			}).Create(&pref).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set preferences: %w", err)
	}
	r.bus.Publish(live.Preferences)
	return nil
}

// GetInt64 reads an integer preference. A stored value that does not parse
// is treated as missing.
func (r *PreferenceRepository) GetInt64(ctx context.Context, key string) (int64, bool, error) {
	raw, ok, err := r.Get(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

func (r *PreferenceRepository) SetInt64(ctx context.Context, key string, value int64) error {
	return r.Set(ctx, key, strconv.FormatInt(value, 10))
}
