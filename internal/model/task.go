package model

import "time"

// Task represents a single item in the planner.
//
// Date holds unix milliseconds. A nil CategoryID places the task in the
// general bucket. Week tasks keep Date on the Monday 00:00 of their week.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	IsCompleted bool   `gorm:"default:false"`
	Date        *int64 `gorm:"index"`
	CategoryID  *uint  `gorm:"index"`
	IsWeekTask  bool   `gorm:"default:false"`
}

// When returns the task date in loc, if the task has one.
func (t Task) When(loc *time.Location) (time.Time, bool) {
	if t.Date == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*t.Date).In(loc), true
}

// InGeneral reports whether the task belongs to the general bucket.
func (t Task) InGeneral() bool {
	return t.CategoryID == nil
}
