package service

import (
	"sort"
	"time"

	"week-planner/internal/week"
)

// GeneralBucketID stands for the general bucket in the expanded set.
const GeneralBucketID = -1

// ViewState is the transient state of one front end: which list sections
// are expanded and which week is shown. It is never persisted by the core.
type ViewState struct {
	ExpandedCategoryIDs map[int]bool `json:"expanded_category_ids"`
	CurrentWeekStart    time.Time    `json:"current_week_start"`
}

// NewViewState starts at the week containing now with nothing expanded.
func NewViewState(now time.Time) *ViewState {
	return &ViewState{
		ExpandedCategoryIDs: make(map[int]bool),
		CurrentWeekStart:    week.StartOfWeek(now),
	}
}

// ToggleCategoryExpand flips whether id is expanded and returns the new state.
func (v *ViewState) ToggleCategoryExpand(id int) bool {
	if v.ExpandedCategoryIDs == nil {
		v.ExpandedCategoryIDs = make(map[int]bool)
	}
	if v.ExpandedCategoryIDs[id] {
		delete(v.ExpandedCategoryIDs, id)
		return false
	}
	v.ExpandedCategoryIDs[id] = true
	return true
}

func (v *ViewState) IsExpanded(id int) bool {
	return v.ExpandedCategoryIDs[id]
}

// Expanded returns the expanded ids in ascending order.
func (v *ViewState) Expanded() []int {
	ids := make([]int, 0, len(v.ExpandedCategoryIDs))
	for id := range v.ExpandedCategoryIDs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ChangeWeek moves the shown week by delta weeks.
func (v *ViewState) ChangeWeek(delta int) {
	v.CurrentWeekStart = week.AddWeeks(v.CurrentWeekStart, delta)
}

// SetWeekToDate shows the week containing date.
func (v *ViewState) SetWeekToDate(date time.Time) {
	loc := v.CurrentWeekStart.Location()
	v.CurrentWeekStart = week.StartOfWeek(date.In(loc))
}

// IsCurrentWeek reports whether the shown week contains now.
func (v *ViewState) IsCurrentWeek(now time.Time) bool {
	return v.CurrentWeekStart.Equal(week.StartOfWeek(now.In(v.CurrentWeekStart.Location())))
}
