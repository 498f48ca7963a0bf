package bot

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode"

	"week-planner/internal/model"
	"week-planner/internal/service"
	"week-planner/internal/week"
)

const (
	iconOpen      = "⬜"
	iconDone      = "✅"
	iconWeekly    = "🔁"
	iconDate      = "📅"
	iconExpanded  = "▾"
	iconCollapsed = "▸"
	iconCurrent   = "📍"
)

var monthNames = [...]string{
	"январь", "февраль", "март", "апрель", "май", "июнь",
	"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
}

var dayNames = [...]string{
	"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье",
}

// WeekView is everything the week screen shows.
type WeekView struct {
	Start     time.Time
	Parity    int
	IsCurrent bool
	WeekTasks []model.Task
	Days      [7][]model.Task
}

func escape(s string) string {
	return html.EscapeString(s)
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// formatTask renders one task line. Dates with a time of day show as
// "HH:MM (dd.MM)", plain dates as "dd.MM".
func formatTask(task model.Task, loc *time.Location) string {
	var b strings.Builder
	icon := iconOpen
	if task.IsCompleted {
		icon = iconDone
	}
	title := escape(normalizeTitle(task.Title))
	if task.IsCompleted {
		title = "<s>" + title + "</s>"
	}
	b.WriteString(fmt.Sprintf("%s <b>#%d</b> %s", icon, task.ID, title))

	if when, ok := task.When(loc); ok {
		switch {
		case task.IsWeekTask:
			b.WriteString(fmt.Sprintf(" · %s неделя с %s", iconWeekly, when.Format("02.01")))
		case week.HasTimeOfDay(when):
			b.WriteString(fmt.Sprintf(" · %s %s", iconDate, when.Format("15:04 (02.01)")))
		default:
			b.WriteString(fmt.Sprintf(" · %s %s", iconDate, when.Format("02.01")))
		}
	} else if task.IsWeekTask {
		b.WriteString(" · " + iconWeekly)
	}
	b.WriteByte('\n')
	return b.String()
}

func formatTasks(tasks []model.Task, loc *time.Location, indent string) string {
	if len(tasks) == 0 {
		return indent + "— пусто\n"
	}
	var b strings.Builder
	for _, task := range tasks {
		b.WriteString(indent)
		b.WriteString(formatTask(task, loc))
	}
	return b.String()
}

// renderList draws the general bucket followed by every category in sort
// order. Tasks are listed only for expanded sections.
func renderList(generalTitle string, categories []model.Category, tasks []model.Task, view *service.ViewState, loc *time.Location) string {
	byBucket := make(map[int][]model.Task)
	for _, task := range tasks {
		key := service.GeneralBucketID
		if task.CategoryID != nil {
			key = int(*task.CategoryID)
		}
		byBucket[key] = append(byBucket[key], task)
	}

	var b strings.Builder
	section := func(id int, title string) {
		items := byBucket[id]
		marker := iconCollapsed
		if view.IsExpanded(id) {
			marker = iconExpanded
		}
		b.WriteString(fmt.Sprintf("%s <b>%s</b> <i>(%d, /expand %d)</i>\n", marker, escape(title), len(items), id))
		if view.IsExpanded(id) {
			b.WriteString(formatTasks(items, loc, "   "))
		}
	}

	section(service.GeneralBucketID, generalTitle)
	for _, category := range categories {
		section(int(category.ID), category.Name)
	}
	return strings.TrimSpace(b.String())
}

func renderCategories(generalTitle string, categories []model.Category) string {
	var b strings.Builder
	b.WriteString("📂 <b>Разделы</b>\n")
	b.WriteString(fmt.Sprintf("• %s <i>(general)</i>\n", escape(generalTitle)))
	for _, category := range categories {
		b.WriteString(fmt.Sprintf("• <b>%d</b> %s\n", category.ID, escape(category.Name)))
	}
	return strings.TrimSpace(b.String())
}

func renderDay(date time.Time, tasks []model.Task, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s, %s</b>\n", iconDate, dayNames[(int(date.Weekday())+6)%7], date.Format("02.01.2006")))
	b.WriteString(formatTasks(tasks, loc, ""))
	return strings.TrimSpace(b.String())
}

// weekHeader renders "Март, 11.03 – 17.03".
func weekHeader(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	month := []rune(monthNames[start.Month()-1])
	month[0] = unicode.ToUpper(month[0])
	return fmt.Sprintf("%s, %s – %s", string(month), start.Format("02.01"), end.Format("02.01"))
}

// RenderWeek draws the week card followed by one card per day.
func RenderWeek(v WeekView, loc *time.Location) string {
	var b strings.Builder
	header := escape(weekHeader(v.Start))
	if v.IsCurrent {
		header = iconCurrent + " " + header
	}
	b.WriteString(fmt.Sprintf("<b>%s</b>\n", header))
	b.WriteString(fmt.Sprintf("Неделя (%d) · /parity — сменить\n\n", v.Parity))

	b.WriteString(fmt.Sprintf("%s <b>Задачи на неделю</b>\n", iconWeekly))
	b.WriteString(formatTasks(v.WeekTasks, loc, "   "))

	days := week.Days(v.Start)
	for i, day := range days {
		b.WriteString(fmt.Sprintf("\n<b>%s</b> %s\n", dayNames[i], day.Format("02.01")))
		b.WriteString(formatTasks(v.Days[i], loc, "   "))
	}
	return strings.TrimSpace(b.String())
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// PlainText drops the HTML markup of a rendered message.
func PlainText(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}
