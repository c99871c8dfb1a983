// Package dateutil holds the calendar arithmetic shared by the recurrence
// resolver, the prompt builder, and the fallback generator. All helpers work
// on local calendar fields rather than UTC conversions so a date never shifts
// across the midnight boundary.
package dateutil

import (
	"time"

	"github.com/sandeepkv93/taskextreme/internal/model"
)

// DateString formats a time as YYYY-MM-DD using its local calendar fields.
func DateString(t time.Time) string {
	return t.Format(model.DateLayout)
}

// OffsetDate returns the date n days after now.
func OffsetDate(now time.Time, n int) string {
	return DateString(now.AddDate(0, 0, n))
}

// NextWeekday returns the next date whose weekday equals target, counting
// today when it already matches.
func NextWeekday(now time.Time, target model.Weekday) string {
	current := model.WeekdayOf(now.Weekday())
	ahead := (int(target) - int(current) + 7) % 7
	return OffsetDate(now, ahead)
}

// WeekStartMonday maps a (week, weekday) coordinate to a date. Week 0 is the
// week containing now; weeks start on Monday.
func WeekStartMonday(now time.Time, weekOffset int, day model.Weekday) string {
	back := int(model.WeekdayOf(now.Weekday()))
	monday := now.AddDate(0, 0, -back)
	return DateString(monday.AddDate(0, 0, weekOffset*7+int(day)))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(model.DateLayout, s)
}
