package model

import "time"

// OccursOn reports whether the task is scheduled on the given YYYY-MM-DD date.
func OccursOn(t Task, dateStr string) bool {
	switch t.Repeat {
	case RepeatEveryday:
		return true
	case RepeatDays:
		day, err := DayIndexOf(dateStr)
		if err != nil {
			return false
		}
		for _, d := range t.Days {
			if d == day {
				return true
			}
		}
		return false
	default:
		return t.Date == dateStr
	}
}

// TasksForDate filters tasks occurring on the date, preserving insertion order.
func TasksForDate(tasks []Task, dateStr string) []Task {
	out := make([]Task, 0)
	for _, t := range tasks {
		if OccursOn(t, dateStr) {
			out = append(out, t)
		}
	}
	return out
}

// DayIndexOf returns the Monday-first weekday of a YYYY-MM-DD date string.
func DayIndexOf(dateStr string) (Weekday, error) {
	d, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return 0, err
	}
	return WeekdayOf(d.Weekday()), nil
}
