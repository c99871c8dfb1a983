package model

import (
	"fmt"
	"time"
)

// Weekday is the single weekday enumeration used across the codebase.
// Indices are Monday-first (0=Monday .. 6=Sunday); convert from time.Weekday
// with WeekdayOf at every boundary instead of mixing conventions.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.IsValid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Time returns the equivalent Sunday-first time.Weekday.
func (w Weekday) Time() time.Weekday {
	return time.Weekday((int(w) + 1) % 7)
}

// WeekdayOf converts a Sunday-first time.Weekday to the Monday-first convention.
func WeekdayOf(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekday(int(d) - 1)
}
