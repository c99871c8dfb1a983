package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCategory = errors.New("model: invalid task category")
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidRepeat   = errors.New("model: invalid repeat mode")
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TaskID is the canonical task identifier. Earlier builds of the app
// persisted numeric ids; UnmarshalJSON accepts both representations so the
// migration happens once, at the decode boundary.
type TaskID string

func (id TaskID) String() string { return string(id) }

func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("model: task id must be a string or number: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

type Category string

const (
	CategoryWork          Category = "work"
	CategoryPersonal      Category = "personal"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryFinance       Category = "finance"
	CategoryHome          Category = "home"
	CategorySocial        Category = "social"
	CategoryHobby         Category = "hobby"
	CategoryUncategorized Category = "Uncategorized"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryEducation,
		CategoryFinance, CategoryHome, CategorySocial, CategoryHobby, CategoryUncategorized:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

type Repeat string

const (
	RepeatNone     Repeat = ""
	RepeatEveryday Repeat = "everyday"
	RepeatDays     Repeat = "days"
)

func (r Repeat) IsValid() bool {
	switch r {
	case RepeatNone, RepeatEveryday, RepeatDays:
		return true
	default:
		return false
	}
}

// Task is a schedulable work item. A task either carries a fixed Date or a
// recurrence rule (Repeat + Days); exactly one of the two governs on which
// dates it occurs. ID never changes after creation and is the sole join key
// into the completion map.
type Task struct {
	ID        TaskID    `json:"id"`
	Title     string    `json:"title"`
	Details   string    `json:"details,omitempty"`
	Category  Category  `json:"category"`
	Priority  Priority  `json:"priority"`
	TimeStart string    `json:"timeStart,omitempty"`
	TimeEnd   string    `json:"timeEnd,omitempty"`
	Date      string    `json:"date,omitempty"`
	DueDate   string    `json:"dueDate,omitempty"`
	Repeat    Repeat    `json:"repeat,omitempty"`
	Days      []Weekday `json:"days,omitempty"`
	Completed bool      `json:"completed"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(string(t.ID)) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if !t.Repeat.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRepeat, t.Repeat)
	}
	switch t.Repeat {
	case RepeatNone:
		if t.Date == "" {
			return errors.New("model: non-recurring task requires a date")
		}
		if len(t.Days) > 0 {
			return errors.New("model: days is only valid with repeat \"days\"")
		}
	case RepeatEveryday:
		if len(t.Days) > 0 {
			return errors.New("model: days is only valid with repeat \"days\"")
		}
	case RepeatDays:
		if len(t.Days) == 0 {
			return errors.New("model: repeat \"days\" requires a non-empty day set")
		}
		seen := make(map[Weekday]bool, len(t.Days))
		for _, d := range t.Days {
			if !d.IsValid() {
				return fmt.Errorf("model: invalid weekday index %d", int(d))
			}
			if seen[d] {
				return fmt.Errorf("model: duplicate weekday %s", d)
			}
			seen[d] = true
		}
	}
	if t.Date != "" {
		if _, err := time.Parse(DateLayout, t.Date); err != nil {
			return fmt.Errorf("model: invalid date %q", t.Date)
		}
	}
	if t.DueDate != "" {
		if _, err := time.Parse(DateLayout, t.DueDate); err != nil {
			return fmt.Errorf("model: invalid due date %q", t.DueDate)
		}
	}
	for _, clock := range []string{t.TimeStart, t.TimeEnd} {
		if clock == "" {
			continue
		}
		if _, err := time.Parse(TimeLayout, clock); err != nil {
			return fmt.Errorf("model: invalid time %q", clock)
		}
	}
	// HH:MM compares correctly as a string once both parse.
	if t.TimeStart != "" && t.TimeEnd != "" && t.TimeStart >= t.TimeEnd {
		return fmt.Errorf("model: timeStart %s must be before timeEnd %s", t.TimeStart, t.TimeEnd)
	}
	return nil
}
