package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/taskextreme/internal/dateutil"
	"github.com/sandeepkv93/taskextreme/internal/model"
)

var categoryKeywords = []struct {
	category model.Category
	words    []string
}{
	{model.CategoryWork, []string{"work", "job", "business", "office", "meeting", "project", "client"}},
	{model.CategoryPersonal, []string{"personal", "family", "home", "house"}},
	{model.CategoryHealth, []string{"health", "exercise", "gym", "workout", "diet"}},
	{model.CategoryEducation, []string{"study", "learn", "course", "education", "school"}},
}

var (
	urgencyKeywords    = []string{"urgent", "asap", "immediate", "critical", "emergency"}
	lowUrgencyKeywords = []string{"low", "sometime", "when"}
)

// GenerateFallbackTasks synthesizes 3-5 tasks deterministically from the
// input content. It is the offline path for every failure of the AI call, so
// it never errors and never returns an empty list.
func GenerateFallbackTasks(content string, now time.Time) []model.Task {
	words := strings.Fields(strings.ToLower(content))

	category := model.CategoryUncategorized
	for _, class := range categoryKeywords {
		if containsAny(words, class.words) {
			category = class.category
			break
		}
	}

	priority := model.PriorityMedium
	if containsAny(words, urgencyKeywords) {
		priority = model.PriorityHigh
	} else if containsAny(words, lowUrgencyKeywords) {
		priority = model.PriorityLow
	}

	count := (len(content) + 49) / 50
	if count < 3 {
		count = 3
	}
	if count > 5 {
		count = 5
	}

	batch := uuid.NewString()
	tasks := make([]model.Task, 0, count)
	for i := 0; i < count; i++ {
		startHour := 9 + i*2
		tasks = append(tasks, model.Task{
			ID:        model.TaskID(fmt.Sprintf("fallback_%s_%d", batch, i)),
			Title:     fmt.Sprintf("Task %d for %s...", i+1, prefix(content, 30)),
			Details:   "Generated fallback task based on: " + content,
			Category:  category,
			Priority:  priority,
			TimeStart: fmt.Sprintf("%02d:00", startHour),
			TimeEnd:   fmt.Sprintf("%02d:00", startHour+1),
			Date:      dateutil.OffsetDate(now, i),
		})
	}
	return tasks
}

func containsAny(words, wanted []string) bool {
	for _, w := range words {
		for _, k := range wanted {
			if w == k {
				return true
			}
		}
	}
	return false
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
