package ai

import (
	"strings"
	"testing"
	"time"
)

var promptNow = time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local) // Wednesday

func TestBuildPromptIsDeterministic(t *testing.T) {
	if BuildPrompt(promptNow) != BuildPrompt(promptNow) {
		t.Fatal("prompt differs for identical input date")
	}
}

func TestBuildPromptEmbedsComputedDates(t *testing.T) {
	prompt := BuildPrompt(promptNow)
	for _, want := range []string{
		"Current date: 2024-01-03",
		"2024-01-04", // tomorrow example
		"2024-01-08", // next Monday example
		"2024-01-05", // next Friday example
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptStatesContract(t *testing.T) {
	prompt := BuildPrompt(promptNow)
	for _, want := range []string{
		`"tasks"`,
		"'category' and 'priority'",
		"Be 30-120 minutes duration",
		"08:00-20:00 working hours",
		"at least 15 minutes",
		`Set repeat to null for one-time tasks`,
		`"morning" = 08:00-12:00`,
		`"night" = 20:00-22:00`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}
