package ai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sandeepkv93/taskextreme/internal/model"
)

// DegradedWarning is the soft warning attached when fallback synthesis ran
// instead of the AI service.
const DegradedWarning = "AI service unavailable. Generated fallback tasks based on your input."

type Result struct {
	Tasks   []model.Task `json:"tasks"`
	Warning string       `json:"warning,omitempty"`
}

// Pipeline orchestrates the AI client and the fallback generator. Model and
// network failures never reach the caller; the terminal outcome is always a
// non-empty task list, optionally annotated with a warning. The only error
// path is unusable input.
type Pipeline struct {
	client *Client
	now    func() time.Time
}

// NewPipeline builds a pipeline. A nil client means no credential is
// configured: generation skips the network entirely and goes straight to
// fallback.
func NewPipeline(client *Client) *Pipeline {
	return &Pipeline{client: client, now: time.Now}
}

func (p *Pipeline) Generate(ctx context.Context, content string) (Result, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Result{}, ErrInvalidInput
	}

	if p.client == nil {
		slog.Info("no credential configured, using fallback tasks")
		return Result{
			Tasks:   GenerateFallbackTasks(content, p.now()),
			Warning: DegradedWarning,
		}, nil
	}

	tasks, err := p.client.Generate(ctx, content)
	if err != nil {
		slog.Warn("generation degraded to fallback", "error", err)
		return Result{
			Tasks:   GenerateFallbackTasks(content, p.now()),
			Warning: DegradedWarning,
		}, nil
	}
	return Result{Tasks: tasks}, nil
}
