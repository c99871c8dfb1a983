package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"github.com/sandeepkv93/taskextreme/internal/dateutil"
	"github.com/sandeepkv93/taskextreme/internal/model"
)

// Client issues the single outbound chat-completion request and classifies
// the outcome. It never retries on an auth failure (the credential will not
// get better) and retries at most once, with jitter, on a transport failure.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	now     func() time.Time
}

func NewClient(token, baseURL, modelName string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   modelName,
		timeout: timeout,
		now:     time.Now,
	}
}

// Generate sends the prompt and content and returns normalized tasks. The
// returned error wraps exactly one of ErrAuthFailure, ErrMalformedOutput, or
// ErrTransportFailure.
func (c *Client) Generate(ctx context.Context, content string) ([]model.Task, error) {
	now := c.now()
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildPrompt(now)},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		Temperature: 1,
		TopP:        1,
	}

	resp, err := c.complete(ctx, req)
	if err != nil {
		classified := classify(err)
		if errors.Is(classified, ErrTransportFailure) && ctx.Err() == nil {
			jitter := time.Duration(100+rand.Intn(400)) * time.Millisecond
			slog.Warn("chat completion failed, retrying once", "error", err, "backoff", jitter)
			select {
			case <-time.After(jitter):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrTransportFailure, ctx.Err())
			}
			resp, err = c.complete(ctx, req)
		}
		if err != nil {
			return nil, classify(err)
		}
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrMalformedOutput)
	}
	return decodeDrafts(resp.Choices[0].Message.Content, now)
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.api.CreateChatCompletion(callCtx, req)
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 401 {
			return fmt.Errorf("%w: %v", ErrAuthFailure, err)
		}
		return fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == 401 {
			return fmt.Errorf("%w: %v", ErrAuthFailure, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrTransportFailure, err)
}

// taskDraft is the lenient wire shape the model emits. Anything the strict
// Task type would reject is repaired in normalize rather than round-tripped
// through speculative string cleanup.
type taskDraft struct {
	ID        model.TaskID    `json:"id"`
	Title     string          `json:"title"`
	Details   string          `json:"details"`
	Category  string          `json:"category"`
	Priority  string          `json:"priority"`
	TimeStart string          `json:"timeStart"`
	TimeEnd   string          `json:"timeEnd"`
	Date      string          `json:"date"`
	DueDate   string          `json:"dueDate"`
	Repeat    string          `json:"repeat"`
	Days      []model.Weekday `json:"days"`
}

// decodeDrafts strictly parses the message content as {"tasks": [...]}. Any
// shape mismatch is a malformed-output failure; there is no regex cleanup of
// almost-JSON responses.
func decodeDrafts(content string, now time.Time) ([]model.Task, error) {
	var envelope struct {
		Tasks []taskDraft `json:"tasks"`
	}
	dec := json.NewDecoder(strings.NewReader(content))
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if envelope.Tasks == nil {
		return nil, fmt.Errorf("%w: response has no tasks array", ErrMalformedOutput)
	}
	tasks := normalizeDrafts(envelope.Tasks, now)
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: no usable tasks in response", ErrMalformedOutput)
	}
	return tasks, nil
}

// normalizeDrafts guarantees the required fields regardless of model
// fidelity: category defaults to Uncategorized, priority to medium, a blank
// id to a fresh one, and an unscheduled draft to a fixed date of today.
// Drafts that still fail validation are dropped.
func normalizeDrafts(drafts []taskDraft, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(drafts))
	for _, d := range drafts {
		task := model.Task{
			ID:        d.ID,
			Title:     strings.TrimSpace(d.Title),
			Details:   d.Details,
			Category:  model.Category(d.Category),
			Priority:  model.Priority(d.Priority),
			TimeStart: d.TimeStart,
			TimeEnd:   d.TimeEnd,
			Date:      d.Date,
			DueDate:   d.DueDate,
			Repeat:    model.Repeat(d.Repeat),
			Days:      d.Days,
		}
		if !task.Category.IsValid() {
			task.Category = model.CategoryUncategorized
		}
		if !task.Priority.IsValid() {
			task.Priority = model.PriorityMedium
		}
		if strings.TrimSpace(string(task.ID)) == "" {
			task.ID = model.TaskID("ai_" + uuid.NewString())
		}
		if !task.Repeat.IsValid() {
			task.Repeat = model.RepeatNone
		}
		if task.Repeat == model.RepeatDays && len(task.Days) == 0 {
			task.Repeat = model.RepeatNone
		}
		if task.Repeat != model.RepeatDays {
			task.Days = nil
		}
		if task.Repeat == model.RepeatNone && task.Date == "" {
			task.Date = dateutil.DateString(now)
		}
		if err := task.Validate(); err != nil {
			slog.Warn("dropping unusable task draft", "title", task.Title, "error", err)
			continue
		}
		out = append(out, task)
	}
	return out
}
