// Package store owns the in-memory task list and completion map and keeps
// them in lockstep with the persistence slot. Every mutation persists before
// returning; a failed save is reported to the caller and the in-memory state
// is rolled back so memory and disk never diverge silently.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sandeepkv93/taskextreme/internal/model"
	"github.com/sandeepkv93/taskextreme/internal/storage"
)

var (
	ErrNotFound = errors.New("store: task not found")
	ErrStorage  = errors.New("store: storage failure")
)

type TaskStore struct {
	mu         sync.Mutex
	slot       storage.Slot
	tasks      []model.Task
	completion map[model.TaskID]bool
}

// Open loads the persisted state through the slot. Completion flags are
// mirrored onto the loaded tasks; the map remains the source of truth.
func Open(slot storage.Slot) (*TaskStore, error) {
	tasks, completion, err := slot.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: load: %w", ErrStorage, err)
	}
	if completion == nil {
		completion = make(map[model.TaskID]bool)
	}
	for i := range tasks {
		tasks[i].Completed = completion[tasks[i].ID]
	}
	return &TaskStore{slot: slot, tasks: tasks, completion: completion}, nil
}

// Tasks returns a copy of the ordered task list.
func (s *TaskStore) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.tasks...)
}

// TasksFor returns the tasks occurring on the given date, insertion order
// preserved.
func (s *TaskStore) TasksFor(dateStr string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.TasksForDate(s.tasks, dateStr)
}

func (s *TaskStore) Get(id model.TaskID) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, ErrNotFound
}

func (s *TaskStore) Add(task model.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tasks {
		if existing.ID == task.ID {
			return fmt.Errorf("store: duplicate task id %s", task.ID)
		}
	}
	task.Completed = s.completion[task.ID]
	s.tasks = append(s.tasks, task)
	if err := s.persist(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return err
	}
	return nil
}

// AddBatch appends generated tasks in one persisted write and returns them
// as stored. Ids that collide with the existing list (or within the batch,
// as generated ids can repeat the model's worked examples) are replaced with
// fresh ones. Either the whole batch lands or none of it does.
func (s *TaskStore) AddBatch(tasks []model.Task) ([]model.Task, error) {
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[model.TaskID]bool, len(s.tasks)+len(tasks))
	for _, t := range s.tasks {
		taken[t.ID] = true
	}
	batch := append([]model.Task(nil), tasks...)
	for i := range batch {
		if taken[batch[i].ID] {
			batch[i].ID = model.TaskID("task_" + uuid.NewString())
		}
		taken[batch[i].ID] = true
	}

	prev := len(s.tasks)
	s.tasks = append(s.tasks, batch...)
	if err := s.persist(); err != nil {
		s.tasks = s.tasks[:prev]
		return nil, err
	}
	return batch, nil
}

// Update replaces every field but the id.
func (s *TaskStore) Update(task model.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.tasks {
		if existing.ID != task.ID {
			continue
		}
		task.Completed = s.completion[task.ID]
		s.tasks[i] = task
		if err := s.persist(); err != nil {
			s.tasks[i] = existing
			return err
		}
		return nil
	}
	return ErrNotFound
}

func (s *TaskStore) Delete(id model.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.tasks {
		if existing.ID != id {
			continue
		}
		wasDone, hadEntry := s.completion[id]
		s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
		delete(s.completion, id)
		if err := s.persist(); err != nil {
			s.tasks = append(s.tasks[:i], append([]model.Task{existing}, s.tasks[i:]...)...)
			if hadEntry {
				s.completion[id] = wasDone
			}
			return err
		}
		return nil
	}
	return ErrNotFound
}

// DeleteAllForDate removes every task occurring on the date and purges the
// completion entries, returning the removed count. Recurring tasks have no
// per-date representation, so an "everyday" task occurring that day is
// removed outright, not suppressed for the one day.
func (s *TaskStore) DeleteAllForDate(dateStr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevTasks := s.tasks
	prevCompletion := s.completion

	kept := make([]model.Task, 0, len(s.tasks))
	removed := 0
	nextCompletion := make(map[model.TaskID]bool, len(s.completion))
	for id, done := range s.completion {
		nextCompletion[id] = done
	}
	for _, t := range s.tasks {
		if model.OccursOn(t, dateStr) {
			removed++
			delete(nextCompletion, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	if removed == 0 {
		return 0, nil
	}
	s.tasks = kept
	s.completion = nextCompletion
	if err := s.persist(); err != nil {
		s.tasks = prevTasks
		s.completion = prevCompletion
		return 0, err
	}
	return removed, nil
}

// SetCompleted flips the completion entry for the id and mirrors the flag
// onto the task. One entry covers all occurrences of a recurring task.
func (s *TaskStore) SetCompleted(id model.TaskID, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		wasDone, hadEntry := s.completion[id]
		if done {
			s.completion[id] = true
		} else {
			delete(s.completion, id)
		}
		s.tasks[i].Completed = done
		if err := s.persist(); err != nil {
			if hadEntry {
				s.completion[id] = wasDone
			} else {
				delete(s.completion, id)
			}
			s.tasks[i].Completed = wasDone
			return err
		}
		return nil
	}
	return ErrNotFound
}

func (s *TaskStore) persist() error {
	if err := s.slot.Save(s.tasks, s.completion); err != nil {
		return fmt.Errorf("%w: persist: %w", ErrStorage, err)
	}
	return nil
}
