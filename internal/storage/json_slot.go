package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sandeepkv93/taskextreme/internal/model"
)

const (
	tasksFileName     = "tasks.json"
	completedFileName = "completed.json"
)

// JSONSlot persists the task list as a JSON array and the completion map as
// a JSON object, one file each, in a data directory. Writes go through a
// temp file and rename so a crash never leaves a torn file behind.
type JSONSlot struct {
	dir string
}

func NewJSONSlot(dir string) (*JSONSlot, error) {
	if dir == "" {
		return nil, errors.New("storage: empty data dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONSlot{dir: dir}, nil
}

func (s *JSONSlot) Load() ([]model.Task, map[model.TaskID]bool, error) {
	tasks := make([]model.Task, 0)
	if err := s.readJSON(tasksFileName, &tasks); err != nil {
		return nil, nil, fmt.Errorf("load tasks: %w", err)
	}
	completion := make(map[model.TaskID]bool)
	if err := s.readJSON(completedFileName, &completion); err != nil {
		return nil, nil, fmt.Errorf("load completion map: %w", err)
	}
	return tasks, completion, nil
}

func (s *JSONSlot) Save(tasks []model.Task, completion map[model.TaskID]bool) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	if completion == nil {
		completion = map[model.TaskID]bool{}
	}
	if err := s.writeJSON(tasksFileName, tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	if err := s.writeJSON(completedFileName, completion); err != nil {
		return fmt.Errorf("save completion map: %w", err)
	}
	return nil
}

func (s *JSONSlot) readJSON(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (s *JSONSlot) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, filepath.Join(s.dir, name))
}
