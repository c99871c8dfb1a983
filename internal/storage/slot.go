// Package storage provides the persistence slot behind the task store: a
// single load/save contract over the task list and the completion map. Two
// implementations exist, a JSON file pair (the canonical on-disk format) and
// a SQLite database adapted from an earlier build.
package storage

import (
	"errors"

	"github.com/sandeepkv93/taskextreme/internal/model"
)

var ErrClosed = errors.New("storage: slot is closed")

// Slot is the opaque persistence contract. Load returns the ordered task
// list and the completion map; Save replaces both with last-write-wins
// semantics. Implementations must never return partially written state.
type Slot interface {
	Load() ([]model.Task, map[model.TaskID]bool, error)
	Save(tasks []model.Task, completion map[model.TaskID]bool) error
}
