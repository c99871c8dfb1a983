package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/taskextreme/internal/model"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteSlot keeps the task list and completion map in a SQLite database.
// Save rewrites both tables in one transaction; the position column keeps
// insertion order stable across loads.
type SQLiteSlot struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteSlot, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := applyMigrations(db, ".up.sql"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteSlot{db: db}, nil
}

func (s *SQLiteSlot) Close() error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteSlot) Load() ([]model.Task, map[model.TaskID]bool, error) {
	if s.db == nil {
		return nil, nil, ErrClosed
	}
	rows, err := s.db.Query(`
		SELECT id, title, details, category, priority, time_start, time_end, date, due_date, repeat, days, completed
		FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("load tasks: %w", scanErr)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load tasks: %w", err)
	}

	completion := make(map[model.TaskID]bool)
	crows, err := s.db.Query(`SELECT task_id, completed FROM completion`)
	if err != nil {
		return nil, nil, fmt.Errorf("load completion map: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var id string
		var done int
		if err := crows.Scan(&id, &done); err != nil {
			return nil, nil, fmt.Errorf("load completion map: %w", err)
		}
		completion[model.TaskID(id)] = done != 0
	}
	if err := crows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load completion map: %w", err)
	}
	return tasks, completion, nil
}

func (s *SQLiteSlot) Save(tasks []model.Task, completion map[model.TaskID]bool) error {
	if s.db == nil {
		return ErrClosed
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	for i, t := range tasks {
		days, err := encodeDays(t.Days)
		if err != nil {
			return fmt.Errorf("save tasks: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO tasks (position, id, title, details, category, priority, time_start, time_end, date, due_date, repeat, days, completed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, string(t.ID), t.Title, t.Details, string(t.Category), string(t.Priority),
			nullString(t.TimeStart), nullString(t.TimeEnd), nullString(t.Date), nullString(t.DueDate),
			nullString(string(t.Repeat)), days, boolInt(t.Completed),
		); err != nil {
			return fmt.Errorf("save tasks: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM completion`); err != nil {
		return fmt.Errorf("save completion map: %w", err)
	}
	for id, done := range completion {
		if _, err := tx.Exec(`INSERT INTO completion (task_id, completed) VALUES (?, ?)`,
			string(id), boolInt(done)); err != nil {
			return fmt.Errorf("save completion map: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func applyMigrations(db *sql.DB, suffix string) error {
	entries, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(entries)
	for _, name := range entries {
		sqlBytes, readErr := migrationFiles.ReadFile(name)
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", name, readErr)
		}
		if _, execErr := db.Exec(string(sqlBytes)); execErr != nil {
			return fmt.Errorf("apply migration %s: %w", name, execErr)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var id string
	var timeStart, timeEnd, date, dueDate, repeat, days sql.NullString
	var completed int
	if err := s.Scan(&id, &out.Title, &out.Details, &out.Category, &out.Priority,
		&timeStart, &timeEnd, &date, &dueDate, &repeat, &days, &completed); err != nil {
		return model.Task{}, err
	}
	out.ID = model.TaskID(id)
	out.TimeStart = timeStart.String
	out.TimeEnd = timeEnd.String
	out.Date = date.String
	out.DueDate = dueDate.String
	out.Repeat = model.Repeat(repeat.String)
	out.Completed = completed != 0
	if days.Valid && days.String != "" {
		if err := json.Unmarshal([]byte(days.String), &out.Days); err != nil {
			return model.Task{}, fmt.Errorf("decode day set: %w", err)
		}
	}
	return out, nil
}

func encodeDays(days []model.Weekday) (any, error) {
	if len(days) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(days)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
