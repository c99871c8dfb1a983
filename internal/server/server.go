// Package server exposes the HTTP surface: the AI generation endpoint and
// the task CRUD endpoints backed by the task store.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sandeepkv93/taskextreme/internal/ai"
	"github.com/sandeepkv93/taskextreme/internal/model"
	"github.com/sandeepkv93/taskextreme/internal/store"
)

type Server struct {
	pipeline  *ai.Pipeline
	tasks     *store.TaskStore
	extractor TextExtractor
}

func New(pipeline *ai.Pipeline, tasks *store.TaskStore) *Server {
	return &Server{pipeline: pipeline, tasks: tasks}
}

// WithExtractor wires a PDF text extractor. Optional; see TextExtractor.
func (s *Server) WithExtractor(e TextExtractor) *Server {
	s.extractor = e
	return s
}

// Handler builds the gin engine with all routes registered.
func (s *Server) Handler() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery())
	s.RegisterRoutes(engine)
	return engine
}

func (s *Server) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/ai-generate-tasks", s.generateTasks)
	r.GET("/api/tasks", s.listTasks)
	r.POST("/api/tasks", s.createTask)
	r.PUT("/api/tasks/:id", s.updateTask)
	r.DELETE("/api/tasks/:id", s.deleteTask)
	r.DELETE("/api/tasks", s.deleteTasksForDate)
	r.POST("/api/tasks/:id/complete", s.setCompleted)
}

// generateTasks accepts exactly one of desc, file, or sheet and responds
// with the generated (and persisted) tasks, plus a warning when the
// fallback path ran.
func (s *Server) generateTasks(c *gin.Context) {
	content, err := s.resolveInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid input provided."})
		return
	}

	res, err := s.pipeline.Generate(c.Request.Context(), content)
	if err != nil {
		if errors.Is(err, ai.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid input provided."})
			return
		}
		slog.Error("task generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	stored, err := s.tasks.AddBatch(res.Tasks)
	if err != nil {
		slog.Error("failed to persist generated tasks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save generated tasks."})
		return
	}

	if res.Warning != "" {
		c.JSON(http.StatusOK, gin.H{"tasks": stored, "warning": res.Warning})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": stored})
}

// resolveInput picks the first usable source in the original's order:
// desc, then file, then sheet.
func (s *Server) resolveInput(c *gin.Context) (string, error) {
	if desc := strings.TrimSpace(c.PostForm("desc")); desc != "" {
		return desc, nil
	}
	// JSON bodies carry desc/sheet as fields instead of form values.
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body struct {
			Desc  string `json:"desc"`
			Sheet string `json:"sheet"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			if desc := strings.TrimSpace(body.Desc); desc != "" {
				return desc, nil
			}
			if sheet := strings.TrimSpace(body.Sheet); sheet != "" {
				return sheetContent(sheet), nil
			}
		}
		return "", ai.ErrInvalidInput
	}
	if header, err := c.FormFile("file"); err == nil && header != nil {
		return resolveFileContent(header, s.extractor)
	}
	if sheet := strings.TrimSpace(c.PostForm("sheet")); sheet != "" {
		return sheetContent(sheet), nil
	}
	return "", ai.ErrInvalidInput
}

func (s *Server) listTasks(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		c.JSON(http.StatusOK, gin.H{"tasks": s.tasks.Tasks()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": s.tasks.TasksFor(date)})
}

func (s *Server) createTask(c *gin.Context) {
	var task model.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(string(task.ID)) == "" {
		task.ID = model.TaskID(uuid.NewString())
	}
	if err := s.tasks.Add(task); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) updateTask(c *gin.Context) {
	var task model.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// The path id wins; the id itself is immutable.
	task.ID = model.TaskID(c.Param("id"))
	if err := s.tasks.Update(task); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.tasks.Delete(model.TaskID(c.Param("id"))); err != nil {
		writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteTasksForDate(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	deleted, err := s.tasks.DeleteAllForDate(date)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (s *Server) setCompleted(c *gin.Context) {
	var body struct {
		Completed bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := model.TaskID(c.Param("id"))
	if err := s.tasks.SetCompleted(id, body.Completed); err != nil {
		writeStoreError(c, err)
		return
	}
	task, err := s.tasks.Get(id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, store.ErrStorage):
		slog.Error("storage failure", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
