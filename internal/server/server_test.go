package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/taskextreme/internal/ai"
	"github.com/sandeepkv93/taskextreme/internal/model"
	"github.com/sandeepkv93/taskextreme/internal/storage"
	"github.com/sandeepkv93/taskextreme/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer wires a JSON-slot store and a credential-less pipeline, so
// generation always runs the offline fallback path.
func newTestServer(t *testing.T) (*Server, *store.TaskStore) {
	t.Helper()
	slot, err := storage.NewJSONSlot(t.TempDir())
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}
	tasks, err := store.Open(slot)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return New(ai.NewPipeline(nil), tasks), tasks
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeTasksResponse(t *testing.T, w *httptest.ResponseRecorder) (tasks []model.Task, warning string) {
	t.Helper()
	var body struct {
		Tasks   []model.Task `json:"tasks"`
		Warning string       `json:"warning"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body.Tasks, body.Warning
}

func TestGenerateFromDescDegradedMode(t *testing.T) {
	srv, tasks := newTestServer(t)
	h := srv.Handler()

	w := doJSON(t, h, http.MethodPost, "/api/ai-generate-tasks", map[string]string{"desc": "urgent client meeting tomorrow"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	got, warning := decodeTasksResponse(t, w)
	if len(got) < 3 || len(got) > 5 {
		t.Fatalf("expected fallback task count, got %d", len(got))
	}
	if warning == "" {
		t.Fatal("expected degraded-mode warning")
	}
	for _, task := range got {
		if task.Priority != model.PriorityHigh || task.Category != model.CategoryWork {
			t.Fatalf("fallback classification wrong: %+v", task)
		}
	}
	// Generated tasks are persisted before the response goes out.
	if len(tasks.Tasks()) != len(got) {
		t.Fatalf("store holds %d tasks, response had %d", len(tasks.Tasks()), len(got))
	}
}

func TestGenerateRejectsEmptyInput(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	w := doJSON(t, h, http.MethodPost, "/api/ai-generate-tasks", map[string]string{"desc": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No valid input") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestGenerateFromUploadedTextFile(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "plan.md")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("urgent project kickoff notes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/ai-generate-tasks", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	got, _ := decodeTasksResponse(t, w)
	// The file content reached the generator: "urgent" and "project" steer
	// priority and category.
	for _, task := range got {
		if task.Priority != model.PriorityHigh || task.Category != model.CategoryWork {
			t.Fatalf("file content not forwarded: %+v", task)
		}
	}
}

func TestGenerateFromUnsupportedFileDegradesToMetadata(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "photo.heic")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write([]byte{0x00, 0x01, 0x02})
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/ai-generate-tasks", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	got, warning := decodeTasksResponse(t, w)
	if len(got) == 0 || warning == "" {
		t.Fatalf("expected degraded tasks from metadata description, got %d tasks", len(got))
	}
}

func TestGenerateFromSheet(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	w := doJSON(t, h, http.MethodPost, "/api/ai-generate-tasks", map[string]string{"sheet": "Q3 roadmap: ship beta, gather feedback"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got, _ := decodeTasksResponse(t, w); len(got) == 0 {
		t.Fatal("expected tasks from sheet input")
	}
}

func TestTaskCRUDFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	task := model.Task{
		Title: "Write report", Category: model.CategoryWork, Priority: model.PriorityMedium,
		TimeStart: "09:00", TimeEnd: "10:00", Date: "2024-01-01",
	}
	w := doJSON(t, h, http.MethodPost, "/api/tasks", task)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created model.Task
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created task: %v", err)
	}
	if created.ID == "" {
		t.Fatal("server did not assign an id")
	}

	w = doJSON(t, h, http.MethodGet, "/api/tasks?date=2024-01-01", nil)
	if got, _ := decodeTasksResponse(t, w); len(got) != 1 {
		t.Fatalf("expected 1 task for date, got %d", len(got))
	}

	created.Title = "Write final report"
	w = doJSON(t, h, http.MethodPut, "/api/tasks/"+string(created.ID), created)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodPost, "/api/tasks/"+string(created.ID)+"/complete", map[string]bool{"completed": true})
	if w.Code != http.StatusOK {
		t.Fatalf("complete status = %d, body = %s", w.Code, w.Body.String())
	}
	var completed model.Task
	if err := json.Unmarshal(w.Body.Bytes(), &completed); err != nil {
		t.Fatalf("decode completed task: %v", err)
	}
	if !completed.Completed || completed.Title != "Write final report" {
		t.Fatalf("completion not reflected: %+v", completed)
	}

	w = doJSON(t, h, http.MethodDelete, "/api/tasks/"+string(created.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, h, http.MethodDelete, "/api/tasks/"+string(created.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}

func TestCreateTaskValidationError(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	w := doJSON(t, h, http.MethodPost, "/api/tasks", model.Task{Title: "No date or recurrence", Category: model.CategoryWork, Priority: model.PriorityLow})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDeleteAllForDateEndpoint(t *testing.T) {
	srv, tasks := newTestServer(t)
	h := srv.Handler()

	seed := []model.Task{
		{ID: "a", Title: "Fixed", Category: model.CategoryWork, Priority: model.PriorityLow, Date: "2024-01-01"},
		{ID: "r", Title: "Daily", Category: model.CategoryHealth, Priority: model.PriorityLow, Repeat: model.RepeatEveryday},
		{ID: "b", Title: "Other day", Category: model.CategoryWork, Priority: model.PriorityLow, Date: "2024-01-02"},
	}
	if _, err := tasks.AddBatch(seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	w := doJSON(t, h, http.MethodDelete, "/api/tasks?date=2024-01-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var body struct {
		Deleted int `json:"deleted"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Deleted != 2 {
		t.Fatalf("deleted = %d, want 2", body.Deleted)
	}

	w = doJSON(t, h, http.MethodDelete, "/api/tasks", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing date should 400, got %d", w.Code)
	}
}
