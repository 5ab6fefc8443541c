package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"task-service/models"
	"task-service/store"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

const taskListCacheTTL = 5 * time.Minute

// TaskHandler handles task operations. Every operation is scoped to the
// authenticated owner; other users' tasks are indistinguishable from
// nonexistent ones.
type TaskHandler struct {
	tasks *store.TaskStore
	cache cache.Cache
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *store.TaskStore, cache cache.Cache) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
		cache: cache,
	}
}

func taskListCacheKey(ownerID int64) string {
	return "tasks:owner:" + strconv.FormatInt(ownerID, 10)
}

func writeTaskError(ctx context.Context, w http.ResponseWriter, err error) {
	var validationErr *store.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logRequest(ctx, "info", "Validation failed", zap.String("field", validationErr.Field))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError(validationErr.Error()))
	case errors.Is(err, store.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Task not found"))
	default:
		logRequest(ctx, "error", "Unexpected error", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Server error"))
	}
}

// requireOwner resolves the authenticated user id or writes a 401.
func requireOwner(ctx context.Context, w http.ResponseWriter) (int64, bool) {
	ownerID, ok := currentUserID(ctx)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errs.NewAuthenticationError("Authentication required"))
		return 0, false
	}
	return ownerID, true
}

// ListTasks handles GET /task - list the owner's tasks, oldest first
func (h *TaskHandler) ListTasks(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(ctx, w)
	if !ok {
		return
	}

	cacheKey := taskListCacheKey(ownerID)
	if cached, err := h.cache.Get(cacheKey); err == nil {
		// A non-[]byte value (possible with the redis backend) falls
		// through to the database instead of panicking the handler.
		if body, ok := cached.([]byte); ok {
			logRequest(ctx, "debug", "Serving task list from cache", zap.Int64("owner_id", ownerID))
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	tasks, err := h.tasks.ListForOwner(ctx, ownerID)
	if err != nil {
		writeTaskError(ctx, w, err)
		return
	}

	response, _ := json.Marshal(tasks)
	h.cache.Set(cacheKey, response, taskListCacheTTL)

	logRequest(ctx, "info", "Tasks retrieved", zap.Int64("owner_id", ownerID), zap.Int("count", len(tasks)))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// CreateTask handles POST /task - create a task owned by the caller
func (h *TaskHandler) CreateTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(ctx, w)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid JSON"))
		return
	}

	task, err := h.tasks.Create(ctx, ownerID, req.Name)
	if err != nil {
		writeTaskError(ctx, w, err)
		return
	}

	h.cache.Delete(taskListCacheKey(ownerID))

	logRequest(ctx, "info", "Task created", zap.Int64("owner_id", ownerID), zap.String("task_id", task.ID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

// GetTask handles GET /task/{id}
func (h *TaskHandler) GetTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(ctx, w)
	if !ok {
		return
	}
	taskID := mux.Vars(r)["id"]

	task, err := h.tasks.Get(ctx, ownerID, taskID)
	if err != nil {
		writeTaskError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Task retrieved", zap.Int64("owner_id", ownerID), zap.String("task_id", task.ID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// UpdateTask handles PUT/PATCH /task/{id} - field-merge update; omitted
// fields stay untouched and updated_on always refreshes
func (h *TaskHandler) UpdateTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(ctx, w)
	if !ok {
		return
	}
	taskID := mux.Vars(r)["id"]

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid JSON"))
		return
	}

	task, err := h.tasks.Update(ctx, ownerID, taskID, store.UpdateTaskParams{
		Name: req.Name,
		Done: req.Done,
	})
	if err != nil {
		writeTaskError(ctx, w, err)
		return
	}

	h.cache.Delete(taskListCacheKey(ownerID))

	logRequest(ctx, "info", "Task updated", zap.Int64("owner_id", ownerID), zap.String("task_id", task.ID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// DeleteTask handles DELETE /task/{id}
func (h *TaskHandler) DeleteTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(ctx, w)
	if !ok {
		return
	}
	taskID := mux.Vars(r)["id"]

	if err := h.tasks.Delete(ctx, ownerID, taskID); err != nil {
		writeTaskError(ctx, w, err)
		return
	}

	h.cache.Delete(taskListCacheKey(ownerID))

	logRequest(ctx, "info", "Task deleted", zap.Int64("owner_id", ownerID), zap.String("task_id", taskID))

	w.WriteHeader(http.StatusNoContent)
}
