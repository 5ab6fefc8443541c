package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"task-service/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const minTaskNameLength = 3

// TaskStore persists tasks. Every operation is scoped to an owner: a task
// belonging to someone else behaves exactly like a task that does not exist.
type TaskStore struct {
	db *sqlx.DB
}

// NewTaskStore creates a task store.
func NewTaskStore(db *sqlx.DB) *TaskStore {
	return &TaskStore{db: db}
}

// UpdateTaskParams carries the optional task fields for a partial update.
type UpdateTaskParams struct {
	Name string
	Done *bool
}

func validateTaskName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError("name", "this field cannot be blank")
	}
	if utf8.RuneCountInString(name) < minTaskNameLength {
		return "", newValidationError("name", "task name should be minimum 3 characters")
	}
	return name, nil
}

// Create persists a new task for the given owner.
func (s *TaskStore) Create(ctx context.Context, ownerID int64, name string) (models.Task, error) {
	if ownerID == 0 {
		return models.Task{}, newValidationError("owner", "this field cannot be null")
	}
	name, err := validateTaskName(name)
	if err != nil {
		return models.Task{}, err
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:        uuid.NewString(),
		Name:      name,
		Done:      false,
		CreatedOn: now,
		UpdatedOn: now,
		OwnerID:   ownerID,
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, name, done, created_on, updated_on, owner_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID, task.Name, task.Done, task.CreatedOn, task.UpdatedOn, task.OwnerID)
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// ListForOwner returns the owner's tasks ordered by creation time ascending.
func (s *TaskStore) ListForOwner(ctx context.Context, ownerID int64) ([]models.Task, error) {
	tasks := []models.Task{}
	err := s.db.SelectContext(ctx, &tasks, `
		SELECT * FROM tasks WHERE owner_id = ? ORDER BY created_on ASC, id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get returns the owner's task with the given id.
func (s *TaskStore) Get(ctx context.Context, ownerID int64, id string) (models.Task, error) {
	var task models.Task
	err := s.db.GetContext(ctx, &task,
		"SELECT * FROM tasks WHERE id = ? AND owner_id = ?", id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Update applies the provided fields to the owner's task. Omitted fields are
// untouched; updated_on is always refreshed.
func (s *TaskStore) Update(ctx context.Context, ownerID int64, id string, p UpdateTaskParams) (models.Task, error) {
	setParts := []string{}
	args := []interface{}{}

	if p.Name != "" {
		name, err := validateTaskName(p.Name)
		if err != nil {
			return models.Task{}, err
		}
		setParts = append(setParts, "name = ?")
		args = append(args, name)
	}
	if p.Done != nil {
		setParts = append(setParts, "done = ?")
		args = append(args, *p.Done)
	}

	setParts = append(setParts, "updated_on = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id, ownerID)

	query := "UPDATE tasks SET " + strings.Join(setParts, ", ") + " WHERE id = ? AND owner_id = ?"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Task{}, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.Task{}, ErrNotFound
	}
	return s.Get(ctx, ownerID, id)
}

// Delete removes the owner's task with the given id.
func (s *TaskStore) Delete(ctx context.Context, ownerID int64, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}
