package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"task-service/testutil"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskStore(t *testing.T) (*TaskStore, *sqlx.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewTaskStore(db), db
}

func createTestUser(t *testing.T, db *sqlx.DB, email string) int64 {
	t.Helper()
	users := NewUserStore(db, testHashCost)
	user, err := users.Create(context.Background(), CreateUserParams{
		Email:    email,
		Password: "testpass123",
	})
	require.NoError(t, err)
	return user.ID
}

func TestTaskStore_Create(t *testing.T) {
	tasks, db := newTaskStore(t)
	owner := createTestUser(t, db, "owner@example.com")

	task, err := tasks.Create(context.Background(), owner, "  Buy groceries  ")
	require.NoError(t, err)

	_, parseErr := uuid.Parse(task.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "Buy groceries", task.Name)
	assert.False(t, task.Done)
	assert.Equal(t, owner, task.OwnerID)
	assert.Equal(t, task.CreatedOn, task.UpdatedOn)
}

func TestTaskStore_CreateNameValidation(t *testing.T) {
	tasks, db := newTaskStore(t)
	owner := createTestUser(t, db, "owner@example.com")

	for _, name := range []string{"", "   "} {
		_, err := tasks.Create(context.Background(), owner, name)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "name %q", name)
		assert.Equal(t, "this field cannot be blank", validationErr.Message)
	}

	// Two characters, whether 2 or 6 bytes: the minimum counts characters
	for _, name := range []string{"ab", "你好"} {
		_, err := tasks.Create(context.Background(), owner, name)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "name %q", name)
		assert.Equal(t, "task name should be minimum 3 characters", validationErr.Message)
	}

	// Three characters after trimming is the boundary
	for _, name := range []string{" abc ", "你好吗"} {
		task, err := tasks.Create(context.Background(), owner, name)
		require.NoError(t, err, "name %q", name)
		assert.Equal(t, strings.TrimSpace(name), task.Name)
	}
}

func TestTaskStore_CreateRequiresOwner(t *testing.T) {
	tasks, _ := newTaskStore(t)

	_, err := tasks.Create(context.Background(), 0, "orphan task")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "owner", validationErr.Field)
}

func TestTaskStore_ListForOwner(t *testing.T) {
	tasks, db := newTaskStore(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	first, err := tasks.Create(context.Background(), alice, "first task")
	require.NoError(t, err)
	second, err := tasks.Create(context.Background(), alice, "second task")
	require.NoError(t, err)
	_, err = tasks.Create(context.Background(), bob, "bob's task")
	require.NoError(t, err)

	// Backdate the first so ordering does not depend on sub-second timing
	_, err = db.Exec("UPDATE tasks SET created_on = ? WHERE id = ?",
		time.Now().UTC().Add(-time.Hour), first.ID)
	require.NoError(t, err)

	listed, err := tasks.ListForOwner(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)
}

func TestTaskStore_ListForOwnerEmpty(t *testing.T) {
	tasks, db := newTaskStore(t)
	owner := createTestUser(t, db, "owner@example.com")

	listed, err := tasks.ListForOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.NotNil(t, listed)
	assert.Empty(t, listed)
}

func TestTaskStore_GetScopedToOwner(t *testing.T) {
	tasks, db := newTaskStore(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	task, err := tasks.Create(context.Background(), alice, "alice's task")
	require.NoError(t, err)

	found, err := tasks.Get(context.Background(), alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, found.ID)

	// Someone else's task and a missing task are indistinguishable
	_, err = tasks.Get(context.Background(), bob, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = tasks.Get(context.Background(), alice, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskStore_Update(t *testing.T) {
	tasks, db := newTaskStore(t)
	owner := createTestUser(t, db, "owner@example.com")

	task, err := tasks.Create(context.Background(), owner, "original name")
	require.NoError(t, err)

	done := true
	updated, err := tasks.Update(context.Background(), owner, task.ID, UpdateTaskParams{Done: &done})
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "original name", updated.Name)

	updated, err = tasks.Update(context.Background(), owner, task.ID, UpdateTaskParams{Name: "renamed task"})
	require.NoError(t, err)
	assert.Equal(t, "renamed task", updated.Name)
	assert.True(t, updated.Done)
}

func TestTaskStore_UpdateRefreshesUpdatedOn(t *testing.T) {
	tasks, db := newTaskStore(t)
	owner := createTestUser(t, db, "owner@example.com")

	task, err := tasks.Create(context.Background(), owner, "some task")
	require.NoError(t, err)

	// Backdate so the refresh is observable regardless of clock resolution
	backdated := time.Now().UTC().Add(-time.Hour)
	_, err = db.Exec("UPDATE tasks SET updated_on = ? WHERE id = ?", backdated, task.ID)
	require.NoError(t, err)

	done := true
	updated, err := tasks.Update(context.Background(), owner, task.ID, UpdateTaskParams{Done: &done})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedOn.After(backdated))
}

func TestTaskStore_UpdateInvalidName(t *testing.T) {
	tasks, db := newTaskStore(t)
	owner := createTestUser(t, db, "owner@example.com")

	task, err := tasks.Create(context.Background(), owner, "some task")
	require.NoError(t, err)

	_, err = tasks.Update(context.Background(), owner, task.ID, UpdateTaskParams{Name: "ab"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	unchanged, err := tasks.Get(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "some task", unchanged.Name)
}

func TestTaskStore_UpdateScopedToOwner(t *testing.T) {
	tasks, db := newTaskStore(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	task, err := tasks.Create(context.Background(), alice, "alice's task")
	require.NoError(t, err)

	_, err = tasks.Update(context.Background(), bob, task.ID, UpdateTaskParams{Name: "hijacked"})
	assert.ErrorIs(t, err, ErrNotFound)

	unchanged, err := tasks.Get(context.Background(), alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice's task", unchanged.Name)
}

func TestTaskStore_Delete(t *testing.T) {
	tasks, db := newTaskStore(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	task, err := tasks.Create(context.Background(), alice, "alice's task")
	require.NoError(t, err)

	// Cross-owner delete fails like a missing task and leaves the row intact
	err = tasks.Delete(context.Background(), bob, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = tasks.Delete(context.Background(), alice, task.ID)
	require.NoError(t, err)

	_, err = tasks.Get(context.Background(), alice, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = tasks.Delete(context.Background(), alice, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskStore_OwnerDeleteCascades(t *testing.T) {
	tasks, db := newTaskStore(t)
	owner := createTestUser(t, db, "owner@example.com")

	_, err := tasks.Create(context.Background(), owner, "some task")
	require.NoError(t, err)

	_, err = db.Exec("DELETE FROM users WHERE id = ?", owner)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM tasks WHERE owner_id = ?", owner))
	assert.Zero(t, count)
}
