package sqlstore

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/models"
)

func seedUser(t *testing.T, s *Store, email string) int64 {
	t.Helper()
	id, err := s.CreateUser(context.Background(), "user", email, "hash")
	require.NoError(t, err)
	return id
}

func TestTaskLifecycleSQLite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, "a@x.com")

	id, err := s.CreateTask(ctx, userID, "Buy milk")
	require.NoError(t, err)

	task, err := s.GetTask(ctx, id, userID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOngoing, task.Status)
	assert.Equal(t, "Buy milk", task.Description)
	assert.Equal(t, userID, task.UserID)

	n, err := s.UpdateDescription(ctx, id, userID, "Buy oat milk")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.UpdateStatus(ctx, id, userID, models.StatusFinished)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	finished, err := s.ListTasks(ctx, userID, models.StatusFinished)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, "Buy oat milk", finished[0].Description)

	ongoing, err := s.ListTasks(ctx, userID, models.StatusOngoing)
	require.NoError(t, err)
	assert.NotNil(t, ongoing)
	assert.Empty(t, ongoing)
}

func TestTaskOwnershipSQLite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, s, "owner@x.com")
	other := seedUser(t, s, "other@x.com")

	id, err := s.CreateTask(ctx, owner, "private")
	require.NoError(t, err)

	n, err := s.UpdateDescription(ctx, id, other, "hijacked")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.UpdateStatus(ctx, id, other, models.StatusCancelled)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.GetTask(ctx, id, other)
	assert.ErrorIs(t, err, ErrNotFound)

	task, err := s.GetTask(ctx, id, owner)
	require.NoError(t, err)
	assert.Equal(t, "private", task.Description)
	assert.Equal(t, models.StatusOngoing, task.Status)
}

func TestGuardedStatusUpdateSQLite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, "a@x.com")

	id, err := s.CreateTask(ctx, userID, "task")
	require.NoError(t, err)

	// ongoing -> ongoing is not a transition.
	n, err := s.UpdateStatus(ctx, id, userID, models.StatusOngoing, models.Sources(models.StatusOngoing)...)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.UpdateStatus(ctx, id, userID, models.StatusCancelled, models.Sources(models.StatusCancelled)...)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.UpdateStatus(ctx, id, userID, models.StatusOngoing, models.Sources(models.StatusOngoing)...)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.UpdateStatus(ctx, id, userID, "archived")
	assert.ErrorContains(t, err, `invalid status "archived"`)
}

func TestCreateTaskUnknownUserSQLite(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateTask(context.Background(), 999, "orphan")
	assert.ErrorContains(t, err, "insert task")
}

func TestClearTasksSQLite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedUser(t, s, "a@x.com")
	b := seedUser(t, s, "b@x.com")

	for _, desc := range []string{"one", "two", "three"} {
		_, err := s.CreateTask(ctx, a, desc)
		require.NoError(t, err)
	}
	bTask, err := s.CreateTask(ctx, b, "keep me")
	require.NoError(t, err)

	n, err := s.ClearTasks(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	for _, status := range models.Statuses {
		tasks, err := s.ListTasks(ctx, a, status)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	}

	remaining, err := s.ListTasks(ctx, b, models.StatusOngoing)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, bTask, remaining[0].ID)
}

func TestUpdateStatusPostgresGuard(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE tasks SET status = \$1 WHERE id = \$2 AND user_id = \$3 AND status IN \(\$4\)`).
		WithArgs("finished", 5, 1, "ongoing").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.UpdateStatus(context.Background(), 5, 1, models.StatusFinished, models.StatusOngoing)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mock.ExpectExec(`UPDATE tasks SET status = \$1 WHERE id = \$2 AND user_id = \$3$`).
		WithArgs("cancelled", 5, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err = s.UpdateStatus(context.Background(), 5, 1, models.StatusCancelled)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTasksPostgres(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, user_id, description, status, created_at FROM tasks WHERE user_id = \$1 AND status = \$2 ORDER BY id`).
		WithArgs(1, "ongoing").
		WillReturnError(assert.AnError)

	_, err := s.ListTasks(context.Background(), 1, models.StatusOngoing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list ongoing tasks")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearTasksPostgres(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM tasks WHERE user_id = \$1`).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.ClearTasks(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
