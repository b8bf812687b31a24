package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"taskmaster/internal/models"
)

var taskColumns = []string{"id", "user_id", "description", "status", "created_at"}

// ListTasks returns the user's tasks in the given status, oldest first.
func (s *Store) ListTasks(ctx context.Context, userID int64, status models.Status) ([]models.Task, error) {
	query, args, err := s.sb.Select(taskColumns...).
		From("tasks").
		Where("user_id = ?", userID).
		Where("status = ?", status).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	tasks := []models.Task{}
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list %s tasks: %w", status, err)
	}
	return tasks, nil
}

// GetTask fetches a task owned by userID.
func (s *Store) GetTask(ctx context.Context, id, userID int64) (models.Task, error) {
	query, args, err := s.sb.Select(taskColumns...).
		From("tasks").
		Where("id = ?", id).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return models.Task{}, err
	}

	var t models.Task
	err = s.db.GetContext(ctx, &t, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// CreateTask inserts an ongoing task for userID and returns its id.
func (s *Store) CreateTask(ctx context.Context, userID int64, description string) (int64, error) {
	query, args, err := s.sb.Insert("tasks").
		Columns("user_id", "description", "status").
		Values(userID, description, models.StatusOngoing).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return id, nil
}

// UpdateDescription rewrites the description of a task owned by userID and
// returns the number of rows changed.
func (s *Store) UpdateDescription(ctx context.Context, id, userID int64, description string) (int64, error) {
	query, args, err := s.sb.Update("tasks").
		Set("description", description).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return 0, err
	}
	return s.exec(ctx, "update task description", query, args...)
}

// UpdateStatus sets the status of a task owned by userID. When from is not
// empty the row is only changed if its current status is one of from, which
// makes the transition check and the write a single statement.
func (s *Store) UpdateStatus(ctx context.Context, id, userID int64, to models.Status, from ...models.Status) (int64, error) {
	if !to.Valid() {
		return 0, fmt.Errorf("invalid status %q", to)
	}

	builder := s.sb.Update("tasks").
		Set("status", to).
		Where("id = ?", id).
		Where("user_id = ?", userID)
	if len(from) > 0 {
		builder = builder.Where(sq.Eq{"status": from})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	return s.exec(ctx, "update task status", query, args...)
}

// ClearTasks deletes every task owned by userID.
func (s *Store) ClearTasks(ctx context.Context, userID int64) (int64, error) {
	query, args, err := s.sb.Delete("tasks").Where("user_id = ?", userID).ToSql()
	if err != nil {
		return 0, err
	}
	return s.exec(ctx, "clear tasks", query, args...)
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
