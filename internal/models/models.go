package models

import (
	"encoding/json"
	"time"
)

// User is an account that owns tasks. The password hash never leaves the server.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Task represents a single to-do item owned by a user.
type Task struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Description string    `db:"description" json:"description"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// MarshalJSON adds the statuses the task may move to next, so clients can
// offer only the legal actions.
func (t Task) MarshalJSON() ([]byte, error) {
	type task Task
	return json.Marshal(struct {
		task
		Next []Status `json:"next"`
	}{task(t), t.Status.Next()})
}

// TaskBoard groups a user's tasks by status.
type TaskBoard struct {
	Ongoing   []Task `json:"ongoing"`
	Finished  []Task `json:"finished"`
	Cancelled []Task `json:"cancelled"`
}
