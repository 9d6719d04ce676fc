package models

import "time"

// Task is a single todo item owned by one identity. Ownership is fixed at
// creation and never transferred.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskRequest is the JSON body for POST /api/tasks and PUT /api/tasks/{id}.
// Updates are a full replace of title and description, not a merge.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task *Task `json:"task"`
}

// TaskListResponse wraps a task listing with its count.
type TaskListResponse struct {
	Tasks []*Task `json:"tasks"`
	Count int     `json:"count"`
}

// MessageResponse is a bare confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}
