package models

import "time"

// Task represents a single task owned by exactly one user.
// The owner is implicit in every scoped operation and is not serialized.
type Task struct {
	ID        string    `json:"id" db:"id"` // UUID, server-generated
	Name      string    `json:"name" db:"name"`
	Done      bool      `json:"done" db:"done"`
	CreatedOn time.Time `json:"created_on" db:"created_on"`
	UpdatedOn time.Time `json:"updated_on" db:"updated_on"`
	OwnerID   int64     `json:"-" db:"owner_id"`
}

// CreateTaskRequest represents the POST /task body
type CreateTaskRequest struct {
	Name string `json:"name"`
}

// UpdateTaskRequest represents PUT/PATCH /task/{id}
// Done is a pointer so that "not sent" and "false" stay distinguishable
type UpdateTaskRequest struct {
	Name string `json:"name,omitempty"`
	Done *bool  `json:"done,omitempty"`
}
