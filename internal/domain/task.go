package domain

import "time"

// Task is a to-do item. A nil UserID marks a shared default task that every
// visitor sees and nobody owns.
type Task struct {
	ID          int64
	Title       string
	Description string
	// DueDate is free text ("07:00 PM", "tomorrow"), not a parsed time.
	DueDate   string
	Completed bool
	UserID    *int64
	CreatedAt time.Time
}

// IsDefault reports whether the task is a shared, owner-less task.
func (t Task) IsDefault() bool { return t.UserID == nil }

// TaskPatch carries a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Completed   *bool
}

// Apply returns t with every non-nil field of p applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}
