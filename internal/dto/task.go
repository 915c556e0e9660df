package dto

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"max=120"`
	Description string `json:"description" binding:"max=200"`
	DueDate     string `json:"due_date" binding:"max=120"`
}

// UpdateTaskRequest is a partial update: absent fields stay unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=120"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	DueDate     *string `json:"due_date" binding:"omitempty,max=120"`
	Completed   *bool   `json:"completed"`
}

type TaskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Completed   bool   `json:"completed"`
	UserID      *int64 `json:"user_id"`
}

type CreateTaskResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
