package service

import (
	"context"
	"errors"
	"strings"

	dom "taskmanager/internal/domain"
	"taskmanager/internal/repo"
)

var (
	ErrNotFound      = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
)

type TaskService struct {
	repo repo.TaskRepo
}

func NewTaskService(r repo.TaskRepo) *TaskService {
	return &TaskService{repo: r}
}

// List returns the shared default tasks, plus the user's own tasks when userID is set.
func (s *TaskService) List(ctx context.Context, userID *int64) ([]dom.Task, error) {
	return s.repo.ListVisible(ctx, userID)
}

func (s *TaskService) Create(ctx context.Context, userID int64, title, desc, due string) (dom.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Task{}, ErrTitleRequired
	}
	return s.repo.Create(ctx, dom.Task{
		Title:       title,
		Description: strings.TrimSpace(desc),
		DueDate:     strings.TrimSpace(due),
		UserID:      &userID,
	})
}

// Update applies a partial update to a task owned by userID.
func (s *TaskService) Update(ctx context.Context, userID, id int64, patch dom.TaskPatch) (dom.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return dom.Task{}, ErrTitleRequired
		}
		patch.Title = &title
	}
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		return dom.Task{}, mapNotFound(err)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	return mapNotFound(s.repo.DeleteOwned(ctx, userID, id))
}

// SeedDefaults inserts any missing default tasks. Safe to run on every start.
func (s *TaskService) SeedDefaults(ctx context.Context) (int, error) {
	return s.repo.SeedDefaults(ctx, dom.DefaultTasks())
}

func mapNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
