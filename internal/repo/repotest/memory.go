// Package repotest provides in-memory repositories that honour the same
// contracts as the Postgres ones: case-folded unique emails, owner-scoped
// task access and idempotent default seeding.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "taskmanager/internal/domain"
	"taskmanager/internal/repo"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	_ repo.UserRepo = (*UserRepo)(nil)
	_ repo.TaskRepo = (*TaskRepo)(nil)
)

// UserRepo is an in-memory repo.UserRepo.
type UserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]dom.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: map[int64]dom.User{}}
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, repo.ErrNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, repo.ErrNotFound
	}
	return u, nil
}

// Create mimics the unique indexes of the users table by returning a
// *pgconn.PgError with SQLSTATE 23505.
func (r *UserRepo) Create(_ context.Context, username, email, passwordHash string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		}
		if u.Email == email {
			return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"}
		}
	}
	r.nextID++
	u := dom.User{ID: r.nextID, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	r.users[u.ID] = u
	return u, nil
}

// Delete removes a user and, like ON DELETE CASCADE, the user's tasks.
func (r *UserRepo) Delete(id int64, tasks *TaskRepo) {
	r.mu.Lock()
	delete(r.users, id)
	r.mu.Unlock()
	if tasks != nil {
		tasks.deleteByOwner(id)
	}
}

// TaskRepo is an in-memory repo.TaskRepo.
type TaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]dom.Task
}

func NewTaskRepo() *TaskRepo {
	return &TaskRepo{tasks: map[int64]dom.Task{}}
}

func (r *TaskRepo) ListVisible(_ context.Context, userID *int64) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := []dom.Task{}
	for _, t := range r.tasks {
		if t.UserID == nil || (userID != nil && *t.UserID == *userID) {
			list = append(list, clone(t))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *TaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(t), nil
}

func (r *TaskRepo) Update(_ context.Context, userID, id int64, p dom.TaskPatch) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.owned(userID, id)
	if !ok {
		return dom.Task{}, repo.ErrNotFound
	}
	cur = p.Apply(cur)
	r.tasks[id] = cur
	return clone(cur), nil
}

func (r *TaskRepo) DeleteOwned(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owned(userID, id); !ok {
		return repo.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepo) SeedDefaults(_ context.Context, tasks []dom.Task) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := map[string]bool{}
	for _, t := range r.tasks {
		if t.UserID == nil {
			existing[t.Title] = true
		}
	}
	n := 0
	for _, t := range tasks {
		if existing[t.Title] {
			continue
		}
		t.UserID = nil
		t.Completed = false
		r.insert(t)
		existing[t.Title] = true
		n++
	}
	return n, nil
}

// Get returns a task regardless of owner; for assertions in tests.
func (r *TaskRepo) Get(id int64) (dom.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	return clone(t), ok
}

// Len returns the number of stored tasks.
func (r *TaskRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func (r *TaskRepo) insert(t dom.Task) dom.Task {
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	t = clone(t)
	r.tasks[t.ID] = t
	return clone(t)
}

func (r *TaskRepo) owned(userID, id int64) (dom.Task, bool) {
	t, ok := r.tasks[id]
	if !ok || t.UserID == nil || *t.UserID != userID {
		return dom.Task{}, false
	}
	return t, true
}

func (r *TaskRepo) deleteByOwner(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tasks {
		if t.UserID != nil && *t.UserID == userID {
			delete(r.tasks, id)
		}
	}
}

// clone copies the owner pointer so callers cannot mutate stored state.
func clone(t dom.Task) dom.Task {
	if t.UserID != nil {
		id := *t.UserID
		t.UserID = &id
	}
	return t
}
