package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dom "taskmanager/internal/domain"
)

const taskColumns = `id, title, description, due_date, completed, user_id, created_at`

type TaskRepo interface {
	// ListVisible returns the default tasks plus, when userID is set, that user's own tasks.
	ListVisible(ctx context.Context, userID *int64) ([]dom.Task, error)
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	// Update applies the non-nil fields of p to a task owned by userID.
	Update(ctx context.Context, userID, id int64, p dom.TaskPatch) (dom.Task, error)
	DeleteOwned(ctx context.Context, userID, id int64) error
	// SeedDefaults inserts owner-less tasks whose titles are not present yet
	// and returns how many rows were added.
	SeedDefaults(ctx context.Context, tasks []dom.Task) (int, error)
}

var _ TaskRepo = (*PGTaskRepo)(nil)

type PGTaskRepo struct {
	db *sql.DB
}

func NewPGTaskRepo(db *sql.DB) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) ListVisible(ctx context.Context, userID *int64) ([]dom.Task, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if userID == nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE user_id IS NULL ORDER BY id`)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE user_id IS NULL OR user_id = $1 ORDER BY id`, *userID)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := []dom.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (title, description, due_date, completed, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns
	out, err := scanTask(r.db.QueryRowContext(ctx, query,
		t.Title, t.Description, t.DueDate, t.Completed, nullableID(t.UserID)))
	if err != nil {
		return dom.Task{}, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Update is a single statement so concurrent partial updates of different
// fields cannot overwrite each other with stale values.
func (r *PGTaskRepo) Update(ctx context.Context, userID, id int64, p dom.TaskPatch) (dom.Task, error) {
	query := `
		UPDATE tasks SET
			title = COALESCE($3, title),
			description = COALESCE($4, description),
			due_date = COALESCE($5, due_date),
			completed = COALESCE($6, completed)
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	out, err := scanTask(r.db.QueryRowContext(ctx, query,
		id, userID, nullString(p.Title), nullString(p.Description), nullString(p.DueDate), nullBool(p.Completed)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PGTaskRepo) DeleteOwned(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGTaskRepo) SeedDefaults(ctx context.Context, tasks []dom.Task) (int, error) {
	query := `
		INSERT INTO tasks (title, description, due_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (title) WHERE user_id IS NULL DO NOTHING`
	inserted := 0
	err := WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		for _, t := range tasks {
			res, err := tx.ExecContext(ctx, query, t.Title, t.Description, t.DueDate)
			if err != nil {
				return fmt.Errorf("seed %q: %w", t.Title, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return inserted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (dom.Task, error) {
	var (
		t     dom.Task
		owner sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Completed, &owner, &t.CreatedAt); err != nil {
		return dom.Task{}, err
	}
	if owner.Valid {
		id := owner.Int64
		t.UserID = &id
	}
	return t, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
