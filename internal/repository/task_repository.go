package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/haiminhwork/task_management_sample/internal/domain"
)

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) domain.TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = "id, title, description, status, priority, due_date, tags, assignee_id, created_by_id, created_at, updated_at"

func scanTask(row interface{ Scan(...interface{}) error }) (*domain.Task, error) {
	var t domain.Task
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &due,
		pq.Array(&t.Tags), &t.AssigneeID, &t.CreatedByID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return &t, nil
}

func dueArg(t *domain.Task) interface{} {
	if t.DueDate == nil {
		return nil
	}
	return *t.DueDate
}

func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	q := queryTarget(ctx, r.db)
	err := q.QueryRowContext(ctx,
		`INSERT INTO tasks (title, description, status, priority, due_date, tags, assignee_id, created_by_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		t.Title, t.Description, t.Status, t.Priority, dueArg(t), pq.Array(t.Tags), t.AssigneeID, t.CreatedByID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	q := queryTarget(ctx, r.db)
	t, err := scanTask(q.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "task", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (r *taskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int64, error) {
	q := queryTarget(ctx, r.db)

	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != nil {
		conds = append(conds, "status = "+arg(*filter.Status))
	}
	if filter.Priority != nil {
		conds = append(conds, "priority = "+arg(*filter.Priority))
	}
	if filter.AssigneeID != nil {
		conds = append(conds, "assignee_id = "+arg(*filter.AssigneeID))
	}
	if filter.VisibleToID != nil {
		p := arg(*filter.VisibleToID)
		conds = append(conds, fmt.Sprintf("(assignee_id = %s OR created_by_id = %s)", p, p))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`SELECT %s FROM tasks%s ORDER BY created_at DESC, id DESC LIMIT %s OFFSET %s`,
		taskColumns, where, arg(filter.Limit), arg(offset))
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, total, rows.Err()
}

func (r *taskRepository) ListOverdue(ctx context.Context, now time.Time, visibleToID *int64, page, limit int) ([]domain.Task, int64, error) {
	q := queryTarget(ctx, r.db)

	where := ` WHERE due_date IS NOT NULL AND due_date < $1 AND status <> $2`
	args := []interface{}{now, domain.StatusDone}
	if visibleToID != nil {
		where += fmt.Sprintf(" AND (assignee_id = $%d OR created_by_id = $%d)", len(args)+1, len(args)+1)
		args = append(args, *visibleToID)
	}

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := q.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM tasks%s ORDER BY due_date ASC LIMIT $%d OFFSET $%d`,
			taskColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, total, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, t *domain.Task) error {
	q := queryTarget(ctx, r.db)
	err := q.QueryRowContext(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, status = $3, priority = $4, due_date = $5,
		     tags = $6, assignee_id = $7, updated_at = now()
		 WHERE id = $8
		 RETURNING updated_at`,
		t.Title, t.Description, t.Status, t.Priority, dueArg(t), pq.Array(t.Tags), t.AssigneeID, t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Resource: "task", ID: t.ID}
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	q := queryTarget(ctx, r.db)
	res, err := q.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Resource: "task", ID: id}
	}
	return nil
}

func (r *taskRepository) CountByAssignee(ctx context.Context, userID int64) (int64, error) {
	q := queryTarget(ctx, r.db)
	var n int64
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM tasks WHERE assignee_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks by assignee: %w", err)
	}
	return n, nil
}
