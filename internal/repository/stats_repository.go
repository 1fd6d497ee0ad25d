package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/haiminhwork/task_management_sample/internal/domain"
)

type statsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) domain.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) StatusCounts(ctx context.Context) (map[domain.Status]int64, error) {
	q := queryTarget(ctx, r.db)
	rows, err := q.QueryContext(ctx, `SELECT status, count(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := map[domain.Status]int64{
		domain.StatusTodo:       0,
		domain.StatusInProgress: 0,
		domain.StatusDone:       0,
	}
	for rows.Next() {
		var s domain.Status
		var n int64
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}

func (r *statsRepository) PriorityCounts(ctx context.Context) (map[domain.Priority]int64, error) {
	q := queryTarget(ctx, r.db)
	rows, err := q.QueryContext(ctx, `SELECT priority, count(*) FROM tasks GROUP BY priority`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by priority: %w", err)
	}
	defer rows.Close()

	counts := map[domain.Priority]int64{
		domain.PriorityLow:    0,
		domain.PriorityMedium: 0,
		domain.PriorityHigh:   0,
		domain.PriorityUrgent: 0,
	}
	for rows.Next() {
		var p domain.Priority
		var n int64
		if err := rows.Scan(&p, &n); err != nil {
			return nil, err
		}
		counts[p] = n
	}
	return counts, rows.Err()
}

func (r *statsRepository) OverdueCount(ctx context.Context, now time.Time) (int64, error) {
	q := queryTarget(ctx, r.db)
	var n int64
	err := q.QueryRowContext(ctx,
		`SELECT count(*) FROM tasks WHERE due_date IS NOT NULL AND due_date < $1 AND status <> $2`,
		now, domain.StatusDone).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	return n, nil
}

func (r *statsRepository) FieldCoverage(ctx context.Context) (domain.FieldCoverage, error) {
	q := queryTarget(ctx, r.db)
	var c domain.FieldCoverage
	err := q.QueryRowContext(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE due_date IS NOT NULL),
		        count(*) FILTER (WHERE description <> ''),
		        count(*) FILTER (WHERE cardinality(tags) > 0)
		 FROM tasks`,
	).Scan(&c.Total, &c.WithDueDate, &c.WithDescription, &c.WithTags)
	if err != nil {
		return domain.FieldCoverage{}, fmt.Errorf("failed to compute field coverage: %w", err)
	}
	return c, nil
}

func (r *statsRepository) CountsByAssignee(ctx context.Context, now time.Time) ([]domain.UserTaskCounts, error) {
	q := queryTarget(ctx, r.db)
	rows, err := q.QueryContext(ctx,
		`SELECT assignee_id,
		        count(*),
		        count(*) FILTER (WHERE status = $1),
		        count(*) FILTER (WHERE due_date IS NOT NULL AND due_date < $2 AND status <> $1)
		 FROM tasks GROUP BY assignee_id`,
		domain.StatusDone, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count by assignee: %w", err)
	}
	defer rows.Close()

	var out []domain.UserTaskCounts
	for rows.Next() {
		var c domain.UserTaskCounts
		if err := rows.Scan(&c.UserID, &c.Total, &c.Done, &c.Overdue); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *statsRepository) AssigneeCounts(ctx context.Context, userID int64, now time.Time) (domain.UserTaskCounts, error) {
	q := queryTarget(ctx, r.db)
	c := domain.UserTaskCounts{UserID: userID}
	err := q.QueryRowContext(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE status = $2),
		        count(*) FILTER (WHERE due_date IS NOT NULL AND due_date < $3 AND status <> $2)
		 FROM tasks WHERE assignee_id = $1`,
		userID, domain.StatusDone, now,
	).Scan(&c.Total, &c.Done, &c.Overdue)
	if err != nil {
		return domain.UserTaskCounts{}, fmt.Errorf("failed to count assignee tasks: %w", err)
	}
	return c, nil
}

func (r *statsRepository) AssigneeStatusCounts(ctx context.Context, userID int64) (map[domain.Status]int64, error) {
	q := queryTarget(ctx, r.db)
	rows, err := q.QueryContext(ctx,
		`SELECT status, count(*) FROM tasks WHERE assignee_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count assignee tasks by status: %w", err)
	}
	defer rows.Close()

	counts := map[domain.Status]int64{
		domain.StatusTodo:       0,
		domain.StatusInProgress: 0,
		domain.StatusDone:       0,
	}
	for rows.Next() {
		var s domain.Status
		var n int64
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}
