package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/haiminhwork/task_management_sample/internal/domain"
)

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) domain.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, entry *domain.ActivityLog) error {
	q := queryTarget(ctx, r.db)

	var changes interface{}
	if len(entry.Changes) > 0 {
		raw, err := json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("failed to encode changes: %w", err)
		}
		changes = raw
	}

	err := q.QueryRowContext(ctx,
		`INSERT INTO activity_logs (task_id, user_id, action, changes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		entry.TaskID, entry.UserID, entry.Action, changes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append activity entry: %w", err)
	}
	return nil
}

func (r *activityRepository) List(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityLog, int64, error) {
	q := queryTarget(ctx, r.db)

	where := ""
	var args []interface{}
	if filter.TaskID != nil {
		args = append(args, *filter.TaskID)
		where = fmt.Sprintf(" WHERE task_id = $%d", len(args))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		if where == "" {
			where = fmt.Sprintf(" WHERE user_id = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND user_id = $%d", len(args))
		}
	}

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM activity_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity entries: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	rows, err := q.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, task_id, user_id, action, changes, created_at
		 FROM activity_logs%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
			where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.ActivityLog
	for rows.Next() {
		var e domain.ActivityLog
		var raw []byte
		if err := rows.Scan(&e.ID, &e.TaskID, &e.UserID, &e.Action, &raw, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Changes); err != nil {
				return nil, 0, fmt.Errorf("failed to decode changes: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func (r *activityRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	q := queryTarget(ctx, r.db)
	var n int64
	if err := q.QueryRowContext(ctx,
		`SELECT count(*) FROM activity_logs WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recent activity: %w", err)
	}
	return n, nil
}

func (r *activityRepository) CountStatusChangedTo(ctx context.Context, status domain.Status, from, to time.Time) (int64, error) {
	q := queryTarget(ctx, r.db)
	var n int64
	if err := q.QueryRowContext(ctx,
		`SELECT count(*) FROM activity_logs
		 WHERE action = $1 AND changes->'status'->>'to' = $2 AND created_at >= $3 AND created_at < $4`,
		domain.ActionStatusChanged, string(status), from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count status changes: %w", err)
	}
	return n, nil
}

func (r *activityRepository) CountByActionBetween(ctx context.Context, action domain.Action, from, to time.Time) (int64, error) {
	q := queryTarget(ctx, r.db)
	var n int64
	if err := q.QueryRowContext(ctx,
		`SELECT count(*) FROM activity_logs WHERE action = $1 AND created_at >= $2 AND created_at < $3`,
		action, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count activity by action: %w", err)
	}
	return n, nil
}
