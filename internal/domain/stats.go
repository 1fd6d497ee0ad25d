package domain

import (
	"context"
	"math"
	"time"
)

// TaskOverview is the aggregate snapshot behind /stats/overview.
type TaskOverview struct {
	Total          int64              `json:"total"`
	ByStatus       map[Status]int64   `json:"byStatus"`
	ByPriority     map[Priority]int64 `json:"byPriority"`
	Overdue        int64              `json:"overdue"`
	CompletionRate float64            `json:"completionRate"`
}

// MemberStats is one row of the team breakdown.
type MemberStats struct {
	UserID         int64   `json:"userId"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Total          int64   `json:"total"`
	Done           int64   `json:"done"`
	Overdue        int64   `json:"overdue"`
	CompletionRate float64 `json:"completionRate"`
}

// FieldCoverage counts how many tasks carry each optional quality signal.
type FieldCoverage struct {
	Total           int64 `json:"total"`
	WithDueDate     int64 `json:"withDueDate"`
	WithDescription int64 `json:"withDescription"`
	WithTags        int64 `json:"withTags"`
}

// SystemStats is the read-side health view of the whole board.
type SystemStats struct {
	Coverage    FieldCoverage `json:"coverage"`
	HealthScore float64       `json:"healthScore"`
	Activity24h int64         `json:"activity24h"`
	Users       int64         `json:"users"`
}

// WeeklyTrend compares the last seven days of an activity action against the
// seven days before, both counted from the append-only log.
type WeeklyTrend struct {
	ThisWeek      int64   `json:"thisWeek"`
	LastWeek      int64   `json:"lastWeek"`
	ChangePercent float64 `json:"changePercent"`
}

// Analytics is the trend view behind /stats/analytics.
type Analytics struct {
	Created   WeeklyTrend `json:"created"`
	Completed WeeklyTrend `json:"completed"`
	Deleted   WeeklyTrend `json:"deleted"`
}

// UserDashboard is the per-user slice of the board.
type UserDashboard struct {
	UserID         int64            `json:"userId"`
	Assigned       int64            `json:"assigned"`
	ByStatus       map[Status]int64 `json:"byStatus"`
	Overdue        int64            `json:"overdue"`
	CompletionRate float64          `json:"completionRate"`
	RecentActivity []ActivityLog    `json:"recentActivity"`
}

// CompletionRate returns done/total rounded to two decimals, 0 when total is 0.
func CompletionRate(done, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(done) / float64(total) * 100)
}

// HealthScore averages the coverage ratios of due date, description and tags
// into a 0..100 score. An empty board scores 0.
func HealthScore(c FieldCoverage) float64 {
	if c.Total == 0 {
		return 0
	}
	sum := float64(c.WithDueDate) + float64(c.WithDescription) + float64(c.WithTags)
	return round2(sum / float64(3*c.Total) * 100)
}

// TrendChange returns the week-over-week change in percent. A week starting
// from zero reports 100 when anything happened, 0 otherwise.
func TrendChange(thisWeek, lastWeek int64) float64 {
	if lastWeek == 0 {
		if thisWeek == 0 {
			return 0
		}
		return 100
	}
	return round2(float64(thisWeek-lastWeek) / float64(lastWeek) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UserTaskCounts is a per-assignee aggregation row from the task store.
type UserTaskCounts struct {
	UserID  int64
	Total   int64
	Done    int64
	Overdue int64
}

type StatsRepository interface {
	StatusCounts(ctx context.Context) (map[Status]int64, error)
	PriorityCounts(ctx context.Context) (map[Priority]int64, error)
	OverdueCount(ctx context.Context, now time.Time) (int64, error)
	FieldCoverage(ctx context.Context) (FieldCoverage, error)
	CountsByAssignee(ctx context.Context, now time.Time) ([]UserTaskCounts, error)
	AssigneeCounts(ctx context.Context, userID int64, now time.Time) (UserTaskCounts, error)
	AssigneeStatusCounts(ctx context.Context, userID int64) (map[Status]int64, error)
}
