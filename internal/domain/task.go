package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh || p == PriorityUrgent
}

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
	MaxTags           = 10
)

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags"`
	AssigneeID  int64      `json:"assigneeId"`
	CreatedByID int64      `json:"createdById"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsOverdue reports whether the task's due date has passed without the task
// being done. Tasks without a due date are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusDone
}

// NormalizeTags trims, lower-cases and deduplicates tags, preserving first
// occurrence order. Empty entries are dropped.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// ValidateNewTask checks field constraints for task creation. Tags must
// already be normalized. now anchors the due-date-in-future rule.
func ValidateNewTask(t *Task, now time.Time) error {
	var fields []string
	if strings.TrimSpace(t.Title) == "" {
		fields = append(fields, "title is required")
	} else if len(t.Title) > MaxTitleLen {
		fields = append(fields, fmt.Sprintf("title must be at most %d characters", MaxTitleLen))
	}
	if len(t.Description) > MaxDescriptionLen {
		fields = append(fields, fmt.Sprintf("description must be at most %d characters", MaxDescriptionLen))
	}
	if !t.Status.Valid() {
		fields = append(fields, fmt.Sprintf("invalid status %q", t.Status))
	}
	if !t.Priority.Valid() {
		fields = append(fields, fmt.Sprintf("invalid priority %q", t.Priority))
	}
	if len(t.Tags) > MaxTags {
		fields = append(fields, fmt.Sprintf("at most %d tags allowed", MaxTags))
	}
	if t.DueDate != nil && !t.DueDate.After(now) {
		fields = append(fields, "due date must be in the future")
	}
	if t.AssigneeID == 0 {
		fields = append(fields, "assignee is required")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// TaskPatch carries a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
	Tags        *[]string
	AssigneeID  *int64
}

// Validate checks the constraints of the fields present in the patch.
func (p *TaskPatch) Validate() error {
	var fields []string
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			fields = append(fields, "title cannot be empty")
		} else if len(*p.Title) > MaxTitleLen {
			fields = append(fields, fmt.Sprintf("title must be at most %d characters", MaxTitleLen))
		}
	}
	if p.Description != nil && len(*p.Description) > MaxDescriptionLen {
		fields = append(fields, fmt.Sprintf("description must be at most %d characters", MaxDescriptionLen))
	}
	if p.Status != nil && !p.Status.Valid() {
		fields = append(fields, fmt.Sprintf("invalid status %q", *p.Status))
	}
	if p.Priority != nil && !p.Priority.Valid() {
		fields = append(fields, fmt.Sprintf("invalid priority %q", *p.Priority))
	}
	if p.Tags != nil && len(NormalizeTags(*p.Tags)) > MaxTags {
		fields = append(fields, fmt.Sprintf("at most %d tags allowed", MaxTags))
	}
	if p.AssigneeID != nil && *p.AssigneeID == 0 {
		fields = append(fields, "assignee cannot be empty")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Apply returns a copy of t with the patch's fields applied. Tags are
// normalized on the way in.
func (p *TaskPatch) Apply(t *Task) Task {
	out := *t
	out.Tags = append([]string(nil), t.Tags...)
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.DueDate != nil {
		due := *p.DueDate
		out.DueDate = &due
	}
	if p.Tags != nil {
		out.Tags = NormalizeTags(*p.Tags)
	}
	if p.AssigneeID != nil {
		out.AssigneeID = *p.AssigneeID
	}
	return out
}

type TaskFilter struct {
	Status     *Status
	Priority   *Priority
	AssigneeID *int64
	// VisibleToID restricts results to tasks where the user is assignee or
	// creator. Used to scope member listings.
	VisibleToID *int64
	Page        int
	Limit       int
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
	ListOverdue(ctx context.Context, now time.Time, visibleToID *int64, page, limit int) ([]Task, int64, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error
	CountByAssignee(ctx context.Context, userID int64) (int64, error)
}

// Transactor runs fn inside a single database transaction; repository calls
// made with the ctx passed to fn share that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
