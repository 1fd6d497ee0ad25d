package domain

import (
	"context"
	"time"
)

type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionDeleted       Action = "deleted"
	ActionStatusChanged Action = "status_changed"
	ActionAssigned      Action = "assigned"
	ActionUnassigned    Action = "unassigned"
)

// FieldChange records the before and after value of a single task field.
type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// ActivityLog is an append-only audit record: exactly one entry per mutating
// task operation. Entries are never updated or deleted and outlive the task
// they reference.
type ActivityLog struct {
	ID        int64                  `json:"id"`
	TaskID    int64                  `json:"taskId"`
	UserID    int64                  `json:"userId"`
	Action    Action                 `json:"action"`
	Changes   map[string]FieldChange `json:"changes,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// DiffTasks computes the field-level difference between two task snapshots.
// Only user-visible mutable fields participate; the map is empty when nothing
// changed.
func DiffTasks(old, updated *Task) map[string]FieldChange {
	changes := make(map[string]FieldChange)
	if old.Title != updated.Title {
		changes["title"] = FieldChange{From: old.Title, To: updated.Title}
	}
	if old.Description != updated.Description {
		changes["description"] = FieldChange{From: old.Description, To: updated.Description}
	}
	if old.Status != updated.Status {
		changes["status"] = FieldChange{From: string(old.Status), To: string(updated.Status)}
	}
	if old.Priority != updated.Priority {
		changes["priority"] = FieldChange{From: string(old.Priority), To: string(updated.Priority)}
	}
	if !equalDue(old.DueDate, updated.DueDate) {
		changes["dueDate"] = FieldChange{From: dueValue(old.DueDate), To: dueValue(updated.DueDate)}
	}
	if !equalTags(old.Tags, updated.Tags) {
		changes["tags"] = FieldChange{From: old.Tags, To: updated.Tags}
	}
	if old.AssigneeID != updated.AssigneeID {
		changes["assignee"] = FieldChange{From: old.AssigneeID, To: updated.AssigneeID}
	}
	return changes
}

// ActionForChanges picks the log action for an update: the specific action
// when exactly that one field changed, the generic one otherwise.
func ActionForChanges(changes map[string]FieldChange) Action {
	if len(changes) == 1 {
		if _, ok := changes["status"]; ok {
			return ActionStatusChanged
		}
		if _, ok := changes["assignee"]; ok {
			return ActionAssigned
		}
	}
	return ActionUpdated
}

func equalDue(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func dueValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type ActivityFilter struct {
	TaskID *int64
	UserID *int64
	Page   int
	Limit  int
}

type ActivityRepository interface {
	Append(ctx context.Context, entry *ActivityLog) error
	List(ctx context.Context, filter ActivityFilter) ([]ActivityLog, int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByActionBetween(ctx context.Context, action Action, from, to time.Time) (int64, error)
	// CountStatusChangedTo counts status_changed entries whose recorded "to"
	// value equals status, within [from, to).
	CountStatusChangedTo(ctx context.Context, status Status, from, to time.Time) (int64, error)
}
