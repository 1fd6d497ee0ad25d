// Package policy holds the permission rules as pure functions of the actor
// and the target. No database access, no hidden state.
package policy

import (
	"github.com/haiminhwork/task_management_sample/internal/domain"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// CanPerform decides whether the actor may apply action to the task. Admins
// may do anything. Members may read and update only tasks they are assignee
// or creator of; delete is admin-only.
func CanPerform(role domain.Role, actorID int64, task *domain.Task, action Action) bool {
	if role == domain.RoleAdmin {
		return true
	}
	switch action {
	case ActionRead, ActionUpdate:
		return task.AssigneeID == actorID || task.CreatedByID == actorID
	case ActionDelete:
		return false
	}
	return false
}

// CanAssign decides whether the actor may set the given assignee on a task
// being created. Members may only assign to themselves.
func CanAssign(role domain.Role, actorID, assigneeID int64) bool {
	if role == domain.RoleAdmin {
		return true
	}
	return assigneeID == actorID
}

// CanChangeRole: only admins change roles, and never their own.
func CanChangeRole(actorRole domain.Role, actorID, targetID int64) bool {
	return actorRole == domain.RoleAdmin && actorID != targetID
}

// CanDeleteUser: only admins delete accounts, and never their own. The
// no-assigned-tasks rule needs store state and lives in the user service.
func CanDeleteUser(actorRole domain.Role, actorID, targetID int64) bool {
	return actorRole == domain.RoleAdmin && actorID != targetID
}

// CanViewUser: admins see everyone, members only themselves.
func CanViewUser(actorRole domain.Role, actorID, targetID int64) bool {
	return actorRole == domain.RoleAdmin || actorID == targetID
}
