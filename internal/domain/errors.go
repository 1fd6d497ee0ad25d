package domain

import (
	"fmt"
	"strings"
)

// ValidationError carries one message per violated field constraint.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// PermissionError means the actor is authenticated but not allowed to perform
// the operation.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	if e.Reason == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Reason
}

// NotFoundError reports a missing resource. Referenced marks the case where
// the missing entity was named inside a request body (a dangling reference)
// rather than being the subject of the URL; the boundary maps those to 400
// instead of 404.
type NotFoundError struct {
	Resource   string
	ID         int64
	Referenced bool
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	}
	return e.Resource + " not found"
}

// AuthError covers missing, malformed or expired credentials.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return e.Reason
}

// ConflictError reports a state conflict: a duplicate unique field, or an
// operation the current data forbids (deleting a user who still owns tasks).
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Reason == "" {
		return "conflict"
	}
	return e.Reason
}
