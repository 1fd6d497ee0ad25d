package service

import (
	"context"
	"strings"

	"github.com/haiminhwork/task_management_sample/internal/domain"
	"github.com/haiminhwork/task_management_sample/internal/logger"
	"github.com/haiminhwork/task_management_sample/internal/policy"
)

type UserService interface {
	List(ctx context.Context, actor *domain.User, filter domain.UserFilter) ([]domain.User, int64, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.User, targetID int64, patch ProfilePatch) (*domain.User, error)
	ChangeRole(ctx context.Context, actor *domain.User, targetID int64, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, targetID int64) error
}

type userService struct {
	users domain.UserRepository
	tasks domain.TaskRepository
}

func NewUserService(users domain.UserRepository, tasks domain.TaskRepository) UserService {
	return &userService{users: users, tasks: tasks}
}

func (s *userService) List(ctx context.Context, actor *domain.User, filter domain.UserFilter) ([]domain.User, int64, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, 0, &domain.PermissionError{Reason: "only admins can list users"}
	}
	return s.users.List(ctx, filter)
}

func (s *userService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.User, error) {
	if !policy.CanViewUser(actor.Role, actor.ID, id) {
		return nil, &domain.PermissionError{Reason: "not allowed to view this user"}
	}
	return s.users.GetByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, actor *domain.User, targetID int64, patch ProfilePatch) (*domain.User, error) {
	if !policy.CanViewUser(actor.Role, actor.ID, targetID) {
		return nil, &domain.PermissionError{Reason: "not allowed to update this user"}
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if patch.FirstName != nil {
		target.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		target.LastName = strings.TrimSpace(*patch.LastName)
	}
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *userService) ChangeRole(ctx context.Context, actor *domain.User, targetID int64, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, &domain.ValidationError{Fields: []string{"invalid role"}}
	}
	if !policy.CanChangeRole(actor.Role, actor.ID, targetID) {
		if actor.ID == targetID {
			return nil, &domain.PermissionError{Reason: "cannot change your own role"}
		}
		return nil, &domain.PermissionError{Reason: "only admins can change roles"}
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	target.Role = role
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	logger.InfoLog(ctx, "user %d role changed to %s by user %d", targetID, role, actor.ID)
	return target, nil
}

func (s *userService) Delete(ctx context.Context, actor *domain.User, targetID int64) error {
	if !policy.CanDeleteUser(actor.Role, actor.ID, targetID) {
		if actor.ID == targetID {
			return &domain.PermissionError{Reason: "cannot delete your own account"}
		}
		return &domain.PermissionError{Reason: "only admins can delete users"}
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}
	assigned, err := s.tasks.CountByAssignee(ctx, targetID)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return &domain.ConflictError{Reason: "user still has assigned tasks"}
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	logger.InfoLog(ctx, "user %d deleted by user %d", targetID, actor.ID)
	return nil
}
