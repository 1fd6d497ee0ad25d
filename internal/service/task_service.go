package service

import (
	"context"
	"errors"
	"time"

	"github.com/haiminhwork/task_management_sample/internal/domain"
	"github.com/haiminhwork/task_management_sample/internal/logger"
	"github.com/haiminhwork/task_management_sample/internal/policy"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.Status
	Priority    domain.Priority
	DueDate     *time.Time
	Tags        []string
	// AssigneeID zero means "assign to the actor".
	AssigneeID int64
}

type BulkUpdateResult struct {
	TaskID int64        `json:"taskId"`
	Task   *domain.Task `json:"task,omitempty"`
	Error  string       `json:"error,omitempty"`
}

type TaskService interface {
	Create(ctx context.Context, actor *domain.User, input CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.Task, error)
	List(ctx context.Context, actor *domain.User, filter domain.TaskFilter) ([]domain.Task, int64, error)
	Overdue(ctx context.Context, actor *domain.User, page, limit int) ([]domain.Task, int64, error)
	ByAssignee(ctx context.Context, actor *domain.User, assigneeID int64, page, limit int) ([]domain.Task, int64, error)
	Update(ctx context.Context, actor *domain.User, id int64, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
	BulkUpdate(ctx context.Context, actor *domain.User, ids []int64, patch domain.TaskPatch) []BulkUpdateResult
	Activity(ctx context.Context, actor *domain.User, taskID int64, page, limit int) ([]domain.ActivityLog, int64, error)
}

type taskService struct {
	tasks      domain.TaskRepository
	users      domain.UserRepository
	activities domain.ActivityRepository
	tx         domain.Transactor
	now        func() time.Time
}

func NewTaskService(tasks domain.TaskRepository, users domain.UserRepository, activities domain.ActivityRepository, tx domain.Transactor) TaskService {
	return &taskService{
		tasks:      tasks,
		users:      users,
		activities: activities,
		tx:         tx,
		now:        time.Now,
	}
}

func (s *taskService) Create(ctx context.Context, actor *domain.User, input CreateTaskInput) (*domain.Task, error) {
	assigneeID := input.AssigneeID
	if assigneeID == 0 {
		assigneeID = actor.ID
	}
	if !policy.CanAssign(actor.Role, actor.ID, assigneeID) {
		return nil, &domain.PermissionError{Reason: "members can only assign tasks to themselves"}
	}

	task := domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Tags:        domain.NormalizeTags(input.Tags),
		AssigneeID:  assigneeID,
		CreatedByID: actor.ID,
	}
	if task.Status == "" {
		task.Status = domain.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}

	if err := domain.ValidateNewTask(&task, s.now()); err != nil {
		return nil, err
	}
	if err := s.checkAssigneeExists(ctx, assigneeID); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tasks.Create(ctx, &task); err != nil {
			return err
		}
		return s.activities.Append(ctx, &domain.ActivityLog{
			TaskID: task.ID,
			UserID: actor.ID,
			Action: domain.ActionCreated,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.InfoLog(ctx, "task %d created by user %d", task.ID, actor.ID)
	return &task, nil
}

func (s *taskService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor.Role, actor.ID, task, policy.ActionRead) {
		return nil, &domain.PermissionError{Reason: "not allowed to view this task"}
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, actor *domain.User, filter domain.TaskFilter) ([]domain.Task, int64, error) {
	if actor.Role != domain.RoleAdmin {
		filter.VisibleToID = &actor.ID
	}
	return s.tasks.List(ctx, filter)
}

func (s *taskService) Overdue(ctx context.Context, actor *domain.User, page, limit int) ([]domain.Task, int64, error) {
	var visibleTo *int64
	if actor.Role != domain.RoleAdmin {
		visibleTo = &actor.ID
	}
	return s.tasks.ListOverdue(ctx, s.now(), visibleTo, page, limit)
}

func (s *taskService) ByAssignee(ctx context.Context, actor *domain.User, assigneeID int64, page, limit int) ([]domain.Task, int64, error) {
	if actor.Role != domain.RoleAdmin && assigneeID != actor.ID {
		return nil, 0, &domain.PermissionError{Reason: "not allowed to view another user's tasks"}
	}
	return s.tasks.List(ctx, domain.TaskFilter{
		AssigneeID: &assigneeID,
		Page:       page,
		Limit:      limit,
	})
}

func (s *taskService) Update(ctx context.Context, actor *domain.User, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor.Role, actor.ID, task, policy.ActionUpdate) {
		return nil, &domain.PermissionError{Reason: "not allowed to update this task"}
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.AssigneeID != nil && *patch.AssigneeID != task.AssigneeID {
		if err := s.checkAssigneeExists(ctx, *patch.AssigneeID); err != nil {
			return nil, err
		}
	}

	updated := patch.Apply(task)
	changes := domain.DiffTasks(task, &updated)
	if len(changes) == 0 {
		// Nothing to persist, nothing to log.
		return task, nil
	}

	action := domain.ActionForChanges(changes)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tasks.Update(ctx, &updated); err != nil {
			return err
		}
		return s.activities.Append(ctx, &domain.ActivityLog{
			TaskID:  updated.ID,
			UserID:  actor.ID,
			Action:  action,
			Changes: changes,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.InfoLog(ctx, "task %d updated by user %d (%s)", updated.ID, actor.ID, action)
	return &updated, nil
}

func (s *taskService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanPerform(actor.Role, actor.ID, task, policy.ActionDelete) {
		return &domain.PermissionError{Reason: "only admins can delete tasks"}
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tasks.Delete(ctx, id); err != nil {
			return err
		}
		// The entry references the removed task id on purpose: the audit
		// trail outlives the task.
		return s.activities.Append(ctx, &domain.ActivityLog{
			TaskID: id,
			UserID: actor.ID,
			Action: domain.ActionDeleted,
		})
	})
	if err != nil {
		return err
	}
	logger.InfoLog(ctx, "task %d deleted by user %d", id, actor.ID)
	return nil
}

func (s *taskService) BulkUpdate(ctx context.Context, actor *domain.User, ids []int64, patch domain.TaskPatch) []BulkUpdateResult {
	results := make([]BulkUpdateResult, 0, len(ids))
	for _, id := range ids {
		task, err := s.Update(ctx, actor, id, patch)
		res := BulkUpdateResult{TaskID: id, Task: task}
		if err != nil {
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}

func (s *taskService) Activity(ctx context.Context, actor *domain.User, taskID int64, page, limit int) ([]domain.ActivityLog, int64, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, 0, err
	}
	if !policy.CanPerform(actor.Role, actor.ID, task, policy.ActionRead) {
		return nil, 0, &domain.PermissionError{Reason: "not allowed to view this task"}
	}
	return s.activities.List(ctx, domain.ActivityFilter{
		TaskID: &taskID,
		Page:   page,
		Limit:  limit,
	})
}

// checkAssigneeExists turns a missing assignee into a dangling-reference
// error (400 at the boundary, not 404).
func (s *taskService) checkAssigneeExists(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return &domain.NotFoundError{Resource: "assignee", ID: id, Referenced: true}
		}
		return err
	}
	return nil
}
