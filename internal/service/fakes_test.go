package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/haiminhwork/task_management_sample/internal/domain"
)

// In-memory stand-ins for the domain repositories.

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		if u.ID == 0 {
			r.nextID++
			u.ID = r.nextID
		} else if u.ID > r.nextID {
			r.nextID = u.ID
		}
		copied := *u
		r.users[u.ID] = &copied
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return &domain.ConflictError{Reason: "email already in use"}
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "user", ID: id}
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "user"}
}

func (r *fakeUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range r.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return &domain.NotFoundError{Resource: "user", ID: u.ID}
	}
	u.UpdatedAt = time.Now()
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return &domain.NotFoundError{Resource: "user", ID: id}
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeTaskRepo struct {
	tasks  map[int64]*domain.Task
	nextID int64
}

func newFakeTaskRepo(tasks ...*domain.Task) *fakeTaskRepo {
	r := &fakeTaskRepo{tasks: make(map[int64]*domain.Task)}
	for _, t := range tasks {
		if t.ID == 0 {
			r.nextID++
			t.ID = r.nextID
		} else if t.ID > r.nextID {
			r.nextID = t.ID
		}
		copied := *t
		r.tasks[t.ID] = &copied
	}
	return r
}

func (r *fakeTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	copied := *t
	r.tasks[t.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "task", ID: id}
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int64, error) {
	var out []domain.Task
	for _, t := range r.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if filter.AssigneeID != nil && t.AssigneeID != *filter.AssigneeID {
			continue
		}
		if filter.VisibleToID != nil && t.AssigneeID != *filter.VisibleToID && t.CreatedByID != *filter.VisibleToID {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeTaskRepo) ListOverdue(ctx context.Context, now time.Time, visibleToID *int64, page, limit int) ([]domain.Task, int64, error) {
	var out []domain.Task
	for _, t := range r.tasks {
		if !t.IsOverdue(now) {
			continue
		}
		if visibleToID != nil && t.AssigneeID != *visibleToID && t.CreatedByID != *visibleToID {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return &domain.NotFoundError{Resource: "task", ID: t.ID}
	}
	t.UpdatedAt = time.Now()
	copied := *t
	r.tasks[t.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.tasks[id]; !ok {
		return &domain.NotFoundError{Resource: "task", ID: id}
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) CountByAssignee(ctx context.Context, userID int64) (int64, error) {
	var n int64
	for _, t := range r.tasks {
		if t.AssigneeID == userID {
			n++
		}
	}
	return n, nil
}

type fakeActivityRepo struct {
	entries   []domain.ActivityLog
	appendErr error
}

func (r *fakeActivityRepo) Append(ctx context.Context, entry *domain.ActivityLog) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	entry.ID = int64(len(r.entries) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeActivityRepo) List(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityLog, int64, error) {
	var out []domain.ActivityLog
	for _, e := range r.entries {
		if filter.TaskID != nil && e.TaskID != *filter.TaskID {
			continue
		}
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeActivityRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeActivityRepo) CountByActionBetween(ctx context.Context, action domain.Action, from, to time.Time) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if e.Action == action && !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *fakeActivityRepo) CountStatusChangedTo(ctx context.Context, status domain.Status, from, to time.Time) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if e.Action != domain.ActionStatusChanged || e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		if change, ok := e.Changes["status"]; ok && change.To == string(status) {
			n++
		}
	}
	return n, nil
}

type fakeStatsRepo struct {
	statusCounts   map[domain.Status]int64
	priorityCounts map[domain.Priority]int64
	overdue        int64
	coverage       domain.FieldCoverage
	byAssignee     []domain.UserTaskCounts
}

func (r *fakeStatsRepo) StatusCounts(ctx context.Context) (map[domain.Status]int64, error) {
	return r.statusCounts, nil
}

func (r *fakeStatsRepo) PriorityCounts(ctx context.Context) (map[domain.Priority]int64, error) {
	return r.priorityCounts, nil
}

func (r *fakeStatsRepo) OverdueCount(ctx context.Context, now time.Time) (int64, error) {
	return r.overdue, nil
}

func (r *fakeStatsRepo) FieldCoverage(ctx context.Context) (domain.FieldCoverage, error) {
	return r.coverage, nil
}

func (r *fakeStatsRepo) CountsByAssignee(ctx context.Context, now time.Time) ([]domain.UserTaskCounts, error) {
	return r.byAssignee, nil
}

func (r *fakeStatsRepo) AssigneeCounts(ctx context.Context, userID int64, now time.Time) (domain.UserTaskCounts, error) {
	for _, c := range r.byAssignee {
		if c.UserID == userID {
			return c, nil
		}
	}
	return domain.UserTaskCounts{UserID: userID}, nil
}

func (r *fakeStatsRepo) AssigneeStatusCounts(ctx context.Context, userID int64) (map[domain.Status]int64, error) {
	return r.statusCounts, nil
}
