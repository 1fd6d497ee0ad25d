package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haiminhwork/task_management_sample/internal/domain"
	"github.com/haiminhwork/task_management_sample/internal/service"
)

var (
	testAdmin  = &domain.User{ID: 1, Email: "admin@example.com", Role: domain.RoleAdmin}
	testMember = &domain.User{ID: 2, Email: "member@example.com", Role: domain.RoleMember}
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asActor(c echo.Context, user *domain.User) {
	c.Set("actor", user)
}

// stubTaskService satisfies service.TaskService with per-call overrides so
// each test wires only what it needs.
type stubTaskService struct {
	createFn func(ctx context.Context, actor *domain.User, input service.CreateTaskInput) (*domain.Task, error)
	getFn    func(ctx context.Context, actor *domain.User, id int64) (*domain.Task, error)
	listFn   func(ctx context.Context, actor *domain.User, filter domain.TaskFilter) ([]domain.Task, int64, error)
	updateFn func(ctx context.Context, actor *domain.User, id int64, patch domain.TaskPatch) (*domain.Task, error)
	deleteFn func(ctx context.Context, actor *domain.User, id int64) error
}

func (s *stubTaskService) Create(ctx context.Context, actor *domain.User, input service.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, actor, input)
}

func (s *stubTaskService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.Task, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubTaskService) List(ctx context.Context, actor *domain.User, filter domain.TaskFilter) ([]domain.Task, int64, error) {
	return s.listFn(ctx, actor, filter)
}

func (s *stubTaskService) Overdue(ctx context.Context, actor *domain.User, page, limit int) ([]domain.Task, int64, error) {
	return s.listFn(ctx, actor, domain.TaskFilter{Page: page, Limit: limit})
}

func (s *stubTaskService) ByAssignee(ctx context.Context, actor *domain.User, assigneeID int64, page, limit int) ([]domain.Task, int64, error) {
	return s.listFn(ctx, actor, domain.TaskFilter{AssigneeID: &assigneeID, Page: page, Limit: limit})
}

func (s *stubTaskService) Update(ctx context.Context, actor *domain.User, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubTaskService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubTaskService) BulkUpdate(ctx context.Context, actor *domain.User, ids []int64, patch domain.TaskPatch) []service.BulkUpdateResult {
	results := make([]service.BulkUpdateResult, 0, len(ids))
	for _, id := range ids {
		task, err := s.updateFn(ctx, actor, id, patch)
		res := service.BulkUpdateResult{TaskID: id, Task: task}
		if err != nil {
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}

func (s *stubTaskService) Activity(ctx context.Context, actor *domain.User, taskID int64, page, limit int) ([]domain.ActivityLog, int64, error) {
	return nil, 0, nil
}

type stubAuthService struct {
	registerFn func(ctx context.Context, input service.RegisterInput) (*domain.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.User, string, error)
}

func (s *stubAuthService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, string, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, actor *domain.User, patch service.ProfilePatch) (*domain.User, error) {
	return actor, nil
}

func (s *stubAuthService) ChangePassword(ctx context.Context, actor *domain.User, current, next string) error {
	return nil
}

// stubUserStore backs the auth middleware; only GetByID matters there.
type stubUserStore struct {
	users map[int64]*domain.User
}

func (s *stubUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, &domain.NotFoundError{Resource: "user", ID: id}
}

func (s *stubUserStore) Create(ctx context.Context, u *domain.User) error { return nil }

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, &domain.NotFoundError{Resource: "user"}
}

func (s *stubUserStore) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func (s *stubUserStore) Update(ctx context.Context, u *domain.User) error { return nil }
func (s *stubUserStore) Delete(ctx context.Context, id int64) error       { return nil }
func (s *stubUserStore) Count(ctx context.Context) (int64, error)         { return 0, nil }

type stubStatsService struct {
	overview domain.TaskOverview
}

func (s *stubStatsService) Overview(ctx context.Context) (*domain.TaskOverview, error) {
	return &s.overview, nil
}

func (s *stubStatsService) Analytics(ctx context.Context) (*domain.Analytics, error) {
	return &domain.Analytics{}, nil
}

func (s *stubStatsService) Team(ctx context.Context) ([]domain.MemberStats, error) {
	return nil, nil
}

func (s *stubStatsService) System(ctx context.Context) (*domain.SystemStats, error) {
	return &domain.SystemStats{}, nil
}

func (s *stubStatsService) UserDashboard(ctx context.Context, userID int64) (*domain.UserDashboard, error) {
	return &domain.UserDashboard{UserID: userID}, nil
}

var fixedDue = time.Date(2027, 1, 2, 15, 0, 0, 0, time.UTC)
