package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"github.com/haiminhwork/task_management_sample/internal/domain"
	"github.com/haiminhwork/task_management_sample/internal/handler"
	"github.com/haiminhwork/task_management_sample/internal/service"
	"github.com/haiminhwork/task_management_sample/pkg/taskreport"
)

func newTaskHandler(svc service.TaskService) *handler.TaskHandler {
	return handler.NewTaskHandler(svc, &stubStatsService{}, taskreport.DefaultConfig())
}

func TestTaskCreateHandler(t *testing.T) {
	t.Run("created task is returned with derived overdue flag", func(t *testing.T) {
		svc := &stubTaskService{
			createFn: func(ctx context.Context, actor *domain.User, input service.CreateTaskInput) (*domain.Task, error) {
				assert.Equal(t, testMember.ID, actor.ID)
				assert.Equal(t, "Ship it", input.Title)
				return &domain.Task{
					ID: 1, Title: input.Title, Status: domain.StatusTodo,
					Priority: domain.PriorityMedium, AssigneeID: actor.ID, CreatedByID: actor.ID,
				}, nil
			},
		}
		h := newTaskHandler(svc)

		c, rec := newContext(http.MethodPost, "/api/tasks", `{"title":"Ship it"}`)
		asActor(c, testMember)
		assert.NoError(t, h.CreateHandler(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				ID        int64 `json:"id"`
				IsOverdue bool  `json:"isOverdue"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, int64(1), resp.Data.ID)
		assert.False(t, resp.Data.IsOverdue)
	})

	t.Run("validation failure maps to 400", func(t *testing.T) {
		svc := &stubTaskService{
			createFn: func(ctx context.Context, actor *domain.User, input service.CreateTaskInput) (*domain.Task, error) {
				return nil, &domain.ValidationError{Fields: []string{"title is required"}}
			},
		}
		h := newTaskHandler(svc)

		c, rec := newContext(http.MethodPost, "/api/tasks", `{}`)
		asActor(c, testMember)
		assert.NoError(t, h.CreateHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "title is required")
	})

	t.Run("permission failure maps to 403", func(t *testing.T) {
		svc := &stubTaskService{
			createFn: func(ctx context.Context, actor *domain.User, input service.CreateTaskInput) (*domain.Task, error) {
				return nil, &domain.PermissionError{Reason: "members can only assign tasks to themselves"}
			},
		}
		h := newTaskHandler(svc)

		c, rec := newContext(http.MethodPost, "/api/tasks", `{"title":"x","assigneeId":9}`)
		asActor(c, testMember)
		assert.NoError(t, h.CreateHandler(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestTaskGetHandler(t *testing.T) {
	h := newTaskHandler(&stubTaskService{
		getFn: func(ctx context.Context, actor *domain.User, id int64) (*domain.Task, error) {
			if id != 7 {
				return nil, &domain.NotFoundError{Resource: "task", ID: id}
			}
			return &domain.Task{ID: 7, Title: "found", Status: domain.StatusTodo, Priority: domain.PriorityLow}, nil
		},
	})

	t.Run("found", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/api/tasks/7", "")
		c.SetParamNames("id")
		c.SetParamValues("7")
		asActor(c, testAdmin)
		assert.NoError(t, h.GetHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"title":"found"`)
	})

	t.Run("missing maps to 404", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/api/tasks/8", "")
		c.SetParamNames("id")
		c.SetParamValues("8")
		asActor(c, testAdmin)
		assert.NoError(t, h.GetHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("junk id maps to 400", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/api/tasks/abc", "")
		c.SetParamNames("id")
		c.SetParamValues("abc")
		asActor(c, testAdmin)
		assert.NoError(t, h.GetHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskListHandler(t *testing.T) {
	h := newTaskHandler(&stubTaskService{
		listFn: func(ctx context.Context, actor *domain.User, filter domain.TaskFilter) ([]domain.Task, int64, error) {
			assert.NotNil(t, filter.Status)
			assert.Equal(t, domain.StatusTodo, *filter.Status)
			assert.Equal(t, 2, filter.Page)
			assert.Equal(t, 5, filter.Limit)
			return []domain.Task{
				{ID: 1, Title: "a", Status: domain.StatusTodo, Priority: domain.PriorityLow},
			}, 11, nil
		},
	})

	c, rec := newContext(http.MethodGet, "/api/tasks?status=todo&page=2&limit=5", "")
	asActor(c, testAdmin)
	assert.NoError(t, h.ListHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Pagination struct {
			Page       int   `json:"page"`
			Total      int64 `json:"total"`
			TotalPages int   `json:"totalPages"`
		} `json:"pagination"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, int64(11), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

func TestTaskUpdateHandler(t *testing.T) {
	h := newTaskHandler(&stubTaskService{
		updateFn: func(ctx context.Context, actor *domain.User, id int64, patch domain.TaskPatch) (*domain.Task, error) {
			assert.NotNil(t, patch.Status)
			assert.Equal(t, domain.StatusDone, *patch.Status)
			assert.Nil(t, patch.Title)
			return &domain.Task{ID: id, Title: "x", Status: domain.StatusDone, Priority: domain.PriorityLow}, nil
		},
	})

	c, rec := newContext(http.MethodPut, "/api/tasks/3", `{"status":"done"}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	asActor(c, testMember)
	assert.NoError(t, h.UpdateHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"done"`)
}

func TestTaskDeleteHandler(t *testing.T) {
	h := newTaskHandler(&stubTaskService{
		deleteFn: func(ctx context.Context, actor *domain.User, id int64) error {
			if actor.Role != domain.RoleAdmin {
				return &domain.PermissionError{Reason: "only admins can delete tasks"}
			}
			return nil
		},
	})

	t.Run("admin", func(t *testing.T) {
		c, rec := newContext(http.MethodDelete, "/api/tasks/3", "")
		c.SetParamNames("id")
		c.SetParamValues("3")
		asActor(c, testAdmin)
		assert.NoError(t, h.DeleteHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("member", func(t *testing.T) {
		c, rec := newContext(http.MethodDelete, "/api/tasks/3", "")
		c.SetParamNames("id")
		c.SetParamValues("3")
		asActor(c, testMember)
		assert.NoError(t, h.DeleteHandler(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestTaskBulkUpdateHandler(t *testing.T) {
	h := newTaskHandler(&stubTaskService{
		updateFn: func(ctx context.Context, actor *domain.User, id int64, patch domain.TaskPatch) (*domain.Task, error) {
			if id == 2 {
				return nil, &domain.NotFoundError{Resource: "task", ID: id}
			}
			return &domain.Task{ID: id, Title: "x", Status: domain.StatusDone, Priority: domain.PriorityLow}, nil
		},
	})

	t.Run("mixed results come back per task", func(t *testing.T) {
		c, rec := newContext(http.MethodPut, "/api/tasks/bulk", `{"taskIds":[1,2],"patch":{"status":"done"}}`)
		asActor(c, testAdmin)
		assert.NoError(t, h.BulkUpdateHandler(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data []struct {
				TaskID int64  `json:"taskId"`
				Error  string `json:"error"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 2)
		assert.Empty(t, resp.Data[0].Error)
		assert.NotEmpty(t, resp.Data[1].Error)
	})

	t.Run("empty id list is rejected", func(t *testing.T) {
		c, rec := newContext(http.MethodPut, "/api/tasks/bulk", `{"taskIds":[],"patch":{"status":"done"}}`)
		asActor(c, testAdmin)
		assert.NoError(t, h.BulkUpdateHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskExportHandler(t *testing.T) {
	h := newTaskHandler(&stubTaskService{
		listFn: func(ctx context.Context, actor *domain.User, filter domain.TaskFilter) ([]domain.Task, int64, error) {
			return []domain.Task{
				{ID: 1, Title: "Ship it", Status: domain.StatusTodo, Priority: domain.PriorityHigh, DueDate: &fixedDue},
			}, 1, nil
		},
	})

	c, rec := newContext(http.MethodGet, "/api/tasks/export", "")
	asActor(c, testAdmin)
	assert.NoError(t, h.ExportHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	// The body must be a readable workbook containing the exported task.
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(taskreport.DefaultConfig().TaskName)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(rows), 2)
	assert.Contains(t, rows[1], "Ship it")
}
