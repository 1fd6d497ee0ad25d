package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haiminhwork/task_management_sample/internal/domain"
	"github.com/haiminhwork/task_management_sample/internal/service"
	"github.com/haiminhwork/task_management_sample/internal/service/serviceutils"
	"github.com/haiminhwork/task_management_sample/pkg/taskreport"
)

type TaskHandler struct {
	svc       service.TaskService
	stats     service.StatsService
	reportCfg taskreport.Config
}

func NewTaskHandler(svc service.TaskService, stats service.StatsService, reportCfg taskreport.Config) *TaskHandler {
	return &TaskHandler{svc: svc, stats: stats, reportCfg: reportCfg}
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
	AssigneeID  int64      `json:"assigneeId"`
}

type taskPatchRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        *[]string  `json:"tags"`
	AssigneeID  *int64     `json:"assigneeId"`
}

type bulkUpdateRequest struct {
	TaskIDs []int64          `json:"taskIds"`
	Patch   taskPatchRequest `json:"patch"`
}

// taskResponse decorates the stored task with its derived overdue flag.
type taskResponse struct {
	domain.Task
	IsOverdue bool `json:"isOverdue"`
}

func taskView(t *domain.Task) taskResponse {
	return taskResponse{Task: *t, IsOverdue: t.IsOverdue(time.Now())}
}

func taskViews(tasks []domain.Task) []taskResponse {
	now := time.Now()
	out := make([]taskResponse, len(tasks))
	for i := range tasks {
		out[i] = taskResponse{Task: tasks[i], IsOverdue: tasks[i].IsOverdue(now)}
	}
	return out
}

func (r *taskPatchRequest) toPatch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Tags:        r.Tags,
		AssigneeID:  r.AssigneeID,
	}
	if r.Status != nil {
		s := domain.Status(*r.Status)
		patch.Status = &s
	}
	if r.Priority != nil {
		p := domain.Priority(*r.Priority)
		patch.Priority = &p
	}
	return patch
}

func (h *TaskHandler) CreateHandler(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	task, err := h.svc.Create(c.Request().Context(), actorFrom(c), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.Status(req.Status),
		Priority:    domain.Priority(req.Priority),
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "task created", taskView(task))
}

func (h *TaskHandler) GetHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid task id", err)
	}
	task, err := h.svc.Get(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", taskView(task))
}

func (h *TaskHandler) ListHandler(c echo.Context) error {
	filter := domain.TaskFilter{}
	if v := c.QueryParam("status"); v != "" {
		s := domain.Status(v)
		filter.Status = &s
	}
	if v := c.QueryParam("priority"); v != "" {
		p := domain.Priority(v)
		filter.Priority = &p
	}
	if v := c.QueryParam("assignee"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid assignee filter", err)
		}
		filter.AssigneeID = &id
	}
	filter.Page, filter.Limit = pagingParams(c)

	tasks, total, err := h.svc.List(c.Request().Context(), actorFrom(c), filter)
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponsePaginated(c, http.StatusOK, "", taskViews(tasks),
		serviceutils.NewPagination(filter.Page, filter.Limit, total))
}

func (h *TaskHandler) OverdueHandler(c echo.Context) error {
	page, limit := pagingParams(c)
	tasks, total, err := h.svc.Overdue(c.Request().Context(), actorFrom(c), page, limit)
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponsePaginated(c, http.StatusOK, "", taskViews(tasks),
		serviceutils.NewPagination(page, limit, total))
}

func (h *TaskHandler) ByAssigneeHandler(c echo.Context) error {
	assigneeID, err := pathID(c, "id")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid assignee id", err)
	}
	page, limit := pagingParams(c)
	tasks, total, err := h.svc.ByAssignee(c.Request().Context(), actorFrom(c), assigneeID, page, limit)
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponsePaginated(c, http.StatusOK, "", taskViews(tasks),
		serviceutils.NewPagination(page, limit, total))
}

func (h *TaskHandler) UpdateHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid task id", err)
	}
	var req taskPatchRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	task, err := h.svc.Update(c.Request().Context(), actorFrom(c), id, req.toPatch())
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "task updated", taskView(task))
}

func (h *TaskHandler) DeleteHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid task id", err)
	}
	if err := h.svc.Delete(c.Request().Context(), actorFrom(c), id); err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "task deleted", nil)
}

func (h *TaskHandler) BulkUpdateHandler(c echo.Context) error {
	var req bulkUpdateRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	if len(req.TaskIDs) == 0 {
		return serviceutils.RespondDomainError(c, &domain.ValidationError{Fields: []string{"taskIds is required"}})
	}
	results := h.svc.BulkUpdate(c.Request().Context(), actorFrom(c), req.TaskIDs, req.Patch.toPatch())
	return serviceutils.ResponseSuccess(c, http.StatusOK, "bulk update applied", results)
}

func (h *TaskHandler) ActivityHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid task id", err)
	}
	page, limit := pagingParams(c)
	entries, total, err := h.svc.Activity(c.Request().Context(), actorFrom(c), id, page, limit)
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponsePaginated(c, http.StatusOK, "", entries,
		serviceutils.NewPagination(page, limit, total))
}

// ExportHandler streams the actor-visible board as an Excel workbook.
func (h *TaskHandler) ExportHandler(c echo.Context) error {
	ctx := c.Request().Context()
	tasks, _, err := h.svc.List(ctx, actorFrom(c), domain.TaskFilter{Page: 1, Limit: taskreport.MaxExportRows})
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	overview, err := h.stats.Overview(ctx)
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}

	report, err := taskreport.Build(h.reportCfg, taskreport.Data{
		GeneratedAt: time.Now(),
		GeneratedBy: actorFrom(c).Email,
		Tasks:       tasks,
		Overview:    *overview,
	})
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to build report", err)
	}
	excelBytes, err := report.ToBytes()
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to generate Excel file", err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="task_report_%s.xlsx"`, time.Now().Format("2006-01-02")))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(excelBytes)))

	_, err = c.Response().Write(excelBytes)
	return err
}

func pathID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func pagingParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return serviceutils.NormalizePaging(page, limit)
}
