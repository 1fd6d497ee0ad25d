package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haiminhwork/task_management_sample/internal/domain"
	"github.com/haiminhwork/task_management_sample/internal/policy"
	"github.com/haiminhwork/task_management_sample/internal/service"
	"github.com/haiminhwork/task_management_sample/internal/service/serviceutils"
)

type UserHandler struct {
	svc   service.UserService
	stats service.StatsService
}

func NewUserHandler(svc service.UserService, stats service.StatsService) *UserHandler {
	return &UserHandler{svc: svc, stats: stats}
}

type roleChangeRequest struct {
	Role string `json:"role"`
}

func (h *UserHandler) ListHandler(c echo.Context) error {
	filter := domain.UserFilter{}
	if v := c.QueryParam("role"); v != "" {
		r := domain.Role(v)
		filter.Role = &r
	}
	filter.Page, filter.Limit = pagingParams(c)

	users, total, err := h.svc.List(c.Request().Context(), actorFrom(c), filter)
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponsePaginated(c, http.StatusOK, "", users,
		serviceutils.NewPagination(filter.Page, filter.Limit, total))
}

func (h *UserHandler) GetHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid user id", err)
	}
	user, err := h.svc.Get(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", user)
}

func (h *UserHandler) UpdateHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid user id", err)
	}
	var req profilePatchRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	user, err := h.svc.UpdateProfile(c.Request().Context(), actorFrom(c), id, service.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "user updated", user)
}

func (h *UserHandler) ChangeRoleHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid user id", err)
	}
	var req roleChangeRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	user, err := h.svc.ChangeRole(c.Request().Context(), actorFrom(c), id, domain.Role(req.Role))
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "role updated", user)
}

func (h *UserHandler) DeleteHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid user id", err)
	}
	if err := h.svc.Delete(c.Request().Context(), actorFrom(c), id); err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "user deleted", nil)
}

// DashboardHandler serves /users/dashboard (own) and /users/dashboard/:id.
func (h *UserHandler) DashboardHandler(c echo.Context) error {
	actor := actorFrom(c)
	targetID := actor.ID
	if c.Param("id") != "" {
		id, err := pathID(c, "id")
		if err != nil {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid user id", err)
		}
		targetID = id
	}
	if !policy.CanViewUser(actor.Role, actor.ID, targetID) {
		return serviceutils.RespondDomainError(c, &domain.PermissionError{Reason: "not allowed to view this dashboard"})
	}
	dashboard, err := h.stats.UserDashboard(c.Request().Context(), targetID)
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", dashboard)
}
