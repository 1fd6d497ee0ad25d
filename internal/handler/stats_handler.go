package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haiminhwork/task_management_sample/internal/domain"
	"github.com/haiminhwork/task_management_sample/internal/service"
	"github.com/haiminhwork/task_management_sample/internal/service/serviceutils"
)

type StatsHandler struct {
	svc service.StatsService
}

func NewStatsHandler(svc service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) OverviewHandler(c echo.Context) error {
	overview, err := h.svc.Overview(c.Request().Context())
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", overview)
}

func (h *StatsHandler) AnalyticsHandler(c echo.Context) error {
	analytics, err := h.svc.Analytics(c.Request().Context())
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", analytics)
}

func (h *StatsHandler) TeamHandler(c echo.Context) error {
	if actorFrom(c).Role != domain.RoleAdmin {
		return serviceutils.RespondDomainError(c, &domain.PermissionError{Reason: "only admins can view team stats"})
	}
	team, err := h.svc.Team(c.Request().Context())
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", team)
}

func (h *StatsHandler) SystemHandler(c echo.Context) error {
	if actorFrom(c).Role != domain.RoleAdmin {
		return serviceutils.RespondDomainError(c, &domain.PermissionError{Reason: "only admins can view system stats"})
	}
	system, err := h.svc.System(c.Request().Context())
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", system)
}

// UserStatsHandler is the actor's own dashboard under /stats/user.
func (h *StatsHandler) UserStatsHandler(c echo.Context) error {
	dashboard, err := h.svc.UserDashboard(c.Request().Context(), actorFrom(c).ID)
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", dashboard)
}
