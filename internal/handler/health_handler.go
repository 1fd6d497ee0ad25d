package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haiminhwork/task_management_sample/internal/service/serviceutils"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) HealthHandler(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "database unreachable", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", map[string]string{"status": "ok"})
}
