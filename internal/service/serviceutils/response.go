package serviceutils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haiminhwork/task_management_sample/internal/domain"
)

type GenericResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) *Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func ResponseSuccess(c echo.Context, code int, msg string, data interface{}) error {
	return c.JSON(code, GenericResponse{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func ResponsePaginated(c echo.Context, code int, msg string, data interface{}, p *Pagination) error {
	return c.JSON(code, GenericResponse{
		Success:    true,
		Message:    msg,
		Data:       data,
		Pagination: p,
	})
}

func ResponseError(c echo.Context, code int, msg string, err error) error {
	resp := GenericResponse{
		Success: false,
		Message: msg,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(code, resp)
}

// RespondDomainError is the single boundary translator from the typed error
// taxonomy to HTTP statuses. Anything unclassified degrades to a generic 500.
func RespondDomainError(c echo.Context, err error) error {
	var (
		validationErr *domain.ValidationError
		permissionErr *domain.PermissionError
		notFoundErr   *domain.NotFoundError
		authErr       *domain.AuthError
		conflictErr   *domain.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		return ResponseError(c, http.StatusBadRequest, "validation failed", err)
	case errors.As(err, &permissionErr):
		return ResponseError(c, http.StatusForbidden, "forbidden", err)
	case errors.As(err, &notFoundErr):
		if notFoundErr.Referenced {
			return ResponseError(c, http.StatusBadRequest, "invalid reference", err)
		}
		return ResponseError(c, http.StatusNotFound, "not found", err)
	case errors.As(err, &authErr):
		return ResponseError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.As(err, &conflictErr):
		return ResponseError(c, http.StatusBadRequest, "conflict", err)
	default:
		return ResponseError(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// NormalizePaging clamps page/limit query values into their allowed ranges.
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
