package serviceutils_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/haiminhwork/task_management_sample/internal/domain"
	"github.com/haiminhwork/task_management_sample/internal/service/serviceutils"
)

func record(t *testing.T, respond func(c echo.Context) error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	assert.NoError(t, respond(c))
	return rec
}

func TestRespondDomainError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation", &domain.ValidationError{Fields: []string{"title is required"}}, http.StatusBadRequest},
		{"permission", &domain.PermissionError{Reason: "nope"}, http.StatusForbidden},
		{"not found", &domain.NotFoundError{Resource: "task", ID: 1}, http.StatusNotFound},
		{"dangling reference", &domain.NotFoundError{Resource: "assignee", ID: 9, Referenced: true}, http.StatusBadRequest},
		{"auth", &domain.AuthError{Reason: "invalid token"}, http.StatusUnauthorized},
		{"conflict", &domain.ConflictError{Reason: "email already in use"}, http.StatusBadRequest},
		{"unclassified", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := record(t, func(c echo.Context) error {
				return serviceutils.RespondDomainError(c, tc.err)
			})
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}

	t.Run("internal details are not leaked", func(t *testing.T) {
		rec := record(t, func(c echo.Context) error {
			return serviceutils.RespondDomainError(c, errors.New("pq: relation missing"))
		})
		assert.NotContains(t, rec.Body.String(), "pq:")
	})
}

func TestResponseSuccess(t *testing.T) {
	rec := record(t, func(c echo.Context) error {
		return serviceutils.ResponseSuccess(c, http.StatusCreated, "created", map[string]int{"id": 1})
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"id":1`)
}

func TestNewPagination(t *testing.T) {
	p := serviceutils.NewPagination(2, 20, 45)
	assert.Equal(t, 3, p.TotalPages)

	p = serviceutils.NewPagination(1, 20, 40)
	assert.Equal(t, 2, p.TotalPages)

	p = serviceutils.NewPagination(1, 20, 0)
	assert.Equal(t, 0, p.TotalPages)
}

func TestNormalizePaging(t *testing.T) {
	page, limit := serviceutils.NormalizePaging(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = serviceutils.NormalizePaging(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)

	page, limit = serviceutils.NormalizePaging(2, 50)
	assert.Equal(t, 2, page)
	assert.Equal(t, 50, limit)
}
