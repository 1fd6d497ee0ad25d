package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haiminhwork/task_management_sample/internal/auth"
	"github.com/haiminhwork/task_management_sample/internal/domain"
	"github.com/haiminhwork/task_management_sample/internal/service/serviceutils"
)

const actorContextKey = "actor"

// RequireAuth parses the bearer token and loads the acting user into the
// request context. Requests without a valid token never reach the handler.
func RequireAuth(tokens *auth.TokenManager, users domain.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return serviceutils.RespondDomainError(c, &domain.AuthError{Reason: "missing authorization header"})
			}
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return serviceutils.RespondDomainError(c, &domain.AuthError{Reason: "authorization header must be a bearer token"})
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				return serviceutils.RespondDomainError(c, err)
			}
			userID, err := claims.UserID()
			if err != nil {
				return serviceutils.RespondDomainError(c, &domain.AuthError{Reason: "invalid token"})
			}

			// The account may have been deleted since the token was issued.
			user, err := users.GetByID(c.Request().Context(), userID)
			if err != nil {
				return serviceutils.RespondDomainError(c, &domain.AuthError{Reason: "account no longer exists"})
			}

			c.Set(actorContextKey, user)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) *domain.User {
	user, _ := c.Get(actorContextKey).(*domain.User)
	return user
}
