package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haiminhwork/task_management_sample/internal/service"
	"github.com/haiminhwork/task_management_sample/internal/service/serviceutils"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profilePatchRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type authResponse struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) RegisterHandler(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	user, token, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "registered", authResponse{User: user, Token: token})
}

func (h *AuthHandler) LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	user, token, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "logged in", authResponse{User: user, Token: token})
}

// LogoutHandler acknowledges the logout. Tokens are stateless; the client
// discards its copy.
func (h *AuthHandler) LogoutHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) ProfileHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", actorFrom(c))
}

func (h *AuthHandler) UpdateProfileHandler(c echo.Context) error {
	var req profilePatchRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	user, err := h.svc.UpdateProfile(c.Request().Context(), actorFrom(c), service.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "profile updated", user)
}

func (h *AuthHandler) ChangePasswordHandler(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	if err := h.svc.ChangePassword(c.Request().Context(), actorFrom(c), req.CurrentPassword, req.NewPassword); err != nil {
		return serviceutils.RespondDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "password changed", nil)
}

// VerifyHandler confirms the token is valid; the middleware already resolved
// the actor.
func (h *AuthHandler) VerifyHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "token valid", actorFrom(c))
}
