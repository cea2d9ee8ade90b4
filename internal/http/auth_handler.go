package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/dto"
	middleware "task-manager.com/task-manager/internal/http/middlewares"
	"task-manager.com/task-manager/internal/http/validators"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateRegisterRequest(&req); err != nil {
		return err
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return appError(err)
	}

	return c.JSON(http.StatusCreated, dto.NewAuthResponse(user, token))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateLoginRequest(&req); err != nil {
		return err
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return appError(err)
	}

	return c.JSON(http.StatusOK, dto.NewAuthResponse(user, token))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get(middleware.ContextTokenKey).(string)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return appError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, _ := c.Get(middleware.ContextUserKey).(*model.User)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	return c.JSON(http.StatusOK, echo.Map{"data": dto.NewUserResponse(user)})
}
