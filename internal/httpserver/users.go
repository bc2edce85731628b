package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/taskforge/internal/logging"
	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	user, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("user_get_failed", "status", 404, "user_id", c.Param("id"))
			return apiError(http.StatusNotFound, "NOT_FOUND", "User not found")
		}
		l.Error("user_get_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("user_update_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Update(ctx, c.Param("id"), service.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("user_update_failed", "status", 404, "user_id", c.Param("id"))
			return apiError(http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("user_update_failed", "status", 400, "error", err)
			return apiError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, service.ErrConflict):
			l.Warn("user_update_failed", "status", 409, "reason", "email taken")
			return apiError(http.StatusConflict, "DUPLICATE_EMAIL", "User with this email already exists")
		default:
			l.Error("user_update_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update user")
		}
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("user_delete_failed", "status", 404, "user_id", c.Param("id"))
			return apiError(http.StatusNotFound, "NOT_FOUND", "User not found")
		}
		l.Error("user_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete user")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
