package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/taskforge/internal/events"
	"github.com/taskforge/taskforge/internal/hash"
	"github.com/taskforge/taskforge/internal/logging"
	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/internal/tokens"
	"github.com/taskforge/taskforge/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer *events.Producer
}

func (h *AuthHTTP) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, hash.ErrPasswordTooLong):
			l.Warn("register_failed", "status", 400, "error", err)
			return apiError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, service.ErrConflict):
			l.Warn("register_failed", "status", 409, "reason", "email already registered")
			return apiError(http.StatusConflict, "DUPLICATE_EMAIL", "User with this email already exists")
		default:
			l.Error("register_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "registration failed")
		}
	}

	h.publish(c, res.User.ID, map[string]any{
		"type":    "user_registered",
		"user_id": res.User.ID,
		"email":   res.User.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"user":         res.User,
		"token":        res.AccessToken,
		"refreshToken": res.RefreshToken,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("login_failed", "status", 400, "error", err)
			return apiError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return apiError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		default:
			l.Error("login_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
		}
	}

	h.publish(c, res.User.ID, map[string]any{
		"type":    "user_logged_in",
		"user_id": res.User.ID,
		"email":   res.User.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"user":         res.User,
		"token":        res.AccessToken,
		"refreshToken": res.RefreshToken,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	// Stateless tokens: nothing to invalidate server side.
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		l.Warn("refresh_failed", "status", 400, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "refreshToken is required")
	}

	access, _, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrInvalidTokenType):
			l.Warn("refresh_failed", "status", 401, "reason", "not a refresh token")
			return apiError(http.StatusUnauthorized, "INVALID_TOKEN_TYPE", "Invalid refresh token")
		case errors.Is(err, tokens.ErrInvalidToken):
			l.Warn("refresh_failed", "status", 401, "reason", "invalid token")
			return apiError(http.StatusUnauthorized, "INVALID_TOKEN", "Invalid refresh token")
		default:
			l.Error("refresh_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "token refresh failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"token": access})
}
