package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// apiError builds an HTTP error carrying an explicit error code for the
// top-level handler to render.
func apiError(status int, errorCode, detail string) *echo.HTTPError {
	return echo.NewHTTPError(status, map[string]string{
		"error_code": errorCode,
		"detail":     detail,
	})
}

func defaultCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_ERROR"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusInternalServerError:
		return "INTERNAL_ERROR"
	default:
		return fmt.Sprintf("HTTP_%d", status)
	}
}

// ErrorHandler renders every error as the standard JSON body. Internal
// detail of unexpected errors is logged with the request id and never
// sent to the client.
func ErrorHandler(base *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}

		status := http.StatusInternalServerError
		errorCode := ""
		detail := "Internal server error"

		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			switch msg := he.Message.(type) {
			case map[string]string:
				errorCode = msg["error_code"]
				detail = msg["detail"]
			case string:
				detail = msg
			case error:
				detail = msg.Error()
			}
		}
		if errorCode == "" {
			errorCode = defaultCode(status)
		}
		if status >= http.StatusInternalServerError {
			base.Error("request failed", "request_id", rid, "status", status, "error", err)
			detail = "Internal server error"
			errorCode = "INTERNAL_ERROR"
		}

		body := errorBody{
			Detail:    detail,
			ErrorCode: errorCode,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: rid,
		}
		if writeErr := c.JSON(status, body); writeErr != nil {
			base.Error("error response write failed", "request_id", rid, "error", writeErr)
		}
	}
}
