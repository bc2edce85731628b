package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	mwauth "github.com/taskforge/taskforge/internal/middleware/auth"

	"github.com/taskforge/taskforge/internal/events"
	"github.com/taskforge/taskforge/internal/logging"
	"github.com/taskforge/taskforge/internal/models"
	"github.com/taskforge/taskforge/internal/search"
	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/internal/transport"
	"github.com/taskforge/taskforge/internal/util"
)

type TaskHTTP struct {
	Svc      *service.TaskService
	Producer *events.Producer
	ES       *elasticsearch.Client
}

func (h *TaskHTTP) publish(c echo.Context, eventType string, task *models.Task) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	event := map[string]any{
		"type":    eventType,
		"task_id": task.ID,
		"user_id": task.UserID,
	}
	if err := h.Producer.PublishEvent(ctx, events.TopicTaskEvents, task.UserID, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *TaskHTTP) index(c echo.Context, task *models.Task) {
	if h.ES == nil {
		return
	}
	if err := search.IndexTask(c.Request().Context(), h.ES, task); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index failed", "task_id", task.ID, "error", err)
	}
}

func (h *TaskHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.list")

	q := service.TaskListQuery{
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Search:   c.QueryParam("search"),
		Limit:    util.ParseIntDefault(c.QueryParam("limit"), 0),
		Offset:   util.ParseIntDefault(c.QueryParam("offset"), 0),
	}

	items, err := h.Svc.List(ctx, mwauth.UserID(c), q)
	if err != nil {
		l.Error("task_list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list tasks")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *TaskHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.create")

	var req transport.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("task_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	task, err := h.Svc.Create(ctx, mwauth.UserID(c), service.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("task_create_failed", "status", 400, "error", err)
			return apiError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		}
		l.Error("task_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create task")
	}

	h.publish(c, "task_created", task)
	h.index(c, task)

	return c.JSON(http.StatusCreated, task)
}

func (h *TaskHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.get")

	task, err := h.Svc.GetByID(ctx, mwauth.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("task_get_failed", "status", 404, "task_id", c.Param("id"))
			return apiError(http.StatusNotFound, "NOT_FOUND", "Task not found")
		}
		l.Error("task_get_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get task")
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.update")

	var req transport.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("task_update_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	task, err := h.Svc.Update(ctx, mwauth.UserID(c), c.Param("id"), service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("task_update_failed", "status", 404, "task_id", c.Param("id"))
			return apiError(http.StatusNotFound, "NOT_FOUND", "Task not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("task_update_failed", "status", 400, "error", err)
			return apiError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			l.Error("task_update_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update task")
		}
	}

	h.publish(c, "task_updated", task)
	h.index(c, task)

	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.delete")

	userID := mwauth.UserID(c)
	taskID := c.Param("id")

	if err := h.Svc.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("task_delete_failed", "status", 404, "task_id", taskID)
			return apiError(http.StatusNotFound, "NOT_FOUND", "Task not found")
		}
		l.Error("task_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete task")
	}

	h.publish(c, "task_deleted", &models.Task{ID: taskID, UserID: userID})
	if h.ES != nil {
		if err := search.DeleteTask(ctx, h.ES, taskID); err != nil {
			l.Error("es delete failed", "task_id", taskID, "error", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Task deleted successfully"})
}

func (h *TaskHTTP) ToggleComplete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.toggle")

	// Empty body flips the flag; {"completed": bool} sets it.
	var req transport.ToggleTaskRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			l.Warn("task_toggle_failed", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
	}

	task, err := h.Svc.ToggleCompletion(ctx, mwauth.UserID(c), c.Param("id"), req.Completed)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("task_toggle_failed", "status", 404, "task_id", c.Param("id"))
			return apiError(http.StatusNotFound, "NOT_FOUND", "Task not found")
		}
		l.Error("task_toggle_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot toggle task")
	}

	h.publish(c, "task_updated", task)
	h.index(c, task)

	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.search")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	limit := util.ClampLimit(util.ParseIntDefault(c.QueryParam("limit"), 0))
	offset := util.ClampOffset(util.ParseIntDefault(c.QueryParam("offset"), 0))

	total, items, err := search.Search(ctx, h.ES, mwauth.UserID(c), q, offset, limit)
	if err != nil {
		l.Error("task_search_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "tasks": items})
}
