package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/attachments"
	"task-manager.com/task-manager/internal/constants"
	"task-manager.com/task-manager/internal/dto"
	"task-manager.com/task-manager/internal/exceptions"
	"task-manager.com/task-manager/internal/http/validators"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) Create(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	status := constants.TaskStatus("")
	if req.Status != "" {
		parsed, err := constants.ParseTaskStatus(req.Status)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		status = parsed
	}

	descriptors, err := buildDescriptors(req.Attachments, false)
	if err != nil {
		return appError(err)
	}

	task, atts, err := h.taskService.Create(c.Request().Context(), services.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		EmployeeID:    req.EmployeeID,
		Status:        status,
		EstimateUntil: req.EstimateUntil,
		Attachments:   descriptors,
	})
	if err != nil {
		return appError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"data": dto.NewTaskResponse(task, presentable(atts))})
}

func (h *TaskHandler) Get(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, atts, err := h.taskService.Get(c.Request().Context(), id)
	if err != nil {
		return appError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": dto.NewTaskResponse(task, presentable(atts))})
}

func (h *TaskHandler) Update(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateUpdateTaskRequest(&req); err != nil {
		return err
	}

	in := services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		EstimateUntil: req.EstimateUntil,
		EmployeeID:    req.EmployeeID,
	}

	if req.Status.Present {
		parsed, err := constants.ParseTaskStatus(req.Status.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		in.Status = dto.Some(parsed)
	}

	if req.Attachments != nil {
		descriptors, err := buildDescriptors(*req.Attachments, true)
		if err != nil {
			return appError(err)
		}
		in.Attachments = descriptors
		in.ReplaceAttachments = true
	}

	task, atts, err := h.taskService.Update(c.Request().Context(), id, in)
	if err != nil {
		return appError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": dto.NewTaskResponse(task, presentable(atts))})
}

func (h *TaskHandler) List(c echo.Context) error {
	var req dto.FilterTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	filter, err := buildTaskFilter(req)
	if err != nil {
		return err
	}

	tasks, total, perPage, err := h.taskService.List(c.Request().Context(), filter)
	if err != nil {
		return appError(err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}

	return c.JSON(http.StatusOK, dto.NewTaskListResponse(tasks, total, page, perPage))
}

func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), id); err != nil {
		return appError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func taskID(c echo.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "task id must be a positive integer")
	}
	return uint(id), nil
}

func buildTaskFilter(req dto.FilterTaskRequest) (repository.TaskFilter, error) {
	filter := repository.TaskFilter{Page: req.Page}

	if req.Status != "" {
		status, err := constants.ParseTaskStatus(req.Status)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		filter.Status = &status
	}

	if req.EmployeeID != "" {
		id, err := strconv.ParseUint(req.EmployeeID, 10, 64)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid employee_id")
		}
		employeeID := uint(id)
		filter.EmployeeID = &employeeID
	}

	if req.EstimateAt != "" {
		t, err := time.Parse(time.RFC3339, req.EstimateAt)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid estimate_at")
		}
		filter.EstimateAt = &t
	}

	if req.EstimateUntil != "" {
		t, err := time.Parse(time.RFC3339, req.EstimateUntil)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid estimate_until")
		}
		filter.EstimateUntil = &t
	}

	return filter, nil
}

// buildDescriptors turns wire inputs into validated descriptors. A uuid
// entry combined with a file or url is ambiguous and rejected; keep
// entries are only legal on the update path.
func buildDescriptors(inputs []dto.AttachmentInput, allowKeep bool) ([]attachments.Descriptor, error) {
	descriptors := make([]attachments.Descriptor, 0, len(inputs))

	for _, in := range inputs {
		if in.UUID != "" {
			if !allowKeep || in.File != nil || in.URL != "" {
				return nil, exceptions.ErrInvalidAttachmentDescriptor
			}
			d, err := attachments.NewKeep(in.UUID, in.Order)
			if err != nil {
				return nil, err
			}
			descriptors = append(descriptors, d)
			continue
		}

		var payload *attachments.FilePayload
		if in.File != nil {
			payload = &attachments.FilePayload{Name: in.File.Name, Content: in.File.Content}
		}

		d, err := attachments.NewCreate(payload, in.URL, in.Order)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}

func presentable(atts []model.Attachment) []model.Attachment {
	if atts == nil {
		return []model.Attachment{}
	}
	return atts
}

func appError(err error) error {
	var appErr *exceptions.Exception
	if errors.As(err, &appErr) {
		return echo.NewHTTPError(appErr.StatusCode, appErr.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
