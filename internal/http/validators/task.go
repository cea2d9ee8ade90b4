package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/dto"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if r.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}
	if r.EmployeeID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "employee_id is required")
	}
	return nil
}

// Update fields are optional, but title, description, status and
// employee_id may not be explicitly null: only estimate_until is
// clearable.
func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) error {
	if r.Title.Present && (!r.Title.Valid || r.Title.Value == "") {
		return echo.NewHTTPError(http.StatusBadRequest, "title must not be empty")
	}
	if r.Description.Present && (!r.Description.Valid || r.Description.Value == "") {
		return echo.NewHTTPError(http.StatusBadRequest, "description must not be empty")
	}
	if r.Status.Present && !r.Status.Valid {
		return echo.NewHTTPError(http.StatusBadRequest, "status must not be null")
	}
	if r.EmployeeID.Present && (!r.EmployeeID.Valid || r.EmployeeID.Value == 0) {
		return echo.NewHTTPError(http.StatusBadRequest, "employee_id must not be null")
	}
	return nil
}
