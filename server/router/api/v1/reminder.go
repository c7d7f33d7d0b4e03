package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type createReminderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TriggerTs   int64  `json:"triggerTs"`
}

func (s *APIV1Service) CreateReminder(c echo.Context) error {
	request := &createReminderRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if request.Title == "" || request.TriggerTs <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "title and triggerTs are required")
	}
	reminder, err := s.RemindEngine.CreateReminder(c.Request().Context(), userID(c), request.Title, request.Description, request.TriggerTs)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, convertReminder(reminder))
}

func (s *APIV1Service) ListReminders(c echo.Context) error {
	reminders, err := s.RemindEngine.ListReminders(c.Request().Context(), userID(c))
	if err != nil {
		return serviceError(c, err)
	}
	converted := make([]*reminderResponse, 0, len(reminders))
	for _, reminder := range reminders {
		converted = append(converted, convertReminder(reminder))
	}
	return c.JSON(http.StatusOK, converted)
}

func (s *APIV1Service) DeleteReminder(c echo.Context) error {
	if err := s.RemindEngine.DeleteReminder(c.Request().Context(), userID(c), c.Param("uid")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
