package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/magicailabs/magicai/server/service/board"
	"github.com/magicailabs/magicai/store"
)

type nameRequest struct {
	Name string `json:"name"`
}

func (s *APIV1Service) CreateProject(c echo.Context) error {
	request := &nameRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	project, err := s.BoardService.CreateProject(c.Request().Context(), userID(c), request.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, convertProject(project))
}

func (s *APIV1Service) ListProjects(c echo.Context) error {
	projects, err := s.BoardService.ListProjects(c.Request().Context(), userID(c))
	if err != nil {
		return serviceError(c, err)
	}
	converted := make([]*projectResponse, 0, len(projects))
	for _, project := range projects {
		converted = append(converted, convertProject(project))
	}
	return c.JSON(http.StatusOK, converted)
}

func (s *APIV1Service) GetProject(c echo.Context) error {
	project, err := s.BoardService.GetProject(c.Request().Context(), userID(c), c.Param("uid"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, convertProject(project))
}

func (s *APIV1Service) DeleteProject(c echo.Context) error {
	if err := s.BoardService.DeleteProject(c.Request().Context(), userID(c), c.Param("uid")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) CreateSection(c echo.Context) error {
	request := &nameRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	section, err := s.BoardService.CreateSection(c.Request().Context(), userID(c), c.Param("uid"), request.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, convertSection(section))
}

func (s *APIV1Service) ListSections(c echo.Context) error {
	sections, err := s.BoardService.ListSections(c.Request().Context(), userID(c), c.Param("uid"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, convertSections(sections))
}

func (s *APIV1Service) RenameSection(c echo.Context) error {
	request := &nameRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	section, err := s.BoardService.RenameSection(c.Request().Context(), userID(c), c.Param("uid"), request.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, convertSection(section))
}

func (s *APIV1Service) DeleteSection(c echo.Context) error {
	if err := s.BoardService.DeleteSection(c.Request().Context(), userID(c), c.Param("uid")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type moveRequest struct {
	Position int32 `json:"position"`
	// SectionUID is the target section for card moves; a same-section move
	// names the card's current section. Unused for section moves.
	SectionUID string `json:"sectionUid"`
}

func (s *APIV1Service) MoveSection(c echo.Context) error {
	request := &moveRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := s.BoardService.MoveSection(c.Request().Context(), userID(c), c.Param("uid"), request.Position); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type reorderRequest struct {
	UIDs []string `json:"uids"`
}

// ReorderSections applies a full client-supplied permutation of the
// project's sections.
func (s *APIV1Service) ReorderSections(c echo.Context) error {
	request := &reorderRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := s.BoardService.ReorderSections(c.Request().Context(), userID(c), c.Param("uid"), request.UIDs); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type createCardRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Priority           string `json:"priority"`
	DueTs              int64  `json:"dueTs"`
	ReminderEnabled    bool   `json:"reminderEnabled"`
	ReminderDaysBefore int32  `json:"reminderDaysBefore"`
}

func (s *APIV1Service) CreateCard(c echo.Context) error {
	request := &createCardRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	card, err := s.BoardService.CreateCard(c.Request().Context(), userID(c), c.Param("uid"), &board.CreateCard{
		Title:              request.Title,
		Description:        request.Description,
		Priority:           store.Priority(request.Priority),
		DueTs:              request.DueTs,
		ReminderEnabled:    request.ReminderEnabled,
		ReminderDaysBefore: request.ReminderDaysBefore,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, convertCard(card))
}

func (s *APIV1Service) ListCards(c echo.Context) error {
	cards, err := s.BoardService.ListCards(c.Request().Context(), userID(c), c.Param("uid"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, convertCards(cards))
}

type updateCardRequest struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	Priority           *string `json:"priority"`
	DueTs              *int64  `json:"dueTs"`
	ReminderEnabled    *bool   `json:"reminderEnabled"`
	ReminderDaysBefore *int32  `json:"reminderDaysBefore"`
}

func (s *APIV1Service) UpdateCard(c echo.Context) error {
	request := &updateCardRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	update := &store.UpdateCard{
		Title:              request.Title,
		Description:        request.Description,
		DueTs:              request.DueTs,
		ReminderEnabled:    request.ReminderEnabled,
		ReminderDaysBefore: request.ReminderDaysBefore,
	}
	if request.Priority != nil {
		priority := store.Priority(*request.Priority)
		update.Priority = &priority
	}
	card, err := s.BoardService.UpdateCard(c.Request().Context(), userID(c), c.Param("uid"), update)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, convertCard(card))
}

func (s *APIV1Service) DeleteCard(c echo.Context) error {
	if err := s.BoardService.DeleteCard(c.Request().Context(), userID(c), c.Param("uid")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) MoveCard(c echo.Context) error {
	request := &moveRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if request.SectionUID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "sectionUid is required")
	}
	if err := s.BoardService.MoveCard(c.Request().Context(), userID(c), c.Param("uid"), request.SectionUID, request.Position); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReorderCards applies a full client-supplied permutation of the
// section's cards.
func (s *APIV1Service) ReorderCards(c echo.Context) error {
	request := &reorderRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := s.BoardService.ReorderCards(c.Request().Context(), userID(c), c.Param("uid"), request.UIDs); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
