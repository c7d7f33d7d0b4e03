package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/magicailabs/magicai/store"
)

// ListAgents returns the active agent catalog.
func (s *APIV1Service) ListAgents(c echo.Context) error {
	active := true
	agents, err := s.Store.ListAgents(c.Request().Context(), &store.FindAgent{IsActive: &active})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, convertAgents(agents))
}

// SearchAgents runs semantic search over the agent catalog.
func (s *APIV1Service) SearchAgents(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	agents, err := s.SearchService.Search(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, convertAgents(agents))
}
