package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type createConversationRequest struct {
	AgentUID      string `json:"agentUid"`
	Title         string `json:"title"`
	ConfirmDelete bool   `json:"confirmDelete"`
}

type createConversationResponse struct {
	Conversation *conversationResponse `json:"conversation,omitempty"`

	RequiresConfirmation bool                  `json:"requiresConfirmation,omitempty"`
	Warning              string                `json:"warning,omitempty"`
	OldestConversation   *conversationResponse `json:"oldestConversation,omitempty"`
}

// CreateConversation opens a conversation, or returns the quota
// confirmation payload when the per-agent cap is reached.
func (s *APIV1Service) CreateConversation(c echo.Context) error {
	request := &createConversationRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if request.AgentUID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "agentUid is required")
	}

	result, err := s.ChatService.CreateConversation(c.Request().Context(), userID(c), request.AgentUID, request.Title, request.ConfirmDelete)
	if err != nil {
		return serviceError(c, err)
	}

	if result.RequiresConfirmation {
		response := &createConversationResponse{
			RequiresConfirmation: true,
			Warning:              result.Warning,
		}
		if result.OldestConversation != nil {
			response.OldestConversation = convertConversation(result.OldestConversation)
		}
		return c.JSON(http.StatusConflict, response)
	}
	return c.JSON(http.StatusCreated, &createConversationResponse{
		Conversation: convertConversation(result.Conversation),
	})
}

// ListConversations returns the caller's conversations, optionally
// filtered with ?agent=<uid>.
func (s *APIV1Service) ListConversations(c echo.Context) error {
	conversations, err := s.ChatService.ListConversations(c.Request().Context(), userID(c), c.QueryParam("agent"))
	if err != nil {
		return serviceError(c, err)
	}
	converted := make([]*conversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		converted = append(converted, convertConversation(conversation))
	}
	return c.JSON(http.StatusOK, converted)
}

func (s *APIV1Service) GetConversation(c echo.Context) error {
	conversation, err := s.ChatService.GetConversation(c.Request().Context(), userID(c), c.Param("uid"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, convertConversation(conversation))
}

func (s *APIV1Service) DeleteConversation(c echo.Context) error {
	if err := s.ChatService.DeleteConversation(c.Request().Context(), userID(c), c.Param("uid")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
