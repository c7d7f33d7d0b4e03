package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type sendMessageRequest struct {
	Content string `json:"content"`
}

type sendMessageResponse struct {
	UserMessage      *messageResponse `json:"userMessage"`
	AssistantMessage *messageResponse `json:"assistantMessage,omitempty"`
}

// SendMessage runs one full exchange on the conversation.
func (s *APIV1Service) SendMessage(c echo.Context) error {
	request := &sendMessageRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if request.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	userMessage, assistantMessage, err := s.ChatService.SendMessage(c.Request().Context(), userID(c), c.Param("uid"), request.Content)
	if err != nil {
		// A plain-chat provider failure still persisted the user message.
		if userMessage != nil {
			return c.JSON(http.StatusBadGateway, &sendMessageResponse{UserMessage: convertMessage(userMessage)})
		}
		return serviceError(c, err)
	}

	response := &sendMessageResponse{UserMessage: convertMessage(userMessage)}
	if assistantMessage != nil {
		response.AssistantMessage = convertMessage(assistantMessage)
	}
	return c.JSON(http.StatusOK, response)
}

// ListMessages pages through the conversation history in chronological
// order (?limit=, ?offset=).
func (s *APIV1Service) ListMessages(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	messages, err := s.ChatService.ListMessages(c.Request().Context(), userID(c), c.Param("uid"), limit, offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, convertMessages(messages))
}

// GetMedia streams a generated blob by message UID; ?thumbnail=1 serves
// the stored thumbnail when one exists.
func (s *APIV1Service) GetMedia(c echo.Context) error {
	media, err := s.ChatService.GetMedia(c.Request().Context(), userID(c), c.Param("uid"))
	if err != nil {
		return serviceError(c, err)
	}

	if c.QueryParam("thumbnail") == "1" && len(media.Thumbnail) > 0 {
		return c.Blob(http.StatusOK, "image/jpeg", media.Thumbnail)
	}
	return c.Blob(http.StatusOK, media.MimeType, media.Blob)
}
