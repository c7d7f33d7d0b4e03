// Package v1 exposes the REST API. Handlers are thin: they decode the
// request, call one service method and translate errors to HTTP codes.
package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/magicailabs/magicai/internal/profile"
	"github.com/magicailabs/magicai/server/auth"
	"github.com/magicailabs/magicai/server/service/board"
	"github.com/magicailabs/magicai/server/service/chat"
	"github.com/magicailabs/magicai/server/service/remind"
	"github.com/magicailabs/magicai/server/service/search"
	"github.com/magicailabs/magicai/store"
)

const userIDContextKey = "user-id"

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store

	ChatService   *chat.Service
	BoardService  *board.Service
	RemindEngine  *remind.Engine
	SearchService *search.Service

	secret string
}

func NewAPIV1Service(secret string, p *profile.Profile, st *store.Store, chatService *chat.Service, boardService *board.Service, remindEngine *remind.Engine, searchService *search.Service) *APIV1Service {
	return &APIV1Service{
		Profile:       p,
		Store:         st,
		ChatService:   chatService,
		BoardService:  boardService,
		RemindEngine:  remindEngine,
		SearchService: searchService,
		secret:        secret,
	}
}

// RegisterRoutes mounts every handler under /api/v1 behind the bearer
// middleware.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	apiV1 := echoServer.Group("/api/v1", s.authMiddleware)

	// Agents
	apiV1.GET("/agents", s.ListAgents)
	apiV1.GET("/agents/search", s.SearchAgents)

	// Conversations and messages
	apiV1.POST("/conversations", s.CreateConversation)
	apiV1.GET("/conversations", s.ListConversations)
	apiV1.GET("/conversations/:uid", s.GetConversation)
	apiV1.DELETE("/conversations/:uid", s.DeleteConversation)
	apiV1.GET("/conversations/:uid/messages", s.ListMessages)
	apiV1.POST("/conversations/:uid/messages", s.SendMessage)
	apiV1.GET("/media/:uid", s.GetMedia)

	// Kanban boards
	apiV1.POST("/projects", s.CreateProject)
	apiV1.GET("/projects", s.ListProjects)
	apiV1.GET("/projects/:uid", s.GetProject)
	apiV1.DELETE("/projects/:uid", s.DeleteProject)
	apiV1.POST("/projects/:uid/sections", s.CreateSection)
	apiV1.GET("/projects/:uid/sections", s.ListSections)
	apiV1.POST("/projects/:uid/sections/reorder", s.ReorderSections)
	apiV1.PATCH("/sections/:uid", s.RenameSection)
	apiV1.DELETE("/sections/:uid", s.DeleteSection)
	apiV1.POST("/sections/:uid/move", s.MoveSection)
	apiV1.POST("/sections/:uid/cards", s.CreateCard)
	apiV1.GET("/sections/:uid/cards", s.ListCards)
	apiV1.POST("/sections/:uid/cards/reorder", s.ReorderCards)
	apiV1.PATCH("/cards/:uid", s.UpdateCard)
	apiV1.DELETE("/cards/:uid", s.DeleteCard)
	apiV1.POST("/cards/:uid/move", s.MoveCard)

	// Manual reminders
	apiV1.POST("/reminders", s.CreateReminder)
	apiV1.GET("/reminders", s.ListReminders)
	apiV1.DELETE("/reminders/:uid", s.DeleteReminder)
}

// authMiddleware resolves the bearer token into a user ID for every API
// route; there are no public endpoints under /api/v1.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		userID, err := auth.VerifyAccessToken(token, s.secret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

func userID(c echo.Context) int32 {
	id, _ := c.Get(userIDContextKey).(int32)
	return id
}
