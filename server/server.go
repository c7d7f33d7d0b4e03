// Package server assembles the HTTP surface, the AI providers and the
// background reminder engine into one runnable unit.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/ai"
	"github.com/magicailabs/magicai/internal/profile"
	"github.com/magicailabs/magicai/plugin/email"
	"github.com/magicailabs/magicai/plugin/metrics"
	apiv1 "github.com/magicailabs/magicai/server/router/api/v1"
	"github.com/magicailabs/magicai/server/service/board"
	"github.com/magicailabs/magicai/server/service/chat"
	"github.com/magicailabs/magicai/server/service/remind"
	"github.com/magicailabs/magicai/server/service/search"
	"github.com/magicailabs/magicai/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer    *echo.Echo
	remindEngine  *remind.Engine
	searchService *search.Service
}

func NewServer(ctx context.Context, p *profile.Profile, st *store.Store) (*Server, error) {
	if p.JWTSecret == "" {
		return nil, errors.New("jwt secret required (MAGICAI_JWT_SECRET)")
	}

	echoServer := echo.New()
	echoServer.Debug = p.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.CORS())

	s := &Server{
		Profile:    p,
		Store:      st,
		echoServer: echoServer,
	}

	registry, openaiProvider, err := buildProviders(ctx, p)
	if err != nil {
		return nil, err
	}

	exporter := metrics.NewExporter()

	var searchEmbedder search.Embedder
	if openaiProvider != nil {
		searchEmbedder = openaiProvider
	}

	chatService := chat.NewService(st, registry, p, exporter)
	boardService := board.NewService(st)
	searchService := search.NewService(st, searchEmbedder)
	s.searchService = searchService

	sender, err := buildSender(p)
	if err != nil {
		return nil, err
	}
	s.remindEngine = remind.NewEngine(st, sender, exporter, remind.SystemClock())

	apiV1Service := apiv1.NewAPIV1Service(p.JWTSecret, p, st, chatService, boardService, s.remindEngine, searchService)
	apiV1Service.RegisterRoutes(echoServer)

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	echoServer.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	return s, nil
}

// buildProviders wires every configured LLM backend into the registry.
// Missing keys disable the matching provider, not the server.
func buildProviders(ctx context.Context, p *profile.Profile) (*ai.Registry, *ai.OpenAIProvider, error) {
	registry := ai.NewRegistry()

	var openaiProvider *ai.OpenAIProvider
	if p.OpenAIAPIKey != "" {
		openaiProvider = ai.NewOpenAIProvider(p.OpenAIAPIKey, p.OpenAIBaseURL)
		registry.Register(string(store.ProviderOpenAI), openaiProvider)
		slog.Info("openai provider enabled")
	}

	if p.GeminiAPIKey != "" {
		apiKey := p.GeminiAPIKey
		if p.VeoAPIKey != "" {
			apiKey = p.VeoAPIKey
		}
		geminiProvider, err := ai.NewGeminiProvider(ctx, apiKey,
			time.Duration(p.VideoPollIntervalSeconds)*time.Second, p.VideoPollMaxAttempts)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create gemini provider")
		}
		registry.Register(string(store.ProviderGemini), geminiProvider)
		slog.Info("gemini provider enabled")
	}

	if !p.AIEnabled {
		slog.Warn("no LLM API keys configured, chat features disabled")
	}
	return registry, openaiProvider, nil
}

// buildSender returns the SMTP sender, or a logging no-op when SMTP is
// not configured so reminder sends fail soft and stay PENDING.
func buildSender(p *profile.Profile) (email.Sender, error) {
	if p.SMTPHost == "" {
		slog.Warn("SMTP not configured, reminder emails disabled")
		return email.NopSender{}, nil
	}
	return email.NewSMTPSender(&email.Config{
		SMTPHost:     p.SMTPHost,
		SMTPPort:     p.SMTPPort,
		SMTPUsername: p.SMTPUsername,
		SMTPPassword: p.SMTPPassword,
		FromEmail:    p.SMTPFrom,
		FromName:     p.SMTPFromName,
	})
}

// Start begins serving HTTP and schedules the reminder scan. It returns
// once the listener is up; fatal listen errors are logged from the
// serving goroutine.
func (s *Server) Start(ctx context.Context) error {
	if err := s.remindEngine.Start(s.Profile.ReminderCron); err != nil {
		return err
	}

	// Refresh agent embeddings in the background; search serves empty
	// results until the index is warm.
	go func() {
		if err := s.searchService.IndexAgents(ctx); err != nil {
			slog.Warn("failed to index agents for search", "error", err)
		}
	}()

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s.remindEngine.Stop()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shutdown complete")
}
