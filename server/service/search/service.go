// Package search implements semantic agent search over pgvector
// embeddings.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magicailabs/magicai/store"
)

const defaultLimit = 10

// Embedder produces a vector for a piece of text. Satisfied by the
// OpenAI provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Service struct {
	store    *store.Store
	embedder Embedder
}

// NewService creates the search service. A nil embedder disables
// semantic search and every query returns an empty result.
func NewService(st *store.Store, embedder Embedder) *Service {
	return &Service{store: st, embedder: embedder}
}

// Search returns active agents ranked by semantic similarity to the
// query. Queries are answered best-effort: when embeddings are
// unavailable the result is empty, never an error surfaced to the user.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*store.Agent, error) {
	query = strings.TrimSpace(query)
	if query == "" || s.embedder == nil {
		return []*store.Agent{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = defaultLimit
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		slog.Warn("failed to embed search query", "error", err)
		return []*store.Agent{}, nil
	}

	agents, err := s.store.SearchAgentsByEmbedding(ctx, embedding, limit)
	if err != nil {
		return nil, err
	}
	return agents, nil
}

// IndexAgents recomputes and stores the embedding of every active
// agent. Individual agent failures are logged and skipped.
func (s *Service) IndexAgents(ctx context.Context) error {
	if s.embedder == nil {
		return nil
	}
	active := true
	agents, err := s.store.ListAgents(ctx, &store.FindAgent{IsActive: &active})
	if err != nil {
		return err
	}
	for _, agent := range agents {
		embedding, err := s.embedder.Embed(ctx, agentDocument(agent))
		if err != nil {
			slog.Warn("failed to embed agent", "agent", agent.UID, "error", err)
			continue
		}
		if err := s.store.UpsertAgentEmbedding(ctx, agent.ID, embedding); err != nil {
			slog.Warn("failed to store agent embedding", "agent", agent.UID, "error", err)
		}
	}
	return nil
}

// agentDocument is the text indexed per agent: both language variants of
// the name and description.
func agentDocument(agent *store.Agent) string {
	return fmt.Sprintf("%s\n%s\n%s\n%s", agent.NameES, agent.NameEN, agent.DescriptionES, agent.DescriptionEN)
}
