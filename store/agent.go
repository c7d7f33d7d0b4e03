package store

import (
	"context"
	"encoding/json"
)

// Provider identifies which LLM backend serves an agent.
type Provider string

const (
	ProviderOpenAI Provider = "OPENAI"
	ProviderGemini Provider = "GEMINI"
)

// ToolKind is one generation capability an agent may declare.
type ToolKind string

const (
	ToolGenerateImage ToolKind = "generateImage"
	ToolGenerateVideo ToolKind = "generateVideo"
)

// ToolSet is an agent's declared capability set, decoded once at load time
// from the stored JSON config rather than string-matched per call.
type ToolSet struct {
	Image bool
	Video bool
}

// None reports whether the agent is a plain chat agent.
func (t ToolSet) None() bool {
	return !t.Image && !t.Video
}

// toolsConfig mirrors the persisted JSON shape: {"tools": ["generateImage"]}.
type toolsConfig struct {
	Tools []ToolKind `json:"tools"`
}

// DecodeToolSet parses the raw tools config column. An empty or null blob
// decodes to the empty set.
func DecodeToolSet(raw []byte) (ToolSet, error) {
	var set ToolSet
	if len(raw) == 0 {
		return set, nil
	}
	var cfg toolsConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return set, err
	}
	for _, tool := range cfg.Tools {
		switch tool {
		case ToolGenerateImage:
			set.Image = true
		case ToolGenerateVideo:
			set.Video = true
		}
	}
	return set, nil
}

// EncodeToolSet serializes a capability set back to the stored JSON shape.
func EncodeToolSet(set ToolSet) ([]byte, error) {
	cfg := toolsConfig{Tools: []ToolKind{}}
	if set.Image {
		cfg.Tools = append(cfg.Tools, ToolGenerateImage)
	}
	if set.Video {
		cfg.Tools = append(cfg.Tools, ToolGenerateVideo)
	}
	return json.Marshal(cfg)
}

// Agent is a preconfigured LLM persona.
type Agent struct {
	UID           string
	NameES        string
	NameEN        string
	DescriptionES string
	DescriptionEN string
	SystemPrompt  string
	Provider      Provider
	ModelName     string
	Tools         ToolSet
	CreatedTs     int64
	ID            int32
	CategoryID    int32
	IsActive      bool
}

type FindAgent struct {
	ID         *int32
	UID        *string
	CategoryID *int32
	IsActive   *bool
}

func (s *Store) ListAgents(ctx context.Context, find *FindAgent) ([]*Agent, error) {
	return s.driver.ListAgents(ctx, find)
}

func (s *Store) GetAgent(ctx context.Context, find *FindAgent) (*Agent, error) {
	agents, err := s.driver.ListAgents(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, nil
	}
	return agents[0], nil
}

// UpsertAgentEmbedding stores the semantic-search vector for an agent.
func (s *Store) UpsertAgentEmbedding(ctx context.Context, agentID int32, embedding []float32) error {
	return s.driver.UpsertAgentEmbedding(ctx, agentID, embedding)
}

// SearchAgentsByEmbedding returns active agents ordered by cosine distance
// to the query vector.
func (s *Store) SearchAgentsByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*Agent, error) {
	return s.driver.SearchAgentsByEmbedding(ctx, embedding, limit)
}
