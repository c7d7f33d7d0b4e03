package ai

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Role mirrors the wire-level chat roles shared by both providers.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// InlineMedia is a binary attachment carried inline with a history message.
type InlineMedia struct {
	MimeType string
	Data     []byte
}

// Message is one chat turn handed to a provider.
type Message struct {
	Role    Role
	Content string
	// Media re-attaches previously generated media so multimodal models
	// see the full exchange. Nil for plain text turns.
	Media *InlineMedia
}

// ChatResult is a plain text completion.
type ChatResult struct {
	Content    string
	TokensUsed int32
}

// Generation is a completed media generation: the model's text plus the
// produced binary.
type Generation struct {
	Content  string
	MimeType string
	Blob     []byte
}

// ProviderError wraps an upstream model failure. Quota marks rate or
// quota exhaustion so callers can phrase the degradation differently.
type ProviderError struct {
	Err   error
	Quota bool
}

func (e *ProviderError) Error() string {
	if e.Quota {
		return fmt.Sprintf("provider quota exhausted: %v", e.Err)
	}
	return fmt.Sprintf("provider error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsQuotaError reports whether err is a quota-flagged provider failure.
func IsQuotaError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Quota
}

// Provider is one LLM backend. Implementations translate the neutral
// message shape to their own wire format.
type Provider interface {
	// Chat runs a plain completion over the given history.
	Chat(ctx context.Context, model string, messages []Message) (*ChatResult, error)

	// GenerateImage produces an image from the full multimodal history.
	GenerateImage(ctx context.Context, model string, messages []Message) (*Generation, error)

	// GenerateVideo produces a video from a single prompt. Blocks through
	// the submit-and-poll cycle; respects ctx cancellation between polls.
	GenerateVideo(ctx context.Context, model string, prompt string) (*Generation, error)
}

// Registry routes an agent's configured provider name to a backend.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

func (r *Registry) Register(name string, provider Provider) {
	r.providers[name] = provider
}

// Get returns the backend for a provider name, or an error when the
// backend is not configured on this instance.
func (r *Registry) Get(name string) (Provider, error) {
	provider, ok := r.providers[name]
	if !ok {
		return nil, errors.Errorf("ai provider %q not configured", name)
	}
	return provider, nil
}
