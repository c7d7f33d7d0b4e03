package ai

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider serves chat, DALL-E image generation and embeddings.
type OpenAIProvider struct {
	client *openai.Client
}

func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(config)}
}

func (p *OpenAIProvider) Chat(ctx context.Context, model string, messages []Message) (*ChatResult, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: convertMessages(messages),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Err: errors.New("empty completion response")}
	}

	return &ChatResult{
		Content:    resp.Choices[0].Message.Content,
		TokensUsed: int32(resp.Usage.TotalTokens),
	}, nil
}

func (p *OpenAIProvider) GenerateImage(ctx context.Context, model string, messages []Message) (*Generation, error) {
	// DALL-E takes a single prompt; use the latest user turn.
	prompt := latestUserContent(messages)
	if prompt == "" {
		return nil, &ProviderError{Err: errors.New("no user prompt for image generation")}
	}

	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Model:          model,
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, wrapOpenAIError(err)
	}
	if len(resp.Data) == 0 {
		return nil, &ProviderError{Err: errors.New("empty image response")}
	}

	blob, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, &ProviderError{Err: errors.Wrap(err, "failed to decode image payload")}
	}

	return &Generation{
		MimeType: "image/png",
		Blob:     blob,
	}, nil
}

func (p *OpenAIProvider) GenerateVideo(ctx context.Context, model string, prompt string) (*Generation, error) {
	return nil, &ProviderError{Err: errors.New("video generation not supported by the OpenAI provider")}
}

// Embed produces the semantic-search vector for a text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.SmallEmbedding3,
	})
	if err != nil {
		return nil, wrapOpenAIError(err)
	}
	if len(resp.Data) == 0 {
		return nil, &ProviderError{Err: errors.New("empty embedding response")}
	}
	return resp.Data[0].Embedding, nil
}

func convertMessages(messages []Message) []openai.ChatCompletionMessage {
	converted := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		converted = append(converted, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return converted
}

func latestUserContent(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func wrapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &ProviderError{Err: err, Quota: true}
	}
	return &ProviderError{Err: err}
}
