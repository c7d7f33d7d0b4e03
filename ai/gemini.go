package ai

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// VideoJobState tracks a long-running video generation through its
// lifecycle. The handle moves Submitted -> Polling and settles in exactly
// one of Succeeded, Failed or TimedOut.
type VideoJobState string

const (
	VideoSubmitted VideoJobState = "SUBMITTED"
	VideoPolling   VideoJobState = "POLLING"
	VideoSucceeded VideoJobState = "SUCCEEDED"
	VideoFailed    VideoJobState = "FAILED"
	VideoTimedOut  VideoJobState = "TIMED_OUT"
)

// GeminiProvider serves chat, multimodal image generation and Veo video
// generation through the Gemini API.
type GeminiProvider struct {
	client *genai.Client

	pollInterval time.Duration
	maxAttempts  int

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

func NewGeminiProvider(ctx context.Context, apiKey string, pollInterval time.Duration, maxAttempts int) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}
	return &GeminiProvider{
		client:       client,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		sleep:        time.Sleep,
	}, nil
}

func (p *GeminiProvider) Chat(ctx context.Context, model string, messages []Message) (*ChatResult, error) {
	contents, config := convertContents(messages)

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapGeminiError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &ProviderError{Err: errors.New("empty completion response")}
	}

	var tokens int32
	if resp.UsageMetadata != nil {
		tokens = resp.UsageMetadata.TotalTokenCount
	}
	return &ChatResult{
		Content:    collectText(resp.Candidates[0].Content),
		TokensUsed: tokens,
	}, nil
}

func (p *GeminiProvider) GenerateImage(ctx context.Context, model string, messages []Message) (*Generation, error) {
	contents, config := convertContents(messages)
	config.ResponseModalities = []string{"TEXT", "IMAGE"}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapGeminiError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &ProviderError{Err: errors.New("empty generation response")}
	}

	gen := &Generation{}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			gen.Content += part.Text
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			gen.MimeType = part.InlineData.MIMEType
			gen.Blob = part.InlineData.Data
		}
	}
	if gen.Blob == nil {
		return nil, &ProviderError{Err: errors.New("model returned no image data")}
	}
	return gen, nil
}

// GenerateVideo submits a Veo job and polls it on a fixed interval until
// it settles or the attempt budget runs out.
func (p *GeminiProvider) GenerateVideo(ctx context.Context, model string, prompt string) (*Generation, error) {
	state := VideoSubmitted
	op, err := p.client.Models.GenerateVideos(ctx, model, prompt, nil, nil)
	if err != nil {
		slog.Error("video job failed to submit", "model", model, "error", err)
		return nil, wrapGeminiError(err)
	}
	slog.Info("video job submitted", "model", model, "state", state)

	state = VideoPolling
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if op.Done {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		p.sleep(p.pollInterval)

		op, err = p.client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			state = VideoFailed
			slog.Error("video job poll failed", "state", state, "attempt", attempt+1, "error", err)
			return nil, wrapGeminiError(err)
		}
	}

	if !op.Done {
		state = VideoTimedOut
		slog.Warn("video job exhausted poll budget", "state", state, "attempts", p.maxAttempts)
		return nil, &ProviderError{Err: errors.Errorf("video generation timed out after %d polls", p.maxAttempts)}
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		state = VideoFailed
		slog.Error("video job settled without output", "state", state)
		return nil, &ProviderError{Err: errors.New("video generation returned no output")}
	}

	video := op.Response.GeneratedVideos[0]
	blob, err := p.client.Files.Download(ctx, video.Video, nil)
	if err != nil {
		state = VideoFailed
		slog.Error("video download failed", "state", state, "error", err)
		return nil, wrapGeminiError(err)
	}
	if len(blob) == 0 {
		blob = video.Video.VideoBytes
	}

	state = VideoSucceeded
	slog.Info("video job succeeded", "state", state, "bytes", len(blob))

	mimeType := video.Video.MIMEType
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	return &Generation{MimeType: mimeType, Blob: blob}, nil
}

func convertContents(messages []Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			config.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
			continue
		}
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		parts := []*genai.Part{genai.NewPartFromText(m.Content)}
		if m.Media != nil {
			parts = append(parts, genai.NewPartFromBytes(m.Media.Data, m.Media.MimeType))
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}
	return contents, config
}

func collectText(content *genai.Content) string {
	var b strings.Builder
	for _, part := range content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

func wrapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return &ProviderError{Err: err, Quota: true}
	}
	return &ProviderError{Err: err}
}
