package chat

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"

	"github.com/magicailabs/magicai/ai"
	"github.com/magicailabs/magicai/store"
)

const (
	branchPlain = "plain"
	branchImage = "image"
	branchVideo = "video"
)

// thumbnailWidth is the pixel width of generated image previews.
const thumbnailWidth = 320

// mediaLinkPattern matches markdown media markers the model may echo back
// from history. Generated content must carry exactly one fresh marker, so
// echoed ones are stripped before the real one is appended.
var mediaLinkPattern = regexp.MustCompile(`!?\[[^\]]*\]\(/api/v1/media/[^)]*\)`)

// dispatch selects exactly one branch from the agent's capability set
// (image over video over plain chat) and completes the exchange.
func (s *Service) dispatch(ctx context.Context, conversation *store.Conversation, agent *store.Agent, userMessage *store.Message) (*store.Message, error) {
	provider, err := s.registry.Get(string(agent.Provider))
	if err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, conversation.ID)
	if err != nil {
		return nil, err
	}

	switch {
	case agent.Tools.Image:
		return s.dispatchImage(ctx, provider, conversation, agent, history, userMessage)
	case agent.Tools.Video:
		return s.dispatchVideo(ctx, provider, conversation, agent, userMessage)
	default:
		return s.dispatchPlain(ctx, provider, conversation, agent, history, userMessage)
	}
}

func (s *Service) dispatchPlain(ctx context.Context, provider ai.Provider, conversation *store.Conversation, agent *store.Agent, history []*store.Message, userMessage *store.Message) (*store.Message, error) {
	result, err := provider.Chat(ctx, agent.ModelName, toPlainMessages(agent, history))
	if err != nil {
		return nil, err
	}

	assistant := s.newAssistantMessage(conversation.ID, result.Content, result.TokensUsed)
	saved, err := s.store.FinishExchange(ctx, s.exchangeFor(conversation, userMessage, assistant, nil))
	if err != nil {
		return nil, err
	}
	s.metrics.CountMessage(branchPlain)
	return saved, nil
}

func (s *Service) dispatchImage(ctx context.Context, provider ai.Provider, conversation *store.Conversation, agent *store.Agent, history []*store.Message, userMessage *store.Message) (*store.Message, error) {
	messages, err := s.toMultimodalMessages(ctx, agent, history)
	if err != nil {
		return nil, err
	}

	gen, err := provider.GenerateImage(ctx, agent.ModelName, messages)
	if err != nil {
		return s.degradeExchange(ctx, branchImage, conversation, userMessage, err)
	}

	assistant := s.newAssistantMessage(conversation.ID, "", 0)
	content := stripMediaLinks(gen.Content)
	if content != "" {
		content += "\n\n"
	}
	content += "![imagen generada](/api/v1/media/" + assistant.UID + ")"
	assistant.Content = content

	media := &store.Media{
		UID:       uuid.New().String(),
		MimeType:  gen.MimeType,
		Blob:      gen.Blob,
		Thumbnail: s.makeThumbnail(ctx, gen.Blob),
		CreatedTs: s.now().Unix(),
	}

	saved, err := s.store.FinishExchange(ctx, s.exchangeFor(conversation, userMessage, assistant, media))
	if err != nil {
		return nil, err
	}
	s.metrics.CountMessage(branchImage)
	return saved, nil
}

func (s *Service) dispatchVideo(ctx context.Context, provider ai.Provider, conversation *store.Conversation, agent *store.Agent, userMessage *store.Message) (*store.Message, error) {
	// Video prompts are the latest user text only; history adds nothing to
	// a single-shot generation.
	gen, err := provider.GenerateVideo(ctx, agent.ModelName, userMessage.Content)
	if err != nil {
		return s.degradeExchange(ctx, branchVideo, conversation, userMessage, err)
	}

	assistant := s.newAssistantMessage(conversation.ID, "", 0)
	content := stripMediaLinks(gen.Content)
	if content != "" {
		content += "\n\n"
	}
	content += "[video generado](/api/v1/media/" + assistant.UID + ")"
	assistant.Content = content

	media := &store.Media{
		UID:       uuid.New().String(),
		MimeType:  gen.MimeType,
		Blob:      gen.Blob,
		CreatedTs: s.now().Unix(),
	}

	saved, err := s.store.FinishExchange(ctx, s.exchangeFor(conversation, userMessage, assistant, media))
	if err != nil {
		return nil, err
	}
	s.metrics.CountMessage(branchVideo)
	return saved, nil
}

// degradeExchange converts a tool-branch provider failure into a fixed
// apology reply. The exchange still completes; the user message and the
// apology are both persisted and the caller sees success.
func (s *Service) degradeExchange(ctx context.Context, branch string, conversation *store.Conversation, userMessage *store.Message, cause error) (*store.Message, error) {
	kind := "error"
	apology := apologyGeneration
	if ai.IsQuotaError(cause) {
		kind = "quota"
		apology = apologyQuota
	}
	slog.Warn("generation failed, degrading to apology",
		"branch", branch, "kind", kind, "conversation", conversation.UID, "error", cause)
	s.metrics.CountGenerationFailure(branch, kind)

	assistant := s.newAssistantMessage(conversation.ID, apology, 0)
	saved, err := s.store.FinishExchange(ctx, s.exchangeFor(conversation, userMessage, assistant, nil))
	if err != nil {
		return nil, err
	}
	s.metrics.CountMessage(branch)
	return saved, nil
}

func (s *Service) newAssistantMessage(conversationID int32, content string, tokens int32) *store.Message {
	return &store.Message{
		UID:            shortuuid.New(),
		ConversationID: conversationID,
		Role:           store.RoleAssistant,
		Content:        content,
		TokensUsed:     &tokens,
		CreatedTs:      s.now().Unix(),
	}
}

// exchangeFor assembles the atomic completion write: assistant message,
// optional media, counter +2, last-message timestamp, and the title on the
// conversation's first exchange.
func (s *Service) exchangeFor(conversation *store.Conversation, userMessage *store.Message, assistant *store.Message, media *store.Media) *store.CompleteExchange {
	complete := &store.CompleteExchange{
		Message:           assistant,
		Media:             media,
		ConversationID:    conversation.ID,
		MessageCountDelta: 2,
		LastMessageTs:     s.now().Unix(),
	}
	if conversation.MessageCount == 0 {
		title := conversationTitle(userMessage.Content)
		complete.Title = &title
	}
	return complete
}

// conversationTitle derives a title from the first user message.
func conversationTitle(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= 50 {
		return string(runes)
	}
	return string(runes[:50]) + "..."
}

func stripMediaLinks(content string) string {
	return strings.TrimSpace(mediaLinkPattern.ReplaceAllString(content, ""))
}

// makeThumbnail renders a small preview of a generated image. Returns nil
// when the blob cannot be decoded; the full image is still served.
// Concurrent generations are capped by the service semaphore since
// resizing large images is memory-heavy.
func (s *Service) makeThumbnail(ctx context.Context, blob []byte) []byte {
	if err := s.thumbnailSemaphore.Acquire(ctx, 1); err != nil {
		return nil
	}
	defer s.thumbnailSemaphore.Release(1)

	img, err := imaging.Decode(bytes.NewReader(blob))
	if err != nil {
		slog.Warn("failed to decode generated image for thumbnail", "error", err)
		return nil
	}
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		slog.Warn("failed to encode thumbnail", "error", err)
		return nil
	}
	return buf.Bytes()
}
