package chat

import (
	"context"
	"sort"

	"github.com/magicailabs/magicai/ai"
	"github.com/magicailabs/magicai/store"
)

// historyWindow caps how many persisted messages feed a provider call.
const historyWindow = 20

// languageInstruction keeps the model answering in the user's language
// regardless of the system prompt's language.
const languageInstruction = "Responde siempre en el mismo idioma en el que escribe el usuario."

// loadHistory returns the conversation's most recent messages in
// chronological order, the just-persisted user message included.
func (s *Service) loadHistory(ctx context.Context, conversationID int32) ([]*store.Message, error) {
	limit := historyWindow
	messages, err := s.store.ListMessages(ctx, &store.FindMessage{
		ConversationID: &conversationID,
		OrderDesc:      true,
		Limit:          &limit,
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedTs != messages[j].CreatedTs {
			return messages[i].CreatedTs < messages[j].CreatedTs
		}
		return messages[i].ID < messages[j].ID
	})
	return messages, nil
}

// toPlainMessages builds the text-only provider history: system prompt,
// language instruction, then the conversation turns.
func toPlainMessages(agent *store.Agent, history []*store.Message) []ai.Message {
	converted := make([]ai.Message, 0, len(history)+1)
	converted = append(converted, ai.Message{
		Role:    ai.RoleSystem,
		Content: agent.SystemPrompt + "\n\n" + languageInstruction,
	})
	for _, m := range history {
		converted = append(converted, ai.Message{
			Role:    toProviderRole(m.Role),
			Content: m.Content,
		})
	}
	return converted
}

// toMultimodalMessages builds the image-branch history with previously
// generated media re-attached inline so the model sees the full exchange.
func (s *Service) toMultimodalMessages(ctx context.Context, agent *store.Agent, history []*store.Message) ([]ai.Message, error) {
	converted := make([]ai.Message, 0, len(history)+1)
	converted = append(converted, ai.Message{
		Role:    ai.RoleSystem,
		Content: agent.SystemPrompt + "\n\n" + languageInstruction,
	})
	for _, m := range history {
		msg := ai.Message{
			Role:    toProviderRole(m.Role),
			Content: m.Content,
		}
		if m.Media != nil {
			media, err := s.store.GetMedia(ctx, &store.FindMedia{MessageID: &m.ID})
			if err != nil {
				return nil, err
			}
			if media != nil {
				msg.Media = &ai.InlineMedia{MimeType: media.MimeType, Data: media.Blob}
			}
		}
		converted = append(converted, msg)
	}
	return converted, nil
}

func toProviderRole(role store.Role) ai.Role {
	if role == store.RoleAssistant {
		return ai.RoleAssistant
	}
	return ai.RoleUser
}
