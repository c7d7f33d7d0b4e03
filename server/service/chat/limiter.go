package chat

import (
	"context"

	"github.com/magicailabs/magicai/store"
)

// checkLimits enforces the usage gates in fixed order: the per-conversation
// subscription cap first, then the instance-wide cap on USER messages
// across all of the user's conversations. No writes happen on rejection.
func (s *Service) checkLimits(ctx context.Context, user *store.User, conversation *store.Conversation) error {
	conversationCap := user.MaxMessagesPerConversation()
	if conversation.MessageCount >= conversationCap {
		s.metrics.CountLimitRejection(string(LimitConversation))
		return &LimitError{Scope: LimitConversation, Limit: conversationCap}
	}

	globalCap := int32(s.profile.GlobalMessageLimit)
	sent, err := s.store.CountUserMessages(ctx, user.ID)
	if err != nil {
		return err
	}
	if sent >= globalCap {
		s.metrics.CountLimitRejection(string(LimitGlobal))
		return &LimitError{Scope: LimitGlobal, Limit: globalCap}
	}
	return nil
}
