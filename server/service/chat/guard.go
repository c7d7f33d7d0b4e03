package chat

import (
	"context"
	"time"

	"github.com/magicailabs/magicai/store"
)

// duplicateWindow is how long an identical resubmission is rejected.
const duplicateWindow = 60 * time.Second

// checkDuplicate rejects a byte-identical resend of the conversation's
// latest USER message inside the window. Only the single latest message is
// inspected; an interleaved assistant reply clears the guard.
func (s *Service) checkDuplicate(ctx context.Context, conversationID int32, content string) error {
	latest, err := s.store.GetLatestMessage(ctx, conversationID)
	if err != nil {
		return err
	}
	if latest == nil || latest.Role != store.RoleUser {
		return nil
	}
	if latest.Content != content {
		return nil
	}
	age := s.now().Unix() - latest.CreatedTs
	if age < int64(duplicateWindow.Seconds()) {
		return &DuplicateError{}
	}
	return nil
}
