package store

import "context"

// Language is the user's preferred interface and email language.
type Language string

const (
	LanguageES Language = "ES"
	LanguageEN Language = "EN"
)

// SubscriptionType caps what a user may create. Users without a
// subscription type fall back to the documented defaults.
type SubscriptionType struct {
	Name                       string
	ID                         int32
	MaxConversationsPerAgent   int32
	MaxMessagesPerConversation int32
}

const (
	// DefaultMaxConversationsPerAgent applies when the user has no
	// subscription type.
	DefaultMaxConversationsPerAgent = 5
	// DefaultMaxMessagesPerConversation applies when the user has no
	// subscription type.
	DefaultMaxMessagesPerConversation = 100
)

type User struct {
	Subscription *SubscriptionType // nil when the user has no plan
	UID          string
	Email        string
	// NotificationEmail overrides Email for outbound notifications when set.
	NotificationEmail string
	FullName          string
	Language          Language
	CreatedTs         int64
	ID                int32
}

// NotifyAddress returns the address reminder emails go to.
func (u *User) NotifyAddress() string {
	if u.NotificationEmail != "" {
		return u.NotificationEmail
	}
	return u.Email
}

// MaxConversationsPerAgent resolves the per-agent conversation quota.
func (u *User) MaxConversationsPerAgent() int32 {
	if u.Subscription != nil && u.Subscription.MaxConversationsPerAgent > 0 {
		return u.Subscription.MaxConversationsPerAgent
	}
	return DefaultMaxConversationsPerAgent
}

// MaxMessagesPerConversation resolves the per-conversation message cap.
func (u *User) MaxMessagesPerConversation() int32 {
	if u.Subscription != nil && u.Subscription.MaxMessagesPerConversation > 0 {
		return u.Subscription.MaxMessagesPerConversation
	}
	return DefaultMaxMessagesPerConversation
}

type FindUser struct {
	ID    *int32
	UID   *string
	Email *string
}

func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	return s.driver.GetUser(ctx, find)
}
