package notifier

import (
	"context"
	"errors"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/model"
)

// RecipientSelector decides which users are told about a new event.
type RecipientSelector interface {
	Select(ctx context.Context, eventID string, ev model.Event) ([]string, error)
}

// FixedSelector sends every event to a single configured user.
type FixedSelector struct {
	UserID string
}

func (s FixedSelector) Select(context.Context, string, model.Event) ([]string, error) {
	if s.UserID == "" {
		return nil, errors.New("fixed selector has no user id")
	}
	return []string{s.UserID}, nil
}

// SubscriberLister lists users that can receive push messages.
type SubscriberLister interface {
	SubscribedUserIDs(ctx context.Context) ([]string, error)
}

// SubscribedSelector sends every event to all users with a device token.
type SubscribedSelector struct {
	users SubscriberLister
}

func NewSubscribedSelector(users SubscriberLister) *SubscribedSelector {
	return &SubscribedSelector{users: users}
}

func (s *SubscribedSelector) Select(ctx context.Context, _ string, _ model.Event) ([]string, error) {
	return s.users.SubscribedUserIDs(ctx)
}
