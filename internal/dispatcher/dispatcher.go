// Package dispatcher sends one push message for every notification trigger
// document written to the notifications table.
package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/model"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/push"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/store"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Values the Flutter client relies on.
const (
	DefaultTitle     = "STEM App Notification"
	DefaultBody      = "You have a new update."
	DefaultRoute     = "/events"
	ClickAction      = "FLUTTER_NOTIFICATION_CLICK"
	AndroidChannelID = "high_importance_channel"
)

var (
	ErrRecipientNotFound = errors.New("recipient user not found")
	ErrMissingToken      = errors.New("recipient has no fcm token")
)

// UserReader resolves recipients.
type UserReader interface {
	GetUser(ctx context.Context, id string) (model.User, error)
}

type Dispatcher struct {
	users   UserReader
	gateway push.Gateway
	logger  *zap.Logger
}

func New(users UserReader, gateway push.Gateway, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		users:   users,
		gateway: gateway,
		logger:  logger.Named("dispatcher"),
	}
}

// Dispatch sends the push message for trigger document n. It returns the FCM
// message id on success. Nothing is retried.
func (d *Dispatcher) Dispatch(ctx context.Context, n model.Notification) (string, error) {
	if err := model.Validate(n); err != nil {
		return "", err
	}
	log := d.logger.With(zap.String("notification_id", n.ID), zap.String("user_id", n.UserID))

	user, err := d.users.GetUser(ctx, n.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrRecipientNotFound, n.UserID)
		}
		return "", fmt.Errorf("look up recipient %s: %w", n.UserID, err)
	}
	if user.FCMToken == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingToken, n.UserID)
	}

	msg := BuildMessage(n, user.FCMToken)
	log.Debug("sending push message", zap.String("token_prefix", push.TokenPrefix(user.FCMToken)))

	id, err := d.gateway.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("send push message: %w", err)
	}
	return id, nil
}

// BuildMessage builds the FCM message for n addressed to token. Empty fields
// of n fall back to the defaults.
func BuildMessage(n model.Notification, token string) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: orDefault(n.Title, DefaultTitle),
			Body:  orDefault(n.Body, DefaultBody),
		},
		Data: map[string]string{
			"click_action": ClickAction,
			"route":        orDefault(n.Route, DefaultRoute),
		},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				ChannelID: AndroidChannelID,
			},
		},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
