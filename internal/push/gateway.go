// Package push sends messages through Firebase Cloud Messaging.
package push

import (
	"context"
	"fmt"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/config"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Gateway sends a single push message and returns the id FCM assigned to it.
// *messaging.Client satisfies it.
type Gateway interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

var _ Gateway = (*messaging.Client)(nil)

// NewGateway builds an FCM client from the configured service account. When
// no credentials are configured a logging stub is returned instead, which is
// what local runs against DynamoDB Local use.
func NewGateway(ctx context.Context, cfg config.FCMConfig, logger *zap.Logger) (Gateway, error) {
	if !cfg.Configured() {
		logger.Warn("Firebase credentials not configured, push messages will only be logged")
		return NewStubGateway(logger), nil
	}

	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	} else {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging client: %w", err)
	}

	logger.Info("FCM gateway initialized",
		zap.String("project_id", cfg.ProjectID),
		zap.Bool("inline_credentials", cfg.CredentialsJSON != ""),
	)
	return client, nil
}

type stubGateway struct {
	logger *zap.Logger
}

// NewStubGateway returns a Gateway that logs messages instead of sending them.
func NewStubGateway(logger *zap.Logger) Gateway {
	return &stubGateway{logger: logger.Named("stub_gateway")}
}

func (g *stubGateway) Send(_ context.Context, message *messaging.Message) (string, error) {
	fields := []zap.Field{zap.String("token_prefix", TokenPrefix(message.Token))}
	if message.Notification != nil {
		fields = append(fields,
			zap.String("title", message.Notification.Title),
			zap.String("body", message.Notification.Body),
		)
	}
	fields = append(fields, zap.Any("data", message.Data))
	g.logger.Info("STUB: push message not sent", fields...)
	return "stub/" + TokenPrefix(message.Token), nil
}

// TokenPrefix shortens a device token for logging.
func TokenPrefix(token string) string {
	const prefixLen = 10
	if len(token) <= prefixLen {
		return token
	}
	return token[:prefixLen] + "..."
}
