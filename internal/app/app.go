// Package app wires the clients every function needs. Each Lambda builds its
// Deps once at cold start and passes them into its handlers.
package app

import (
	"context"
	"fmt"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/config"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/logger"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/notifier"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/push"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

type Deps struct {
	Config *config.Config
	Logger *zap.Logger
	Store  *store.DynamoStore
	// Gateway is nil unless the function was built WithPush.
	Gateway push.Gateway
}

type Option func(*options)

type options struct {
	push   bool
	logger *zap.Logger
}

// WithPush also initializes the FCM gateway.
func WithPush() Option {
	return func(o *options) { o.push = true }
}

// WithLogger replaces the logger built from LOG_LEVEL and LOG_ENCODING.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New loads configuration and builds the logger, the DynamoDB store and,
// optionally, the push gateway. name becomes the root logger name.
func New(ctx context.Context, name string, opts ...Option) (*Deps, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := o.logger
	if log == nil {
		if log, err = logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding}); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}
	log = log.Named(name)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(do *dynamodb.Options) {
		if cfg.Tables.Endpoint != "" {
			do.BaseEndpoint = aws.String(cfg.Tables.Endpoint)
		}
	})

	deps := &Deps{
		Config: cfg,
		Logger: log,
		Store: store.NewDynamoStore(client, store.Tables{
			Users:         cfg.Tables.Users,
			Notifications: cfg.Tables.Notifications,
		}),
	}

	if o.push {
		deps.Gateway, err = push.NewGateway(ctx, cfg.FCM, log)
		if err != nil {
			return nil, fmt.Errorf("init push gateway: %w", err)
		}
	}

	log.Info("dependencies initialized",
		zap.String("users_table", cfg.Tables.Users),
		zap.String("notifications_table", cfg.Tables.Notifications),
		zap.String("events_table", cfg.Tables.Events),
		zap.Bool("push", o.push),
	)
	return deps, nil
}

// RecipientSelector returns the selector chosen by NOTIFIER_RECIPIENTS.
func (d *Deps) RecipientSelector() notifier.RecipientSelector {
	return SelectorFor(d.Config.Notifier, d.Store)
}

// SelectorFor maps the notifier configuration to a RecipientSelector.
func SelectorFor(cfg config.NotifierConfig, users notifier.SubscriberLister) notifier.RecipientSelector {
	if cfg.Recipients == config.RecipientsSubscribed {
		return notifier.NewSubscribedSelector(users)
	}
	return notifier.FixedSelector{UserID: cfg.PlaceholderUserID}
}

// NotifierOptions returns the body formatting options for the notifier.
func (d *Deps) NotifierOptions() notifier.Options {
	return notifier.Options{
		BodyLimit:                 d.Config.Notifier.BodyLimit,
		EllipsisOnlyWhenTruncated: d.Config.Notifier.EllipsisOnlyWhenTruncated,
	}
}
