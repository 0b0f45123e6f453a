// Package handler adapts the dispatcher, the notifier and the notification
// API to the Lambda event types.
package handler

import (
	"context"
	"errors"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/dispatcher"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/model"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/trigger"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"
)

// StreamHandler handles a batch of DynamoDB stream records.
type StreamHandler = func(ctx context.Context, e events.DynamoDBEvent) error

type Dispatcher interface {
	Dispatch(ctx context.Context, n model.Notification) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, eventID string, ev model.Event) ([]string, error)
}

// NewDispatcherHandler handles the notifications table stream. Every record
// is processed on its own; failures are logged and never returned, so Lambda
// does not redeliver the batch.
func NewDispatcherHandler(d Dispatcher, logger *zap.Logger) StreamHandler {
	logger = logger.Named("notifications_stream")
	return func(ctx context.Context, e events.DynamoDBEvent) error {
		log := withRequestID(ctx, logger)
		for _, record := range e.Records {
			dispatchRecord(ctx, d, log, record)
		}
		return nil
	}
}

func dispatchRecord(ctx context.Context, d Dispatcher, log *zap.Logger, record events.DynamoDBEventRecord) {
	id := trigger.DocumentID(record)
	log = log.With(zap.String("stream_event_id", record.EventID), zap.String("notification_id", id))
	if !trigger.IsInsert(record) {
		log.Debug("skipping record", zap.String("event_name", record.EventName))
		return
	}

	var n model.Notification
	if err := trigger.Decode(record, &n); err != nil {
		logFailure(log, "notification dropped", err)
		return
	}
	if n.ID == "" {
		n.ID = id
	}

	messageID, err := d.Dispatch(ctx, n)
	if err != nil {
		logFailure(log.With(zap.String("user_id", n.UserID)), "notification dropped", err)
		return
	}
	log.Info("push message sent", zap.String("user_id", n.UserID), zap.String("message_id", messageID))
}

// NewNotifierHandler handles the events table stream.
func NewNotifierHandler(n Notifier, logger *zap.Logger) StreamHandler {
	logger = logger.Named("events_stream")
	return func(ctx context.Context, e events.DynamoDBEvent) error {
		log := withRequestID(ctx, logger)
		for _, record := range e.Records {
			notifyRecord(ctx, n, log, record)
		}
		return nil
	}
}

func notifyRecord(ctx context.Context, n Notifier, log *zap.Logger, record events.DynamoDBEventRecord) {
	eventID := trigger.DocumentID(record)
	log = log.With(zap.String("stream_event_id", record.EventID), zap.String("event_id", eventID))
	if !trigger.IsInsert(record) {
		log.Debug("skipping record", zap.String("event_name", record.EventName))
		return
	}

	var ev model.Event
	if err := trigger.Decode(record, &ev); err != nil {
		logFailure(log, "event skipped", err)
		return
	}
	if eventID == "" {
		eventID = ev.ID
	}

	written, err := n.Notify(ctx, eventID, ev)
	if err != nil {
		log.Error("failed to write event notifications",
			zap.Strings("notification_ids", written),
			zap.Error(err),
		)
		return
	}
	log.Info("event notifications written", zap.Strings("notification_ids", written))
}

// logFailure logs err at a level matching its kind. Missing recipients and
// tokens are routine; missing snapshots and downstream failures are not.
func logFailure(log *zap.Logger, msg string, err error) {
	switch {
	case errors.Is(err, dispatcher.ErrRecipientNotFound), errors.Is(err, dispatcher.ErrMissingToken):
		log.Info(msg, zap.String("reason", "no fcm token for recipient"), zap.Error(err))
	case errors.Is(err, model.ErrInvalidDocument):
		log.Warn(msg, zap.String("reason", "invalid document"), zap.Error(err))
	case errors.Is(err, trigger.ErrMissingSnapshot):
		log.Error(msg, zap.String("reason", "no snapshot"), zap.Error(err))
	default:
		log.Error(msg, zap.Error(err))
	}
}

func withRequestID(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return logger.With(zap.String("aws_request_id", lc.AwsRequestID))
	}
	return logger
}
