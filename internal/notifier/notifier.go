// Package notifier turns new events into notification trigger documents.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/model"
	"go.uber.org/zap"
)

const (
	TitlePrefix = "🔔 NEW EVENT: "
	Ellipsis    = "..."
	// DefaultBodyLimit is the number of description characters kept in the body.
	DefaultBodyLimit = 150
)

// NotificationWriter appends trigger documents to the notifications table.
type NotificationWriter interface {
	AppendNotification(ctx context.Context, n model.Notification) (string, error)
}

// Options controls how the notification body is cut from the description.
type Options struct {
	BodyLimit int
	// EllipsisOnlyWhenTruncated appends the ellipsis only to descriptions that
	// were actually cut. When false every body ends with it.
	EllipsisOnlyWhenTruncated bool
}

type Notifier struct {
	writer   NotificationWriter
	selector RecipientSelector
	opts     Options
	logger   *zap.Logger
}

func New(writer NotificationWriter, selector RecipientSelector, opts Options, logger *zap.Logger) *Notifier {
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = DefaultBodyLimit
	}
	return &Notifier{
		writer:   writer,
		selector: selector,
		opts:     opts,
		logger:   logger.Named("notifier"),
	}
}

// Notify appends one trigger document per selected recipient of event ev and
// returns the ids of the documents written. A failed write does not stop the
// remaining recipients; all write failures are joined into the returned error.
func (n *Notifier) Notify(ctx context.Context, eventID string, ev model.Event) ([]string, error) {
	recipients, err := n.selector.Select(ctx, eventID, ev)
	if err != nil {
		return nil, fmt.Errorf("select recipients: %w", err)
	}
	if len(recipients) == 0 {
		n.logger.Info("no recipients selected", zap.String("event_id", eventID))
		return nil, nil
	}

	var (
		written []string
		errs    []error
	)
	for _, userID := range recipients {
		doc := BuildNotification(eventID, ev, userID, n.opts)
		id, err := n.writer.AppendNotification(ctx, doc)
		if err != nil {
			errs = append(errs, fmt.Errorf("append notification for %s: %w", userID, err))
			continue
		}
		n.logger.Debug("notification appended",
			zap.String("event_id", eventID),
			zap.String("user_id", userID),
			zap.String("notification_id", id),
		)
		written = append(written, id)
	}
	return written, errors.Join(errs...)
}

// BuildNotification builds the trigger document announcing event ev to userID.
// createdAt is left for the store to assign.
func BuildNotification(eventID string, ev model.Event, userID string, opts Options) model.Notification {
	limit := opts.BodyLimit
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	return model.Notification{
		UserID: userID,
		Title:  TitlePrefix + ev.Title,
		Body:   Truncate(ev.Description, limit, opts.EllipsisOnlyWhenTruncated),
		Route:  "/events/" + eventID,
	}
}

// Truncate keeps the first limit characters of s and appends Ellipsis. With
// onlyWhenCut set, the ellipsis is added only if characters were dropped.
func Truncate(s string, limit int, onlyWhenCut bool) string {
	runes := []rune(s)
	cut := len(runes) > limit
	if cut {
		runes = runes[:limit]
	}
	if cut || !onlyWhenCut {
		return string(runes) + Ellipsis
	}
	return s
}
