package app

import (
	"context"
	"testing"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/config"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/model"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type staticLister []string

func (l staticLister) SubscribedUserIDs(context.Context) ([]string, error) {
	return l, nil
}

func TestSelectorFor(t *testing.T) {
	t.Run("placeholder", func(t *testing.T) {
		sel := SelectorFor(config.NotifierConfig{Recipients: config.RecipientsPlaceholder, PlaceholderUserID: "stem-admin"}, staticLister{"u1"})
		assert.Equal(t, notifier.FixedSelector{UserID: "stem-admin"}, sel)
	})

	t.Run("subscribed", func(t *testing.T) {
		sel := SelectorFor(config.NotifierConfig{Recipients: config.RecipientsSubscribed}, staticLister{"u1", "u2"})
		ids, err := sel.Select(context.Background(), "e1", model.Event{Title: "Robotics"})
		require.NoError(t, err)
		assert.Equal(t, []string{"u1", "u2"}, ids)
	})
}

func TestNew(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")
	t.Setenv("NOTIFIER_BODY_LIMIT", "120")
	t.Setenv("EVENTS_TABLE", "stem-events")

	core, logs := observer.New(zapcore.InfoLevel)
	deps, err := New(context.Background(), "test", WithPush(), WithLogger(zap.New(core)))
	require.NoError(t, err)

	started := logs.FilterMessage("dependencies initialized").All()
	require.Len(t, started, 1)
	assert.Equal(t, "stem-events", started[0].ContextMap()["events_table"])
	assert.Equal(t, "notifications", started[0].ContextMap()["notifications_table"])
	assert.Equal(t, "test", started[0].LoggerName)
	assert.NotNil(t, deps.Store)
	assert.NotNil(t, deps.Gateway)
	assert.Equal(t, notifier.Options{BodyLimit: 120}, deps.NotifierOptions())
	assert.Equal(t, notifier.FixedSelector{UserID: "stem-admin"}, deps.RecipientSelector())
}

func TestNew_BadConfig(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NOTIFIER_RECIPIENTS", "all")

	_, err := New(context.Background(), "test")
	assert.ErrorContains(t, err, "load config")
}
