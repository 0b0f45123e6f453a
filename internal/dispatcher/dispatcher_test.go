package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/model"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/store"
	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetUser(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Send(ctx context.Context, msg *messaging.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("sends one message with defaults", func(t *testing.T) {
		users := new(mockUsers)
		gw := new(mockGateway)
		users.On("GetUser", ctx, "u1").Return(model.User{ID: "u1", FCMToken: "tok-1"}, nil).Once()
		gw.On("Send", ctx, mock.MatchedBy(func(msg *messaging.Message) bool {
			return msg.Token == "tok-1" &&
				msg.Notification.Title == DefaultTitle &&
				msg.Notification.Body == DefaultBody &&
				msg.Data["route"] == DefaultRoute &&
				msg.Data["click_action"] == ClickAction &&
				msg.Android.Notification.ChannelID == AndroidChannelID
		})).Return("projects/stem/messages/1", nil).Once()

		id, err := New(users, gw, zap.NewNop()).Dispatch(ctx, model.Notification{ID: "n1", UserID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, "projects/stem/messages/1", id)
		users.AssertExpectations(t)
		gw.AssertExpectations(t)
	})

	t.Run("uses trigger fields when present", func(t *testing.T) {
		users := new(mockUsers)
		gw := new(mockGateway)
		users.On("GetUser", ctx, "u1").Return(model.User{ID: "u1", FCMToken: "tok-1"}, nil).Once()
		gw.On("Send", ctx, mock.MatchedBy(func(msg *messaging.Message) bool {
			return msg.Notification.Title == "Lab moved" &&
				msg.Notification.Body == "Room 204" &&
				msg.Data["route"] == "/events/e9"
		})).Return("m-2", nil).Once()

		_, err := New(users, gw, zap.NewNop()).Dispatch(ctx, model.Notification{
			UserID: "u1", Title: "Lab moved", Body: "Room 204", Route: "/events/e9",
		})
		require.NoError(t, err)
		gw.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("missing userId skips lookup and send", func(t *testing.T) {
		users := new(mockUsers)
		gw := new(mockGateway)

		_, err := New(users, gw, zap.NewNop()).Dispatch(ctx, model.Notification{ID: "n1", Title: "orphan"})
		assert.ErrorIs(t, err, model.ErrInvalidDocument)
		users.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
		gw.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("user without token", func(t *testing.T) {
		users := new(mockUsers)
		gw := new(mockGateway)
		users.On("GetUser", ctx, "u1").Return(model.User{ID: "u1"}, nil).Once()

		_, err := New(users, gw, zap.NewNop()).Dispatch(ctx, model.Notification{UserID: "u1"})
		assert.ErrorIs(t, err, ErrMissingToken)
		gw.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(mockUsers)
		gw := new(mockGateway)
		users.On("GetUser", ctx, "ghost").Return(model.User{}, store.ErrNotFound).Once()

		_, err := New(users, gw, zap.NewNop()).Dispatch(ctx, model.Notification{UserID: "ghost"})
		assert.ErrorIs(t, err, ErrRecipientNotFound)
		gw.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure", func(t *testing.T) {
		users := new(mockUsers)
		gw := new(mockGateway)
		boom := errors.New("throttled")
		users.On("GetUser", ctx, "u1").Return(model.User{}, boom).Once()

		_, err := New(users, gw, zap.NewNop()).Dispatch(ctx, model.Notification{UserID: "u1"})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrRecipientNotFound)
		gw.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("send failure is returned once", func(t *testing.T) {
		users := new(mockUsers)
		gw := new(mockGateway)
		boom := errors.New("registration-token-not-registered")
		users.On("GetUser", ctx, "u1").Return(model.User{ID: "u1", FCMToken: "tok-1"}, nil).Once()
		gw.On("Send", ctx, mock.Anything).Return("", boom).Once()

		_, err := New(users, gw, zap.NewNop()).Dispatch(ctx, model.Notification{UserID: "u1"})
		assert.ErrorIs(t, err, boom)
		gw.AssertNumberOfCalls(t, "Send", 1)
	})
}

func TestBuildMessage_Deterministic(t *testing.T) {
	n := model.Notification{ID: "n1", UserID: "u1", Title: "Hello"}
	first := BuildMessage(n, "tok")
	second := BuildMessage(n, "tok")
	assert.Equal(t, first, second)
	assert.Equal(t, "Hello", first.Notification.Title)
	assert.Equal(t, map[string]string{"click_action": ClickAction, "route": DefaultRoute}, first.Data)
}
