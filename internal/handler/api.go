package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/model"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/store"
	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// APIHandler handles API Gateway proxy requests.
type APIHandler = func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NotificationStore is what the API needs from the store.
type NotificationStore interface {
	AppendNotification(ctx context.Context, n model.Notification) (string, error)
	GetNotification(ctx context.Context, id string) (model.Notification, error)
}

// CreateNotificationRequest is the body of POST /notifications.
type CreateNotificationRequest struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Route  string `json:"route"`
}

// CreateNotificationResponse is returned after a trigger document was written.
type CreateNotificationResponse struct {
	NotificationID string `json:"notificationId"`
}

type api struct {
	store  NotificationStore
	logger *zap.Logger
}

// NewAPIHandler lets backends create notification trigger documents without
// table access:
//
//	POST /notifications                  create a trigger document
//	GET  /notifications/{notificationId} read one back
func NewAPIHandler(st NotificationStore, logger *zap.Logger) APIHandler {
	a := &api{store: st, logger: logger.Named("api")}
	return a.handle
}

func (a *api) handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.HTTPMethod {
	case http.MethodPost:
		return a.handlePost(ctx, request)
	case http.MethodGet:
		return a.handleGet(ctx, request)
	default:
		return text(http.StatusMethodNotAllowed, "Method not allowed"), nil
	}
}

func (a *api) handlePost(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log := withRequestID(ctx, a.logger)

	var req CreateNotificationRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		log.Info("failed to parse request body", zap.Error(err))
		return text(http.StatusBadRequest, "Invalid request body"), nil
	}

	n := model.Notification{
		UserID: req.UserID,
		Title:  req.Title,
		Body:   req.Body,
		Route:  req.Route,
	}
	if err := model.Validate(n); err != nil {
		return text(http.StatusBadRequest, err.Error()), nil
	}

	id, err := a.store.AppendNotification(ctx, n)
	if err != nil {
		log.Error("failed to create notification", zap.String("user_id", n.UserID), zap.Error(err))
		return text(http.StatusInternalServerError, "Failed to create notification"), nil
	}

	log.Info("notification created", zap.String("notification_id", id), zap.String("user_id", n.UserID))
	return jsonResponse(http.StatusCreated, CreateNotificationResponse{NotificationID: id})
}

func (a *api) handleGet(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := request.PathParameters["notificationId"]
	if id == "" {
		return text(http.StatusBadRequest, "Missing notificationId"), nil
	}

	n, err := a.store.GetNotification(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return text(http.StatusNotFound, "Notification not found"), nil
	case err != nil:
		withRequestID(ctx, a.logger).Error("failed to read notification", zap.String("notification_id", id), zap.Error(err))
		return text(http.StatusInternalServerError, "Failed to read notification"), nil
	}
	return jsonResponse(http.StatusOK, n)
}

func text(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: status, Body: body}
}

func jsonResponse(status int, v any) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return text(http.StatusInternalServerError, "Error generating response"), nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}
