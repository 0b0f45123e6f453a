package main

import (
	"context"
	"log"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/app"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/handler"
	"github.com/aws/aws-lambda-go/lambda"
)

// Behind API Gateway: POST /notifications, GET /notifications/{notificationId}.
func main() {
	deps, err := app.New(context.Background(), "api")
	if err != nil {
		log.Fatalf("unable to initialize api: %v", err)
	}

	lambda.Start(handler.NewAPIHandler(deps.Store, deps.Logger))
}
