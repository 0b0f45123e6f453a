package main

import (
	"context"
	"log"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/app"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/dispatcher"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/handler"
	"github.com/aws/aws-lambda-go/lambda"
)

// Subscribed to the notifications table stream.
func main() {
	deps, err := app.New(context.Background(), "dispatcher", app.WithPush())
	if err != nil {
		log.Fatalf("unable to initialize dispatcher: %v", err)
	}

	d := dispatcher.New(deps.Store, deps.Gateway, deps.Logger)
	lambda.Start(handler.NewDispatcherHandler(d, deps.Logger))
}
