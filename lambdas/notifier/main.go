package main

import (
	"context"
	"log"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/app"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/handler"
	"github.com/SeniorEXFall2025/stem-mobile-app/internal/notifier"
	"github.com/aws/aws-lambda-go/lambda"
)

// Subscribed to the events table stream.
func main() {
	deps, err := app.New(context.Background(), "notifier")
	if err != nil {
		log.Fatalf("unable to initialize notifier: %v", err)
	}

	n := notifier.New(deps.Store, deps.RecipientSelector(), deps.NotifierOptions(), deps.Logger)
	lambda.Start(handler.NewNotifierHandler(n, deps.Logger))
}
