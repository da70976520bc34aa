package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/gokatarajesh/certquiz/internal/app"
	"github.com/gokatarajesh/certquiz/internal/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Env == "development" {
		cfg.Env = "lambda"
	}

	handler, err := app.NewLambda(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to build lambda handler: %v", err)
	}

	lambda.Start(handler.Handle)
}
