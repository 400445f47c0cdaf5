package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"workshop/internal/app"
)

func main() {
	ctx := context.Background()

	application, err := app.New(ctx)
	if err != nil {
		log.Fatal(err)
	}

	if err := application.Run(ctx); err != nil {
		application.Logger().Fatal("Application stopped with error", zap.Error(err))
	}
}
