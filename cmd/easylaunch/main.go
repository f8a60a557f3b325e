package main

import (
	"context"
	"log"

	"github.com/MrSnakeDoc/easylaunch/internal/app"
)

func main() {
	ctx := context.Background()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("❌ easylaunch failed to start: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("❌ easylaunch failed: %v", err)
	}
}
