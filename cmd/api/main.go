package main

import (
	"context"
	"log"
	"os"

	"marketplace-properties/pkg/logger"
)

func main() {
	cfg, err := LoadConfiguration()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to start: %v", err)
		os.Exit(1)
	}

	app.InitializeServer()
	if err := app.StartServer(); err != nil {
		logger.GlobalLogger.Errorf("%v", err)
		os.Exit(1)
	}
}
