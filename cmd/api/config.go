package main

import (
	"log"
	"os"

	"marketplace-properties/pkg/config"
	"marketplace-properties/pkg/logger"

	"github.com/joho/godotenv"
)

// load environment variables and configuration
func LoadConfiguration() (*config.Config, error) {
	loadEnvironment()
	cfg, err := loadConfigFile()
	if err != nil {
		return nil, err
	}
	logger.InitLogger(os.Stdout, cfg.Logging.Level)
	return cfg, nil
}

// load environment variables from .env file
func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on system environment variables: %v", err)
	}
}

// load the application configuration from a YAML file
func loadConfigFile() (*config.Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	return config.LoadConfig(configPath)
}
