package main

import (
	"context"
	"os"

	"github.com/desertthunder/songalchemy/internal/shared"
)

const defaultConfigPath = "config.toml"

func configPath() string {
	if path := os.Getenv("SONGALCHEMY_CONFIG"); path != "" {
		return path
	}

	return defaultConfigPath
}

func main() {
	logger := shared.NewLogger(os.Stderr)

	conf, err := shared.LoadConfig(configPath())
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	runner, err := NewRunner(RunnerOpts{Config: conf, Logger: logger})
	if err != nil {
		logger.Fatal("failed to initialize", "error", err)
	}
	defer runner.Close()

	app := rootCommand(runner)

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal(err)
	}
}
