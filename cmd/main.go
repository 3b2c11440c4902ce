package main

import (
	"context"
	"os"

	"github.com/hazelvane/melodex/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:    "melodex",
		Usage:   "Spotify catalog mirror with a local cache and user store",
		Version: "0.3.0",
		Commands: []*cli.Command{
			setupCommand(runner),
			serveCommand(runner),
			warmCommand(runner),
			exportCommand(runner),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
