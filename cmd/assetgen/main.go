package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/eduforge/assetgen/internal/cli"
)

func main() {
	// API keys live in .env, never in the TOML configuration. A missing
	// .env file is fine; the variable may already be exported.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := cli.RootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}
