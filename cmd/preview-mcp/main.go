package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/preview/api"
	"github.com/use-agent/preview/config"
	"github.com/use-agent/preview/engine"
	"github.com/use-agent/preview/logging"
	"github.com/use-agent/preview/mcpserver"
	"github.com/use-agent/preview/scraper"
	"github.com/use-agent/preview/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Stdout carries the MCP protocol, so logs go to stderr.
	slog.SetDefault(slog.New(logging.NewHandler(cfg.Log, os.Stderr)))

	dispatcher := engine.NewFromConfig(cfg.Fetch)
	defer dispatcher.Close()

	svc := service.New(scraper.New(dispatcher, scraper.WithTimeout(cfg.Fetch.Timeout)))
	s := mcpserver.New(svc, api.Version)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
