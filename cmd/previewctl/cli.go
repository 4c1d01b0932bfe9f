package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/use-agent/preview/api"
	"github.com/use-agent/preview/config"
	"github.com/use-agent/preview/engine"
	"github.com/use-agent/preview/models"
	"github.com/use-agent/preview/scraper"
	"github.com/use-agent/preview/service"
)

// Dependencies holds the services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Get     GetCmd     `cmd:"" help:"Print the preview metadata of a URL as JSON"`
	Version VersionCmd `cmd:"" help:"Print the version"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	URL     string        `arg:"" help:"Page URL"`
	Timeout time.Duration `short:"t" help:"Fetch timeout (defaults to the configured timeout)"`
}

// VersionCmd is the "version" subcommand.
type VersionCmd struct{}

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	fetchCfg := deps.Config.Fetch
	if c.Timeout > 0 {
		fetchCfg.Timeout = c.Timeout
	}

	dispatcher := engine.NewFromConfig(fetchCfg)
	defer dispatcher.Close()

	svc := service.New(scraper.New(dispatcher, scraper.WithTimeout(fetchCfg.Timeout)))
	content, err := svc.GetContent(deps.Ctx, &models.ContentRequest{URL: c.URL})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(content)
}

// Run executes the version command.
func (c *VersionCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "previewctl %s\n", api.Version)
	return nil
}
