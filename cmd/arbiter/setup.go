package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/arbiterhq/arbiter/internal/agent"
	"github.com/arbiterhq/arbiter/internal/cache"
	"github.com/arbiterhq/arbiter/internal/config"
	"github.com/arbiterhq/arbiter/internal/engine"
	"github.com/arbiterhq/arbiter/internal/output"
	"github.com/arbiterhq/arbiter/internal/reviewer"
	"github.com/arbiterhq/arbiter/internal/scanner"
	"github.com/arbiterhq/arbiter/internal/validator"
)

// loadConfig loads the config file and layers CLI flag overrides on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(c.String("config"))
	if err != nil {
		return nil, err
	}
	if v := c.String("provider"); v != "" {
		cfg.Engine.Provider = v
	}
	if v := c.String("model"); v != "" {
		cfg.Engine.Model = v
	}
	if v := c.String("format"); v != "" {
		cfg.Output.Format = v
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// buildReviewer assembles the full pipeline from config.
func buildReviewer(cfg *config.Config, extra ...reviewer.Option) (*reviewer.Reviewer, error) {
	eng, err := engine.New(cfg.Engine.Provider, cfg.Engine.Model)
	if err != nil {
		return nil, err
	}

	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		return nil, err
	}

	scanOpts := scanner.Options{
		Gitignore:   cfg.Exclude.Gitignore,
		MaxFileSize: cfg.Folder.MaxFileSize,
	}
	if len(cfg.Exclude.Dirs) > 0 {
		scanOpts.DenyDirs = cfg.Exclude.Dirs
	}

	opts := []reviewer.Option{
		reviewer.WithCache(store, cfg.Engine.Model),
		reviewer.WithScanner(scanner.New(scanOpts)),
		reviewer.WithConcurrency(cfg.Folder.Concurrency),
		reviewer.WithFileLimit(cfg.Folder.FileLimit),
		reviewer.WithAgentOptions(agent.WithMaxTokens(cfg.Engine.MaxTokens)),
		reviewer.WithValidatorOptions(
			validator.WithThreshold(cfg.Validation.ConfidenceThreshold),
			validator.WithEnabled(cfg.Validation.ValidatorAgentEnabled),
			validator.WithMaxTokens(cfg.Engine.MaxTokens),
		),
	}
	if cfg.Output.Verbose {
		opts = append(opts, reviewer.WithAgentOptions(
			agent.WithMetrics(&agent.StderrMetrics{Verbose: true}),
		))
	}
	opts = append(opts, extra...)

	return reviewer.New(eng, opts...), nil
}

// newFormatter builds the output formatter for a command invocation.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	return output.NewFormatter(
		output.ParseFormat(cfg.Output.Format),
		c.String("output"),
		cfg.Output.Color,
	)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
