package main

import (
	"testing"

	"github.com/urfave/cli/v2"
)

// TestLoadConfigFlagOverrides verifies CLI flags win over config defaults.
func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, c *cli.Context)
	}{
		{
			name: "no flags keeps defaults",
			args: []string{},
			check: func(t *testing.T, c *cli.Context) {
				cfg, err := loadConfig(c)
				if err != nil {
					t.Fatalf("loadConfig() error: %v", err)
				}
				if cfg.Engine.Provider != "anthropic" {
					t.Errorf("provider = %q, want anthropic", cfg.Engine.Provider)
				}
				if !cfg.Cache.Enabled {
					t.Error("cache disabled by default")
				}
			},
		},
		{
			name: "provider and model flags",
			args: []string{"--provider", "ollama", "--model", "llama3"},
			check: func(t *testing.T, c *cli.Context) {
				cfg, err := loadConfig(c)
				if err != nil {
					t.Fatalf("loadConfig() error: %v", err)
				}
				if cfg.Engine.Provider != "ollama" || cfg.Engine.Model != "llama3" {
					t.Errorf("engine = %+v", cfg.Engine)
				}
			},
		},
		{
			name: "no-cache flag",
			args: []string{"--no-cache"},
			check: func(t *testing.T, c *cli.Context) {
				cfg, err := loadConfig(c)
				if err != nil {
					t.Fatalf("loadConfig() error: %v", err)
				}
				if cfg.Cache.Enabled {
					t.Error("cache still enabled with --no-cache")
				}
			},
		},
		{
			name: "format flag",
			args: []string{"--format=toon"},
			check: func(t *testing.T, c *cli.Context) {
				cfg, err := loadConfig(c)
				if err != nil {
					t.Fatalf("loadConfig() error: %v", err)
				}
				if cfg.Output.Format != "toon" {
					t.Errorf("format = %q, want toon", cfg.Output.Format)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config"},
					&cli.StringFlag{Name: "format"},
					&cli.StringFlag{Name: "provider"},
					&cli.StringFlag{Name: "model"},
					&cli.BoolFlag{Name: "no-cache"},
					&cli.BoolFlag{Name: "verbose"},
				},
				Action: func(c *cli.Context) error {
					tt.check(t, c)
					return nil
				},
			}
			args := append([]string{"arbiter"}, tt.args...)
			if err := app.Run(args); err != nil {
				t.Fatalf("app.Run() error: %v", err)
			}
		})
	}
}
