package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/arbiterhq/arbiter/internal/config"
)

const configTemplate = `[engine]
provider = "anthropic"
model = "claude-sonnet-4-20250514"
max_tokens = 4096

[validation]
confidence_threshold = 80
validator_agent_enabled = true

[folder]
concurrency = 1
file_limit = 50
max_file_size = 262144

[exclude]
# dirs = ["node_modules", "dist"]
gitignore = true

[cache]
enabled = true
dir = ".arbiter/cache"
ttl = 24

[output]
format = "text"
color = true
verbose = false
`

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a default " + config.DefaultConfigFile + " to the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: func(c *cli.Context) error {
			if _, err := os.Stat(config.DefaultConfigFile); err == nil && !c.Bool("force") {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.DefaultConfigFile)
			}
			if err := os.WriteFile(config.DefaultConfigFile, []byte(configTemplate), 0o644); err != nil {
				return err
			}
			color.Green("Wrote %s", config.DefaultConfigFile)
			return nil
		},
	}
}
