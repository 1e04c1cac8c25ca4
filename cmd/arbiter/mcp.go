package main

import (
	"github.com/urfave/cli/v2"

	"github.com/arbiterhq/arbiter/internal/mcpserver"
	"github.com/arbiterhq/arbiter/internal/reviewer"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run as an MCP server over stdio, exposing review_file and review_folder tools",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			// MCP clients cannot answer an interactive prompt; large
			// folder reviews proceed without one.
			r, err := buildReviewer(cfg, reviewer.WithFileLimit(0))
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			return mcpserver.NewServer(version, r).Run(ctx)
		},
	}
}
