package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/arbiterhq/arbiter/internal/output"
	"github.com/arbiterhq/arbiter/internal/progress"
)

func reviewCmd() *cli.Command {
	return &cli.Command{
		Name:      "review",
		Usage:     "Review a single source file",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one file argument")
			}
			path := c.Args().First()

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			r, err := buildReviewer(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			spin := progress.NewSpinner("Reviewing " + path)
			done := make(chan struct{})
			go func() {
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						spin.Tick()
					}
				}
			}()

			report, err := r.ReviewFile(ctx, path)
			close(done)
			if err != nil {
				spin.FinishError(err)
				return err
			}
			spin.FinishSuccess()

			f, err := newFormatter(c, cfg)
			if err != nil {
				return err
			}
			defer f.Close()

			return f.Output(output.FileDocument(report))
		},
	}
}
