package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/arbiterhq/arbiter/internal/output"
	"github.com/arbiterhq/arbiter/internal/progress"
	"github.com/arbiterhq/arbiter/internal/reviewer"
)

// trackerObserver adapts the progress bar to the reviewer's observer.
type trackerObserver struct {
	tracker *progress.Tracker
}

func (o *trackerObserver) Begin(total int) {
	o.tracker = progress.NewTracker("Reviewing", total)
}

func (o *trackerObserver) FileDone(string) {
	o.tracker.Tick()
}

func (o *trackerObserver) End() {
	if o.tracker != nil {
		o.tracker.FinishSuccess()
	}
}

func folderCmd() *cli.Command {
	return &cli.Command{
		Name:      "folder",
		Usage:     "Review every source file under a folder",
		ArgsUsage: "<dir>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Files reviewed in parallel (each file makes two engine calls)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "File count above which confirmation is required",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the large-folder confirmation prompt",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one folder argument")
			}
			dir := c.Args().First()

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if v := c.Int("concurrency"); v > 0 {
				cfg.Folder.Concurrency = v
			}
			if v := c.Int("limit"); v > 0 {
				cfg.Folder.FileLimit = v
			}

			confirm := func(files int) bool {
				if c.Bool("yes") {
					return true
				}
				fmt.Fprintf(os.Stderr, "About to review %d files, each needing multiple model calls. Continue? [y/N] ", files)
				var resp string
				fmt.Fscanln(os.Stdin, &resp)
				resp = strings.ToLower(strings.TrimSpace(resp))
				return resp == "y" || resp == "yes"
			}

			r, err := buildReviewer(cfg,
				reviewer.WithObserver(&trackerObserver{}),
				reviewer.WithConfirm(confirm),
			)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			report, err := r.ReviewFolder(ctx, dir)
			if err != nil {
				return err
			}

			f, err := newFormatter(c, cfg)
			if err != nil {
				return err
			}
			defer f.Close()

			return f.Output(output.FolderDocument(report))
		},
	}
}
