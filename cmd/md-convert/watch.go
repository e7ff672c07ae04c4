// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/md-convert/internal/render"
	"github.com/pdiddy/md-convert/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Convert Markdown files as they are added to the input directory",
	Long: `Watch monitors the input directory and converts each Markdown file
that is created or modified, using the configured format and citation
handling. Conversions run one at a time. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := render.Detect(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
		return fmt.Errorf("creating input directory %s: %w", cfg.InputDir, err)
	}

	dispatcher, closeFn, err := newDispatcher(cfg, engine)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debounce, _ := cmd.Flags().GetDuration("debounce")
	fmt.Printf("Watching %s for Markdown files (%s via %s). Press Ctrl-C to stop.\n",
		cfg.InputDir, cfg.Format, engine.Name())

	w := watch.New(cfg.InputDir, debounce, func(path string) {
		// Failures are already reported by the dispatcher; keep watching.
		dispatcher.ConvertFile(path, cfg.Format, cfg.RemoveCitations)
	})
	return w.Run(ctx)
}

func init() {
	f := watchCmd.Flags()
	f.StringP("format", "f", "epub", "output format: epub or docx")
	f.BoolP("remove-citations", "r", false, "drop ([text](url)) citations instead of converting them")
	f.Duration("debounce", watch.DefaultDebounce, "quiet period before a changed file is converted")

	watchCmd.PreRun = func(cmd *cobra.Command, args []string) {
		bindFlags(f, map[string]string{
			"format":           "format",
			"remove_citations": "remove-citations",
		})
	}

	rootCmd.AddCommand(watchCmd)
}
