package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/kalkulator/blogbuilder/internal/build"
	"github.com/kalkulator/blogbuilder/internal/logfields"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Production bool          `help:"Exclude draft posts (also enabled by BLOG_ENV or NODE_ENV=production)"`
	Debounce   time.Duration `help:"Quiet period before a rebuild starts" default:"300ms"`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return w.run(ctx, global, root)
}

func (w *WatchCmd) run(ctx context.Context, global *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if w.Production {
		cfg.Production = true
	}
	logger := global.logger()
	runner := newBuildRunner(cfg, 0, logger)

	rebuild := func(ctx context.Context) error {
		_, err := runner.Run(ctx)
		return err
	}
	if err := rebuild(ctx); err != nil {
		// A broken first build is not fatal; the next content change retries.
		logger.Error("Initial build failed", logfields.Error(err))
	}

	return build.Watch(ctx, cfg.ContentDir, w.Debounce, rebuild, logger)
}
