package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/kalkulator/blogbuilder/internal/build"
	"github.com/kalkulator/blogbuilder/internal/config"
	"github.com/kalkulator/blogbuilder/internal/logfields"
	"github.com/kalkulator/blogbuilder/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Production  bool          `help:"Exclude draft posts (also enabled by BLOG_ENV or NODE_ENV=production)"`
	Timeout     time.Duration `help:"Abort the build after this duration (0 disables the limit)" default:"0s"`
	MetricsFile string        `name:"metrics-file" help:"Write Prometheus metrics in text format to this file"`
}

func (b *BuildCmd) Run(global *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	b.apply(cfg)

	runner := newBuildRunner(cfg, b.Timeout, global.logger())
	result, err := runner.Run(context.Background())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(global.out(), "Built %d posts into %s\n", result.Published, cfg.OutputDir)
	return nil
}

func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Production {
		cfg.Production = true
	}
	if b.MetricsFile != "" {
		cfg.MetricsFile = b.MetricsFile
	}
}

// buildRunner runs builds against one config, recording metrics across runs when a
// metrics file is configured.
type buildRunner struct {
	cfg     *config.Config
	timeout time.Duration
	logger  *slog.Logger
	service *build.DefaultService
	reg     *prom.Registry
}

func newBuildRunner(cfg *config.Config, timeout time.Duration, logger *slog.Logger) *buildRunner {
	r := &buildRunner{
		cfg:     cfg,
		timeout: timeout,
		logger:  logger,
		service: build.NewService(logger),
	}
	if cfg.MetricsFile != "" {
		r.reg = prom.NewRegistry()
		r.service.WithRecorder(metrics.NewPrometheusRecorder(r.reg))
	}
	return r
}

// Run executes one build and refreshes the metrics file.
func (r *buildRunner) Run(ctx context.Context) (*build.Result, error) {
	result, err := r.service.Run(ctx, build.Request{Config: r.cfg, Timeout: r.timeout})
	if r.reg != nil {
		if werr := metrics.WriteTextfile(r.reg, r.cfg.MetricsFile); werr != nil {
			r.logger.Warn("Failed to write metrics file", logfields.Path(r.cfg.MetricsFile), logfields.Error(werr))
		}
	}
	return result, err
}
