package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/kalkulator/blogbuilder/internal/config"
)

// EnvLogLevel selects the log level when -v is not given.
const EnvLogLevel = "BLOGBUILDER_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: blogbuilder.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	SiteURL       string `name:"site-url" help:"Override the absolute site URL"`
	ContentDir    string `name:"content-dir" help:"Override the markdown content directory"`
	OutputDir     string `name:"output-dir" help:"Override the artifact output directory"`
	PublicDir     string `name:"public-dir" help:"Override the public directory receiving the corpus copy"`
	TemplatesFile string `name:"templates-file" help:"Template store JSON file (default: built-in store)"`

	Generate  GenerateCmd  `cmd:"" help:"Generate a blog post from a JSON input file"`
	Build     BuildCmd     `cmd:"" help:"Index the corpus and write the blog artifacts"`
	Watch     WatchCmd     `cmd:"" help:"Build, then rebuild whenever the content directory changes"`
	Templates TemplatesCmd `cmd:"" help:"List the categories of the template store"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel returns debug for -v, otherwise the level named by EnvLogLevel, otherwise info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig loads the configuration file and environment, applies the global flag
// overrides and validates the result.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	override := func(flag string, dst *string) {
		if v := strings.TrimSpace(flag); v != "" {
			*dst = v
		}
	}
	override(c.SiteURL, &cfg.SiteURL)
	override(c.ContentDir, &cfg.ContentDir)
	override(c.OutputDir, &cfg.OutputDir)
	override(c.PublicDir, &cfg.PublicDir)
	override(c.TemplatesFile, &cfg.TemplatesPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
