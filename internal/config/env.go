package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
)

// Environment variables read by ApplyEnv.
const (
	EnvSiteURL    = "BLOG_SITE_URL"
	EnvContentDir = "BLOG_CONTENT_DIR"
	EnvOutputDir  = "BLOG_OUTPUT_DIR"
	EnvPublicDir  = "BLOG_PUBLIC_DIR"
	EnvTemplates  = "BLOG_TEMPLATES"
	EnvBlogEnv    = "BLOG_ENV"
	EnvNodeEnv    = "NODE_ENV"
)

// DotEnvFiles are loaded in order when present.
var DotEnvFiles = []string{".env", ".env.local"}

// LoadDotEnv loads the DotEnvFiles that exist into the process environment. Variables
// already set are not overridden. It returns the files it loaded.
func LoadDotEnv() ([]string, error) {
	var loaded []string
	for _, name := range DotEnvFiles {
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return loaded, ferrors.WrapError(err, ferrors.CategoryConfig, "load env file").
				Fatal().
				WithContext("path", name).
				Build()
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}

// ApplyEnv overrides cfg with values found through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvSiteURL, &cfg.SiteURL)
	set(EnvContentDir, &cfg.ContentDir)
	set(EnvOutputDir, &cfg.OutputDir)
	set(EnvPublicDir, &cfg.PublicDir)
	set(EnvTemplates, &cfg.TemplatesPath)

	if ProductionFromEnv(lookup) {
		cfg.Production = true
	}
}

// ProductionFromEnv reports whether BLOG_ENV or NODE_ENV is "production".
func ProductionFromEnv(lookup func(string) (string, bool)) bool {
	for _, key := range []string{EnvBlogEnv, EnvNodeEnv} {
		if v, ok := lookup(key); ok && strings.EqualFold(strings.TrimSpace(v), "production") {
			return true
		}
	}
	return false
}
