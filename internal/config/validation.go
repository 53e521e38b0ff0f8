package config

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
)

// Validate checks the configuration after all sources have been applied.
func (c *Config) Validate() error {
	u, err := url.Parse(c.SiteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ferrors.ConfigError("site_url must be an absolute http(s) URL").WithContext("site_url", c.SiteURL).Build()
	}
	if _, err := language.Parse(c.Language); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid language").
			Fatal().
			WithContext("language", c.Language).
			Build()
	}

	for _, dir := range []struct{ key, value string }{
		{"content_dir", c.ContentDir},
		{"output_dir", c.OutputDir},
		{"public_dir", c.PublicDir},
	} {
		if strings.TrimSpace(dir.value) == "" {
			return ferrors.ConfigError("directory must not be empty").WithContext("field", dir.key).Build()
		}
	}

	for _, limit := range []struct {
		key   string
		value int
	}{
		{"excerpt_length", c.ExcerptLength},
		{"search_body_limit", c.SearchBodyLimit},
		{"rss_limit", c.RSSLimit},
	} {
		if limit.value <= 0 {
			return ferrors.ConfigError("limit must be positive").
				WithContext("field", limit.key).
				WithContext("value", limit.value).
				Build()
		}
	}
	return nil
}
