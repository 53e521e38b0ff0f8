// Package config loads blogbuilder settings.
//
// Sources, lowest precedence first: built-in defaults, the YAML config file (with
// ${VAR} expansion), .env files, process environment variables. CLI flags are applied by
// the caller on top of the returned Config before Validate.
package config

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
)

// DefaultFile is read when no config path is given and the file exists.
const DefaultFile = "blogbuilder.yaml"

// Config is the complete blogbuilder configuration.
type Config struct {
	SiteURL         string `yaml:"site_url"`
	SiteTitle       string `yaml:"site_title"`
	SiteDescription string `yaml:"site_description"`
	Language        string `yaml:"language"`

	ContentDir    string `yaml:"content_dir"`
	OutputDir     string `yaml:"output_dir"`
	PublicDir     string `yaml:"public_dir"`
	TemplatesPath string `yaml:"templates_path,omitempty"`
	MetricsFile   string `yaml:"metrics_file,omitempty"`

	Production      bool   `yaml:"production"`
	ExcerptLength   int    `yaml:"excerpt_length"`
	SearchBodyLimit int    `yaml:"search_body_limit"`
	RSSLimit        int    `yaml:"rss_limit"`
	DefaultCategory string `yaml:"default_category"`

	Publisher Publisher `yaml:"publisher"`
}

// Publisher is the organization credited in structured data.
type Publisher struct {
	Name    string `yaml:"name"`
	LogoURL string `yaml:"logo_url"`
}

// LanguageTag returns the parsed site language, or Croatian when unset or invalid.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.Croatian
	}
	return tag
}

// Load builds a Config from defaults, the YAML file at path, .env files and the process
// environment. An empty path reads DefaultFile when it exists.
func Load(path string) (*Config, error) {
	if _, err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	// #nosec G304 -- config path is chosen by the operator.
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse config file").
				Fatal().
				WithContext("path", path).
				Build()
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read config file").
			Fatal().
			WithContext("path", path).
			Build()
	}

	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	ApplyEnv(cfg, os.LookupEnv)
	return cfg, nil
}
