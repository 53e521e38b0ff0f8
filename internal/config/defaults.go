package config

import (
	"github.com/kalkulator/blogbuilder/internal/artifacts"
	"github.com/kalkulator/blogbuilder/internal/corpus"
)

// Default returns a Config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	_ = applyDefaults(cfg)
	return cfg
}

// DefaultApplier fills defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SiteDefaultApplier handles site identity defaults.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.SiteURL == "" {
		cfg.SiteURL = "https://kalkulator.hr"
	}
	if cfg.SiteTitle == "" {
		cfg.SiteTitle = "Kalkulator blog"
	}
	if cfg.SiteDescription == "" {
		cfg.SiteDescription = "Vodiči, formule i primjeri izračuna."
	}
	if cfg.Language == "" {
		cfg.Language = "hr"
	}
	if cfg.Publisher.Name == "" {
		cfg.Publisher.Name = "Kalkulator"
	}
	if cfg.Publisher.LogoURL == "" {
		cfg.Publisher.LogoURL = "/logo.png"
	}
	return nil
}

// PathsDefaultApplier handles directory defaults.
type PathsDefaultApplier struct{}

func (PathsDefaultApplier) Domain() string { return "paths" }

func (PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.ContentDir == "" {
		cfg.ContentDir = "content/blog"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "public"
	}
	if cfg.PublicDir == "" {
		cfg.PublicDir = "public"
	}
	return nil
}

// BuildDefaultApplier handles corpus and artifact limits.
type BuildDefaultApplier struct{}

func (BuildDefaultApplier) Domain() string { return "build" }

func (BuildDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.ExcerptLength == 0 {
		cfg.ExcerptLength = corpus.DefaultExcerptLength
	}
	if cfg.SearchBodyLimit == 0 {
		cfg.SearchBodyLimit = artifacts.DefaultSearchBodyLimit
	}
	if cfg.RSSLimit == 0 {
		cfg.RSSLimit = artifacts.DefaultRSSLimit
	}
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = corpus.DefaultCategory
	}
	return nil
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		SiteDefaultApplier{},
		PathsDefaultApplier{},
		BuildDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers() {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
