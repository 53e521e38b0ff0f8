// Package templates resolves content category templates and expands their title and
// description patterns.
//
// A template store is a single JSON document mapping a category name to a
// ContentTemplate. The built-in store is embedded in the binary; a file on disk can
// replace it.
package templates

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
	"github.com/kalkulator/blogbuilder/internal/post"
)

//go:embed defaults.json
var defaultStoreJSON []byte

// ContentTemplate describes how posts of one category are titled and laid out.
type ContentTemplate struct {
	TitlePattern         string            `json:"title_pattern"`
	DescriptionPattern   string            `json:"meta_description_pattern"`
	SectionOrder         []string          `json:"section_order"`
	CalculatorDefault    post.Calculator   `json:"calculator_default"`
	SecondaryCalculators []post.Calculator `json:"secondary_calculators"`
	DefaultTags          []string          `json:"default_tags"`
	MistakeHints         []string          `json:"mistake_hints"`
	QueryVariants        []string          `json:"query_variants"`
	Headings             map[string]string `json:"headings,omitempty"`
}

// Heading returns the template's heading override for a section, or fallback.
func (t ContentTemplate) Heading(section, fallback string) string {
	if h := strings.TrimSpace(t.Headings[section]); h != "" {
		return h
	}
	return fallback
}

// ErrTemplateNotFound is matched by TemplateNotFoundError via errors.Is.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateNotFoundError reports a category with no template in the store.
type TemplateNotFoundError struct {
	Category string
	Known    []string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("no template for category %q (known: %s)", e.Category, strings.Join(e.Known, ", "))
}

// Is lets errors.Is(err, ErrTemplateNotFound) match.
func (e *TemplateNotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// Store maps category names to templates.
type Store struct {
	templates map[string]ContentTemplate
}

// DefaultStore returns the store embedded in the binary.
func DefaultStore() (*Store, error) {
	return ParseStore(defaultStoreJSON)
}

// LoadStore reads a store from path. An empty path selects the embedded store.
func LoadStore(path string) (*Store, error) {
	if path == "" {
		return DefaultStore()
	}
	// #nosec G304 -- path comes from configuration.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read template store").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return ParseStore(data)
}

// ParseStore decodes and validates a template store document.
func ParseStore(data []byte) (*Store, error) {
	var raw map[string]ContentTemplate
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse template store").Fatal().Build()
	}
	for name, tpl := range raw {
		if strings.TrimSpace(name) == "" {
			return nil, ferrors.ConfigError("template store contains an empty category name").Build()
		}
		if strings.TrimSpace(tpl.TitlePattern) == "" {
			return nil, ferrors.ConfigError("template is missing title_pattern").WithContext("category", name).Build()
		}
		if len(tpl.SectionOrder) == 0 {
			return nil, ferrors.ConfigError("template is missing section_order").WithContext("category", name).Build()
		}
	}
	return &Store{templates: raw}, nil
}

// Lookup returns the template for category or a *TemplateNotFoundError.
func (s *Store) Lookup(category string) (ContentTemplate, error) {
	if strings.TrimSpace(category) == "" {
		return ContentTemplate{}, ferrors.ValidationError("category is required").Build()
	}
	tpl, ok := s.templates[category]
	if !ok {
		return ContentTemplate{}, &TemplateNotFoundError{Category: category, Known: s.Categories()}
	}
	return tpl, nil
}

// Categories returns the known category names in sorted order.
func (s *Store) Categories() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
