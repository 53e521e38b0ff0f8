// Package generator turns a post generation request and its category template into a
// markdown document with YAML front matter and JSON-LD structured data.
package generator

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
	"github.com/kalkulator/blogbuilder/internal/frontmatter"
	"github.com/kalkulator/blogbuilder/internal/logfields"
	"github.com/kalkulator/blogbuilder/internal/post"
	"github.com/kalkulator/blogbuilder/internal/templates"
)

// Config holds the site-level settings the generator needs.
type Config struct {
	SiteURL    string
	ContentDir string
	Language   language.Tag
	Publisher  Publisher

	// NoOverwrite turns a slug collision into an error instead of a warning.
	NoOverwrite bool
}

// Generator renders and writes posts.
type Generator struct {
	cfg      Config
	store    *templates.Store
	expander *templates.Expander
	logger   *slog.Logger
}

// New returns a Generator resolving categories against store.
func New(cfg Config, store *templates.Store, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	lang := cfg.Language
	if lang == language.Und {
		lang = language.Croatian
	}
	g := &Generator{
		cfg:      cfg,
		store:    store,
		expander: templates.NewExpander(lang),
		logger:   logger,
	}
	g.warnUnknownSections()
	return g
}

// warnUnknownSections reports section_order ids with no builder. AssembleBody skips them.
func (g *Generator) warnUnknownSections() {
	for _, category := range g.store.Categories() {
		tpl, err := g.store.Lookup(category)
		if err != nil {
			continue
		}
		for _, id := range tpl.SectionOrder {
			if !IsKnownSection(id) {
				g.logger.Warn("Template lists an unknown section", logfields.Category(category), logfields.Section(id))
			}
		}
	}
}

// Document is a rendered post.
type Document struct {
	Slug        string
	FrontMatter post.FrontMatter
	Body        string
	Content     []byte
}

// Render builds the document for in without touching the filesystem.
func (g *Generator) Render(in post.Input) (Document, error) {
	if err := in.Validate(); err != nil {
		return Document{}, err
	}

	tpl, err := g.store.Lookup(in.Category)
	if err != nil {
		return Document{}, ferrors.TemplateError("resolve category template").
			WithCause(err).
			WithContext("category", in.Category).
			Build()
	}

	title := g.expander.ExpandTitle(tpl.TitlePattern, in, tpl)
	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = g.expander.ExpandDescription(tpl.DescriptionPattern, in, tpl)
	}
	if strings.TrimSpace(description) == "" {
		description = title
	}
	for _, field := range []struct{ name, value string }{{"title", title}, {"description", description}} {
		if tokens := templates.UnresolvedPlaceholders(field.value); len(tokens) > 0 {
			g.logger.Warn("Unresolved placeholders left in output",
				logfields.Slug(in.Slug),
				slog.String("field", field.name),
				slog.Any("placeholders", tokens))
		}
	}

	tags := in.Tags
	if len(tags) == 0 {
		tags = tpl.DefaultTags
	}
	date := strings.TrimSpace(in.Date)
	fm := post.FrontMatter{
		Title:       title,
		Description: description,
		Date:        date,
		UpdatedAt:   firstNonEmpty(strings.TrimSpace(in.UpdatedAt), date),
		Status:      in.EffectiveStatus(),
		Tags:        tags,
		Category:    in.Category,
		HeroImage:   strings.TrimSpace(in.HeroImage),
		Canonical:   post.CanonicalURL(g.cfg.SiteURL, in.Slug),
		FAQ:         in.FAQ,
	}

	body := AssembleBody(SectionContext{
		Input:        in,
		Template:     tpl,
		KeywordTitle: g.expander.KeywordTitle(in.MainKeyword),
		Calculator:   templates.ResolveCalculator(in, tpl),
		Related:      templates.ResolveSecondaryCalculators(in, tpl),
	}, g.logger)

	scripts, err := ScriptBlocks(StructuredData(fm, g.cfg.SiteURL, g.cfg.Publisher))
	if err != nil {
		return Document{}, ferrors.InternalError("encode structured data").WithCause(err).Build()
	}

	content, err := frontmatter.Compose(FrontMatterFields(fm), body+"\n\n"+scripts+"\n")
	if err != nil {
		return Document{}, ferrors.InternalError("serialize front matter").WithCause(err).Build()
	}

	return Document{Slug: in.Slug, FrontMatter: fm, Body: body, Content: content}, nil
}

// Generate renders in and writes it to the content directory, returning the written path.
func (g *Generator) Generate(ctx context.Context, in post.Input) (string, error) {
	doc, err := g.Render(in)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, existed, err := WriteDocument(g.cfg.ContentDir, doc.Slug, doc.Content, !g.cfg.NoOverwrite)
	if err != nil {
		return "", err
	}
	if existed {
		g.logger.Warn("Overwrote existing post with the same slug", logfields.Slug(doc.Slug), logfields.Path(path))
	}
	g.logger.Info("Generated post",
		logfields.Slug(doc.Slug),
		logfields.Category(in.Category),
		logfields.Path(path))
	return path, nil
}

// FrontMatterFields orders fm the way posts are written. Empty optional keys are omitted.
func FrontMatterFields(fm post.FrontMatter) []frontmatter.Field {
	fields := []frontmatter.Field{
		{Key: "title", Value: fm.Title},
		{Key: "description", Value: fm.Description},
		{Key: "date", Value: fm.Date},
	}
	if fm.UpdatedAt != "" {
		fields = append(fields, frontmatter.Field{Key: "updatedAt", Value: fm.UpdatedAt})
	}
	fields = append(fields, frontmatter.Field{Key: "status", Value: string(fm.Status)})
	if len(fm.Tags) > 0 {
		fields = append(fields, frontmatter.Field{Key: "tags", Value: fm.Tags})
	}
	if fm.Category != "" {
		fields = append(fields, frontmatter.Field{Key: "category", Value: fm.Category})
	}
	if fm.HeroImage != "" {
		fields = append(fields, frontmatter.Field{Key: "heroImage", Value: fm.HeroImage})
	}
	if fm.Canonical != "" {
		fields = append(fields, frontmatter.Field{Key: "canonical", Value: fm.Canonical})
	}
	if len(fm.FAQ) > 0 {
		faq := make([]frontmatter.Mapping, 0, len(fm.FAQ))
		for _, item := range fm.FAQ {
			faq = append(faq, frontmatter.Mapping{
				{Key: "q", Value: item.Question},
				{Key: "a", Value: item.Answer},
			})
		}
		fields = append(fields, frontmatter.Field{Key: "faq", Value: faq})
	}
	return fields
}
