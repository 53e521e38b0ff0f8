package generator

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/kalkulator/blogbuilder/internal/post"
)

const schemaContext = "https://schema.org"

// Publisher is the fixed organization credited in Article structured data.
type Publisher struct {
	Name    string
	LogoURL string
}

// Article is the schema.org Article object emitted for every post.
type Article struct {
	Context          string       `json:"@context"`
	Type             string       `json:"@type"`
	Headline         string       `json:"headline"`
	Description      string       `json:"description"`
	Image            string       `json:"image,omitempty"`
	DatePublished    string       `json:"datePublished"`
	DateModified     string       `json:"dateModified"`
	Author           Organization `json:"author"`
	Publisher        Organization `json:"publisher"`
	MainEntityOfPage WebPage      `json:"mainEntityOfPage"`
}

// Organization is a schema.org Organization.
type Organization struct {
	Type string     `json:"@type"`
	Name string     `json:"name"`
	Logo *ImageLink `json:"logo,omitempty"`
}

// ImageLink is a schema.org ImageObject reference.
type ImageLink struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

// WebPage is the schema.org WebPage an Article is the main entity of.
type WebPage struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

// FAQPage is the schema.org FAQPage object emitted when a post has questions.
type FAQPage struct {
	Context    string     `json:"@context"`
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

// Question is one FAQPage entry.
type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

// Answer is the accepted answer of a Question.
type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// StructuredData returns the Article object and, when fm has FAQ entries, a FAQPage,
// in that order.
func StructuredData(fm post.FrontMatter, siteURL string, pub Publisher) []any {
	org := Organization{Type: "Organization", Name: pub.Name}
	if pub.LogoURL != "" {
		org.Logo = &ImageLink{Type: "ImageObject", URL: absoluteURL(siteURL, pub.LogoURL)}
	}

	article := Article{
		Context:          schemaContext,
		Type:             "Article",
		Headline:         fm.Title,
		Description:      fm.Description,
		DatePublished:    fm.Date,
		DateModified:     firstNonEmpty(fm.UpdatedAt, fm.Date),
		Author:           Organization{Type: "Organization", Name: pub.Name},
		Publisher:        org,
		MainEntityOfPage: WebPage{Type: "WebPage", ID: fm.Canonical},
	}
	if fm.HeroImage != "" {
		article.Image = absoluteURL(siteURL, fm.HeroImage)
	}

	out := []any{article}
	if len(fm.FAQ) == 0 {
		return out
	}

	page := FAQPage{Context: schemaContext, Type: "FAQPage", MainEntity: make([]Question, 0, len(fm.FAQ))}
	for _, item := range fm.FAQ {
		page.MainEntity = append(page.MainEntity, Question{
			Type:           "Question",
			Name:           item.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: item.Answer},
		})
	}
	return append(out, page)
}

// ScriptBlocks renders each object as an indented application/ld+json script element.
func ScriptBlocks(objects []any) (string, error) {
	blocks := make([]string, 0, len(objects))
	for _, obj := range objects {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(obj); err != nil {
			return "", err
		}
		blocks = append(blocks, `<script type="application/ld+json">`+"\n"+
			strings.TrimRight(buf.String(), "\n")+"\n</script>")
	}
	return strings.Join(blocks, "\n\n"), nil
}

func absoluteURL(siteURL, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(siteURL, "/") + "/" + strings.TrimLeft(ref, "/")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
