// Package post defines the blog post model shared by the generator and the corpus loader.
//
// FrontMatter is the contract between the two: the generator serializes it, the loader
// decodes it. Keeping both sides on the same type keeps the key names from drifting.
package post

import (
	"fmt"
	"strings"
	"time"

	"github.com/kalkulator/blogbuilder/internal/foundation/normalization"
)

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

var statusNormalizer = normalization.NewNormalizer(map[string]Status{
	"draft":     StatusDraft,
	"published": StatusPublished,
})

// Valid reports whether s is a known publication state.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// ValidStatuses lists the accepted status values.
func ValidStatuses() []string {
	return statusNormalizer.ValidKeys()
}

// ParseStatus accepts a publication state in any case, with surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	return statusNormalizer.NormalizeWithError(raw)
}

// FAQItem is one question/answer pair.
type FAQItem struct {
	Question string `json:"q" yaml:"q"`
	Answer   string `json:"a" yaml:"a"`
}

// Calculator references a calculator page on the site.
type Calculator struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// FrontMatter is the YAML header of a post as written by the generator and read by the loader.
type FrontMatter struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Date        string    `yaml:"date"`
	UpdatedAt   string    `yaml:"updatedAt,omitempty"`
	Status      Status    `yaml:"status"`
	Tags        []string  `yaml:"tags,omitempty"`
	Category    string    `yaml:"category,omitempty"`
	HeroImage   string    `yaml:"heroImage,omitempty"`
	Canonical   string    `yaml:"canonical,omitempty"`
	FAQ         []FAQItem `yaml:"faq,omitempty"`
}

// MissingRequired returns the names of mandatory keys that are empty.
func (fm FrontMatter) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(fm.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(fm.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(fm.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(string(fm.Status)) == "" {
		missing = append(missing, "status")
	}
	return missing
}

// Post is a parsed corpus document plus the metadata derived from its body.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        string
	UpdatedAt   string
	Status      Status
	Tags        []string
	Category    string
	HeroImage   string
	Canonical   string
	FAQ         []FAQItem
	Body        string

	PublishedAt time.Time
	ModifiedAt  time.Time

	Excerpt     string
	ReadTime    int
	Fingerprint string
}

// IsPublished reports whether the post is visible in derived artifacts.
func (p Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// LastModified returns ModifiedAt when set, PublishedAt otherwise.
func (p Post) LastModified() time.Time {
	if !p.ModifiedAt.IsZero() {
		return p.ModifiedAt
	}
	return p.PublishedAt
}

// Published filters posts down to the published ones, preserving order.
func Published(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.IsPublished() {
			out = append(out, p)
		}
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses an ISO date or date-time string.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
}

// CanonicalURL is the public URL of a post. The generator writes it into front matter and
// the loader uses it as the fallback, so both sides must go through this function.
func CanonicalURL(siteURL, slug string) string {
	return BlogURL(siteURL) + "/" + slug
}

// BlogURL is the URL of the blog index page.
func BlogURL(siteURL string) string {
	return strings.TrimRight(siteURL, "/") + "/blog"
}
