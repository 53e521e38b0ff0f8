package artifacts

import (
	"encoding/json"

	"github.com/kalkulator/blogbuilder/internal/markdown"
	"github.com/kalkulator/blogbuilder/internal/post"
)

// DefaultSearchBodyLimit is the search-index body budget in runes.
const DefaultSearchBodyLimit = 1000

// IndexEntry is the public blog-index record of one post.
type IndexEntry struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	HeroImage   string   `json:"heroImage,omitempty"`
	Excerpt     string   `json:"excerpt"`
	ReadTime    int      `json:"readTime"`
}

// SearchEntry is the client-side search record of one post.
type SearchEntry struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Body        string   `json:"body"`
}

// RenderIndex renders the blog index JSON array for the published posts, in order.
func RenderIndex(posts []post.Post) ([]byte, error) {
	entries := make([]IndexEntry, 0, len(posts))
	for _, p := range post.Published(posts) {
		entries = append(entries, IndexEntry{
			Slug:        p.Slug,
			Title:       p.Title,
			Description: p.Description,
			Date:        p.Date,
			Tags:        nonNil(p.Tags),
			Category:    p.Category,
			HeroImage:   p.HeroImage,
			Excerpt:     p.Excerpt,
			ReadTime:    p.ReadTime,
		})
	}
	return json.MarshalIndent(entries, "", "  ")
}

// RenderSearchIndex renders the search index JSON array. Bodies are reduced to plain
// text and cut to bodyLimit runes.
func RenderSearchIndex(posts []post.Post, bodyLimit int) ([]byte, error) {
	if bodyLimit <= 0 {
		bodyLimit = DefaultSearchBodyLimit
	}
	entries := make([]SearchEntry, 0, len(posts))
	for _, p := range post.Published(posts) {
		entries = append(entries, SearchEntry{
			Slug:        p.Slug,
			Title:       p.Title,
			Description: p.Description,
			Tags:        nonNil(p.Tags),
			Body:        truncateRunes(markdown.PlainText([]byte(p.Body)), bodyLimit),
		})
	}
	return json.Marshal(entries)
}

// WriteIndex writes the blog index to path.
func WriteIndex(path string, posts []post.Post) error {
	data, err := RenderIndex(posts)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// WriteSearchIndex writes the search index to path.
func WriteSearchIndex(path string, posts []post.Post, bodyLimit int) error {
	data, err := RenderSearchIndex(posts, bodyLimit)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
