package artifacts

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/kalkulator/blogbuilder/internal/post"
)

// DefaultRSSLimit caps the number of feed items.
const DefaultRSSLimit = 20

// rfc1123GMT is RFC 1123 with the zone spelled GMT, as feed readers expect.
const rfc1123GMT = "Mon, 02 Jan 2006 15:04:05 GMT"

// Site describes the blog for feed and sitemap headers.
type Site struct {
	URL         string
	Title       string
	Description string
	Language    string
}

type cdata struct {
	Value string `xml:",cdata"`
}

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         cdata     `xml:"title"`
	Link          string    `xml:"link"`
	Description   cdata     `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate"`
	AtomLink      atomLink  `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       cdata   `xml:"title"`
	Link        string  `xml:"link"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
	Description cdata   `xml:"description"`
	Category    string  `xml:"category,omitempty"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// FeedURL is the public URL of the RSS feed.
func FeedURL(siteURL string) string {
	return strings.TrimRight(siteURL, "/") + "/" + RSSFile
}

// RenderRSS renders an RSS 2.0 feed with the first limit published posts.
// Posts are expected newest first.
func RenderRSS(site Site, posts []post.Post, limit int, buildTime time.Time) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultRSSLimit
	}
	published := post.Published(posts)
	if len(published) > limit {
		published = published[:limit]
	}

	channel := rssChannel{
		Title:         cdata{site.Title},
		Link:          post.BlogURL(site.URL),
		Description:   cdata{site.Description},
		Language:      site.Language,
		LastBuildDate: buildTime.UTC().Format(rfc1123GMT),
		AtomLink:      atomLink{Href: FeedURL(site.URL), Rel: "self", Type: "application/rss+xml"},
		Items:         make([]rssItem, 0, len(published)),
	}
	for _, p := range published {
		channel.Items = append(channel.Items, rssItem{
			Title:       cdata{p.Title},
			Link:        p.Canonical,
			GUID:        rssGUID{IsPermaLink: true, Value: p.Canonical},
			PubDate:     p.PublishedAt.UTC().Format(rfc1123GMT),
			Description: cdata{p.Description},
			Category:    p.Category,
		})
	}

	out, err := xml.MarshalIndent(rssDocument{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: channel,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// WriteRSS writes the feed to path.
func WriteRSS(path string, site Site, posts []post.Post, limit int, buildTime time.Time) error {
	data, err := RenderRSS(site, posts, limit, buildTime)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, append(data, '\n'))
}
