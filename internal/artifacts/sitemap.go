package artifacts

import (
	"encoding/xml"

	"github.com/kalkulator/blogbuilder/internal/post"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// RenderSitemap renders a sitemap with the blog index page followed by every published post.
func RenderSitemap(siteURL string, posts []post.Post) ([]byte, error) {
	published := post.Published(posts)

	index := sitemapURL{Loc: post.BlogURL(siteURL), ChangeFreq: "daily", Priority: "0.8"}
	for _, p := range published {
		if lm := p.LastModified(); !lm.IsZero() && lm.Format("2006-01-02") > index.LastMod {
			index.LastMod = lm.Format("2006-01-02")
		}
	}

	set := urlSet{Xmlns: sitemapNamespace, URLs: make([]sitemapURL, 0, len(published)+1)}
	set.URLs = append(set.URLs, index)
	for _, p := range published {
		entry := sitemapURL{Loc: p.Canonical, ChangeFreq: "monthly", Priority: "0.7"}
		if lm := p.LastModified(); !lm.IsZero() {
			entry.LastMod = lm.Format("2006-01-02")
		}
		set.URLs = append(set.URLs, entry)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// WriteSitemap writes the sitemap to path.
func WriteSitemap(path, siteURL string, posts []post.Post) error {
	data, err := RenderSitemap(siteURL, posts)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, append(data, '\n'))
}
