package artifacts

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/require"

	"github.com/kalkulator/blogbuilder/internal/post"
)

const siteURL = "https://example.com"

var testSite = Site{URL: siteURL, Title: "Kalkulator blog", Description: "Vodiči & savjeti", Language: "hr"}

func makePost(t *testing.T, slug, date string, status post.Status) post.Post {
	t.Helper()
	published, err := post.ParseDate(date)
	require.NoError(t, err)
	return post.Post{
		Slug:        slug,
		Title:       "Naslov " + slug,
		Description: "Opis <b>" + slug + "</b> & više",
		Date:        date,
		Status:      status,
		Tags:        []string{"test"},
		Category:    "Postotci i PDV",
		Canonical:   post.CanonicalURL(siteURL, slug),
		Body:        "## Uvod\n\nTijelo posta " + slug + ".\n",
		PublishedAt: published,
		Excerpt:     "Opis " + slug,
		ReadTime:    1,
	}
}

// newestFirst builds n published posts dated one day apart, newest first.
func newestFirst(t *testing.T, n int) []post.Post {
	t.Helper()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]post.Post, 0, n)
	for i := n - 1; i >= 0; i-- {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		posts = append(posts, makePost(t, fmt.Sprintf("post-%02d", i), date, post.StatusPublished))
	}
	return posts
}

func TestRenderIndex_PublishedOnlyInGivenOrder(t *testing.T) {
	posts := []post.Post{
		makePost(t, "march", "2025-03-01", post.StatusPublished),
		makePost(t, "draft", "2025-02-15", post.StatusDraft),
		makePost(t, "february", "2025-02-01", post.StatusPublished),
		makePost(t, "january", "2025-01-01", post.StatusPublished),
	}
	posts[3].Tags = nil

	data, err := RenderIndex(posts)
	require.NoError(t, err)

	var entries []IndexEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 3)
	require.Equal(t, "2025-03-01", entries[0].Date)
	require.Equal(t, "2025-02-01", entries[1].Date)
	require.Equal(t, "2025-01-01", entries[2].Date)
	require.Equal(t, "Opis march", entries[0].Excerpt)
	require.Equal(t, 1, entries[0].ReadTime)
	require.NotContains(t, string(data), `"draft"`)
	require.Contains(t, string(data), `"tags": []`)
}

func TestRenderSearchIndex_TruncatesPlainTextBody(t *testing.T) {
	p := makePost(t, "dugi", "2025-01-01", post.StatusPublished)
	p.Body = "## Naslov\n\n" + strings.Repeat("**riječ** ", 400)
	draft := makePost(t, "skica", "2025-01-02", post.StatusDraft)

	data, err := RenderSearchIndex([]post.Post{draft, p}, 0)
	require.NoError(t, err)

	var entries []SearchEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "dugi", entries[0].Slug)
	require.Equal(t, DefaultSearchBodyLimit, utf8.RuneCountInString(entries[0].Body))
	require.True(t, strings.HasPrefix(entries[0].Body, "Naslov riječ riječ"))
	require.NotContains(t, entries[0].Body, "**")
}

func TestRenderRSS_CapsAtTwentyNewest(t *testing.T) {
	posts := newestFirst(t, 25)

	data, err := RenderRSS(testSite, posts, 0, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	feed, err := gofeed.NewParser().ParseString(string(data))
	require.NoError(t, err)
	require.Equal(t, "rss", feed.FeedType)
	require.Equal(t, "2.0", feed.FeedVersion)
	require.Equal(t, "Kalkulator blog", feed.Title)
	require.Len(t, feed.Items, 20)

	require.Equal(t, "Naslov post-24", feed.Items[0].Title)
	require.Equal(t, "Naslov post-05", feed.Items[19].Title)
	for i := 1; i < len(feed.Items); i++ {
		require.True(t, feed.Items[i-1].PublishedParsed.After(*feed.Items[i].PublishedParsed))
	}

	first := feed.Items[0]
	require.Equal(t, siteURL+"/blog/post-24", first.Link)
	require.Equal(t, siteURL+"/blog/post-24", first.GUID)
	require.Equal(t, "Opis <b>post-24</b> & više", first.Description)
	require.Equal(t, []string{"Postotci i PDV"}, first.Categories)
}

func TestRenderRSS_ChannelFormatting(t *testing.T) {
	posts := []post.Post{
		makePost(t, "live", "2025-01-01", post.StatusPublished),
		makePost(t, "hidden", "2025-01-02", post.StatusDraft),
	}

	data, err := RenderRSS(testSite, posts, 20, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	out := string(data)

	require.True(t, strings.HasPrefix(out, xml.Header))
	require.Contains(t, out, `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	require.Contains(t, out, `<atom:link href="https://example.com/rss.xml" rel="self" type="application/rss+xml"></atom:link>`)
	require.Contains(t, out, "<lastBuildDate>Sun, 01 Jun 2025 12:00:00 GMT</lastBuildDate>")
	require.Contains(t, out, "<pubDate>Wed, 01 Jan 2025 00:00:00 GMT</pubDate>")
	require.Contains(t, out, "<title><![CDATA[Naslov live]]></title>")
	require.Contains(t, out, `<guid isPermaLink="true">https://example.com/blog/live</guid>`)
	require.NotContains(t, out, "hidden")
}

func TestRenderSitemap(t *testing.T) {
	updated := makePost(t, "updated", "2025-01-01", post.StatusPublished)
	updated.UpdatedAt = "2025-04-01"
	updated.ModifiedAt = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	posts := []post.Post{
		makePost(t, "newer", "2025-02-01", post.StatusPublished),
		updated,
		makePost(t, "draft", "2025-03-01", post.StatusDraft),
	}

	data, err := RenderSitemap(siteURL+"/", posts)
	require.NoError(t, err)
	require.Contains(t, string(data), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)

	var set urlSet
	require.NoError(t, xml.Unmarshal(data, &set))
	require.Len(t, set.URLs, 3)

	require.Equal(t, sitemapURL{Loc: siteURL + "/blog", LastMod: "2025-04-01", ChangeFreq: "daily", Priority: "0.8"}, set.URLs[0])
	require.Equal(t, sitemapURL{Loc: siteURL + "/blog/newer", LastMod: "2025-02-01", ChangeFreq: "monthly", Priority: "0.7"}, set.URLs[1])
	require.Equal(t, "2025-04-01", set.URLs[2].LastMod)
	require.NotContains(t, string(data), "draft")
}

func TestRenderSitemap_EmptyCorpus(t *testing.T) {
	data, err := RenderSitemap(siteURL, nil)
	require.NoError(t, err)

	var set urlSet
	require.NoError(t, xml.Unmarshal(data, &set))
	require.Len(t, set.URLs, 1)
	require.Empty(t, set.URLs[0].LastMod)
}

func TestEmitAll_WritesEveryArtifactWithoutDrafts(t *testing.T) {
	out := filepath.Join(t.TempDir(), "public")
	posts := []post.Post{
		makePost(t, "visible", "2025-01-02", post.StatusPublished),
		makePost(t, "secret-draft", "2025-01-03", post.StatusDraft),
	}

	e := NewEmitter(Options{Site: testSite, OutputDir: out}, nil)
	require.NoError(t, e.EmitAll(context.Background(), posts))

	for _, name := range []string{IndexFile, SearchFile, RSSFile, SitemapFile} {
		// #nosec G304 -- test path.
		data, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err, name)
		require.Contains(t, string(data), "visible", name)
		require.NotContains(t, string(data), "secret-draft", name)
	}

	leftovers, err := filepath.Glob(filepath.Join(out, ".*.tmp"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestEmitAll_JoinsErrors(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	e := NewEmitter(Options{Site: testSite, OutputDir: blocker}, nil)
	err := e.EmitAll(context.Background(), newestFirst(t, 2))
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	require.Len(t, joined.Unwrap(), 4)
}

func TestEmitAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewEmitter(Options{Site: testSite, OutputDir: t.TempDir()}, nil).EmitAll(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}
