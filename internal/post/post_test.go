package post

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kalkulator/blogbuilder/internal/foundation/errors"
)

func TestCanonicalURL_TrimsTrailingSlash(t *testing.T) {
	require.Equal(t, "https://example.hr/blog/pdv", CanonicalURL("https://example.hr/", "pdv"))
	require.Equal(t, "https://example.hr/blog/pdv", CanonicalURL("https://example.hr", "pdv"))
	require.Equal(t, "https://example.hr/blog", BlogURL("https://example.hr//"))
}

func TestParseDate_AcceptsISOForms(t *testing.T) {
	cases := map[string]time.Time{
		"2025-01-01":           time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		"2025-01-01T10:30:00Z": time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC),
		"2025-01-01 10:30:00":  time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		require.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	_, err := ParseDate("01.01.2025.")
	require.Error(t, err)
}

func TestFrontMatter_MissingRequired(t *testing.T) {
	fm := FrontMatter{Title: "T", Description: "D", Status: StatusDraft}
	require.Equal(t, []string{"date"}, fm.MissingRequired())

	require.Empty(t, FrontMatter{Title: "T", Description: "D", Date: "2025-01-01", Status: StatusPublished}.MissingRequired())
	require.Equal(t, []string{"title", "description", "date", "status"}, FrontMatter{}.MissingRequired())
}

func TestParseStatus_IsCaseInsensitive(t *testing.T) {
	s, err := ParseStatus(" Published ")
	require.NoError(t, err)
	require.Equal(t, StatusPublished, s)

	s, err = ParseStatus("DRAFT")
	require.NoError(t, err)
	require.Equal(t, StatusDraft, s)

	_, err = ParseStatus("archived")
	require.Error(t, err)
	require.Equal(t, []string{"draft", "published"}, ValidStatuses())
}

func TestPublished_PreservesOrder(t *testing.T) {
	posts := []Post{
		{Slug: "a", Status: StatusPublished},
		{Slug: "b", Status: StatusDraft},
		{Slug: "c", Status: StatusPublished},
	}
	got := Published(posts)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Slug)
	require.Equal(t, "c", got[1].Slug)
}

func TestPost_LastModifiedFallsBackToDate(t *testing.T) {
	published := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := Post{Date: "2025-01-01", PublishedAt: published}
	require.Equal(t, published, p.LastModified())

	p.UpdatedAt = "2025-02-01"
	p.ModifiedAt = published.AddDate(0, 1, 0)
	require.Equal(t, p.ModifiedAt, p.LastModified())
}

func TestParseInput_Valid(t *testing.T) {
	in, err := ParseInput([]byte(`{
		"slug": "kako-izracunati-postotak",
		"category": "Postotci i PDV",
		"main_keyword": "kako izračunati postotak",
		"date": "2025-01-01",
		"faq": [{"q": "Što je postotak?", "a": "Stoti dio."}],
		"calculator": {"title": "Kalkulator postotka", "link": "/postotak"}
	}`))
	require.NoError(t, err)
	require.Equal(t, "kako-izracunati-postotak", in.Slug)
	require.Equal(t, StatusPublished, in.EffectiveStatus())
	require.Len(t, in.FAQ, 1)
	require.Equal(t, "Stoti dio.", in.FAQ[0].Answer)
	require.NotNil(t, in.Calculator)
}

func TestParseInput_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing slug":   `{"category":"c","main_keyword":"k","date":"2025-01-01"}`,
		"bad slug":       `{"slug":"Bad Slug","category":"c","main_keyword":"k","date":"2025-01-01"}`,
		"bad date":       `{"slug":"x","category":"c","main_keyword":"k","date":"yesterday"}`,
		"bad updatedAt":  `{"slug":"x","category":"c","main_keyword":"k","date":"2025-01-01","updatedAt":"soon"}`,
		"bad status":     `{"slug":"x","category":"c","main_keyword":"k","date":"2025-01-01","status":"live"}`,
		"malformed json": `{"slug":`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseInput([]byte(raw))
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryValidation))
		})
	}
}

func TestReadInput_MissingFile(t *testing.T) {
	_, err := ReadInput(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestReadInput_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"slug":"x","category":"c","main_keyword":"k","date":"2025-01-01","status":"draft"}`), 0o600))

	in, err := ReadInput(path)
	require.NoError(t, err)
	require.Equal(t, StatusDraft, in.EffectiveStatus())
}
