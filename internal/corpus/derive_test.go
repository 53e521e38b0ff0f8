package corpus

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestExcerpt_DescriptionWithinBudgetIsReturnedVerbatim(t *testing.T) {
	desc := "Kratki opis posta."
	require.Equal(t, desc, Excerpt(desc, "Tijelo posta koje se ne koristi.", 160))

	exact := strings.Repeat("a", 160)
	require.Equal(t, exact, Excerpt(exact, "tijelo", 160))
}

func TestExcerpt_LongDescriptionFallsBackToBody(t *testing.T) {
	desc := strings.Repeat("opis ", 40)
	body := "## Uvod\n\n" + strings.Repeat("**Postotak** je [dio](/link) cjeline. ", 20)

	got := Excerpt(desc, body, 160)
	require.LessOrEqual(t, utf8.RuneCountInString(got), 160)
	require.True(t, strings.HasSuffix(got, "..."))
	require.True(t, strings.HasPrefix(got, "Uvod Postotak je dio cjeline."))
	require.NotContains(t, got, "**")
	require.NotContains(t, got, "](")
}

func TestExcerpt_BoundHoldsForManyLimits(t *testing.T) {
	body := strings.Repeat("riječ ", 100) + strings.Repeat("x", 300)
	desc := strings.Repeat("d", 500)
	for limit := 1; limit <= 200; limit += 7 {
		got := Excerpt(desc, body, limit)
		require.LessOrEqual(t, utf8.RuneCountInString(got), limit, "limit %d", limit)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"fits", "kratko", 10, "kratko"},
		{"word boundary", "jedan dva tri četiri", 12, "jedan dva..."},
		{"cut before space keeps word", "jedan dva tri", 12, "jedan dva..."},
		{"single long word", "abcdefghijklmnop", 10, "abcdefg..."},
		{"trailing punctuation trimmed", "jedan, dva, tri", 10, "jedan..."},
		{"tiny limit", "abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.text, tt.limit)
			require.Equal(t, tt.want, got)
			require.LessOrEqual(t, utf8.RuneCountInString(got), tt.limit)
		})
	}
}

func TestReadTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"empty", 0, 1},
		{"one word", 1, 1},
		{"exactly 200", 200, 1},
		{"201", 201, 2},
		{"1000", 1000, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.TrimSpace(strings.Repeat("riječ ", tt.words))
			require.Equal(t, tt.want, ReadTime(body))
		})
	}
}

func TestReadTime_IgnoresStructuredData(t *testing.T) {
	script := "<script type=\"application/ld+json\">\n{" + strings.Repeat(`"k": "v v v v", `, 200) + `"x": 1}` + "\n</script>\n"
	require.Equal(t, 1, ReadTime("Kratki tekst.\n\n"+script))
}
